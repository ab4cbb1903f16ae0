package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tesoura/internal/apiclient"
	"tesoura/internal/model"
	"tesoura/internal/normalize"
	"tesoura/internal/stubapi"
)

func newClient(t *testing.T, opts stubapi.Options) (*apiclient.Client, *stubapi.Server) {
	t.Helper()
	stub := stubapi.New(opts)
	ts := httptest.NewServer(stub.Handler())
	t.Cleanup(ts.Close)
	return apiclient.New(ts.URL, apiclient.Options{Timeout: 5 * time.Second}), stub
}

func TestLogin(t *testing.T) {
	client, _ := newClient(t, stubapi.Options{Seed: true})
	ctx := context.Background()

	s, err := client.Login(ctx, stubapi.DemoAdminEmail, stubapi.DemoPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Name != "Bruno Lima" || s.RoleKind() != model.RoleEstablishmentAdmin {
		t.Errorf("unexpected session %+v", s)
	}

	_, err = client.Login(ctx, stubapi.DemoAdminEmail, "wrong")
	var httpErr *apiclient.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d", httpErr.Status)
	}
	if httpErr.Message != "Invalid username or password" {
		t.Errorf("Message = %q, want body text", httpErr.Message)
	}
}

func TestGenericMessageWithoutBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := apiclient.New(ts.URL, apiclient.Options{})
	_, err := client.ListEstablishments(context.Background(), 1, 5)

	var httpErr *apiclient.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Message != "failed to fetch establishments" {
		t.Errorf("Message = %q", httpErr.Message)
	}
}

func TestTransportErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"usuario": `))
	}))
	client := apiclient.New(ts.URL, apiclient.Options{})

	_, err := client.Login(context.Background(), "a", "b")
	var transportErr *apiclient.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError on bad JSON, got %v", err)
	}

	ts.Close()
	_, err = client.ListEstablishments(context.Background(), 1, 5)
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError on closed server, got %v", err)
	}
}

func TestListEstablishmentsPages(t *testing.T) {
	client, stub := newClient(t, stubapi.Options{Seed: true})
	ctx := context.Background()

	var total int
	for p := 1; p <= 4; p++ {
		recs, err := client.ListEstablishments(ctx, p, 5)
		if err != nil {
			t.Fatalf("page %d: %v", p, err)
		}
		total += len(recs)
	}
	if total != 13 {
		t.Errorf("total = %d, want 13", total)
	}
	if got := stub.Hits("GET /establishments"); got != 4 {
		t.Errorf("hits = %d, want 4", got)
	}
}

func TestListEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":1,"nome":"A"},{"id":2,"nome":"B"}]}`))
	}))
	defer ts.Close()

	recs, err := apiclient.New(ts.URL, apiclient.Options{}).ListEstablishments(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("ListEstablishments: %v", err)
	}
	if len(recs) != 2 || normalize.Shop(recs[1]).Name != "B" {
		t.Errorf("unexpected records %v", recs)
	}
}

func TestEstablishmentCRUD(t *testing.T) {
	client, _ := newClient(t, stubapi.Options{})
	ctx := context.Background()

	id, err := client.CreateEstablishment(ctx, "3", model.ShopInput{
		Name: "Nova", Street: "Rua 1", City: "Recife", State: "PE", Zip: "50000-000",
	})
	if err != nil {
		t.Fatalf("CreateEstablishment: %v", err)
	}

	rec, err := client.GetEstablishment(ctx, id)
	if err != nil {
		t.Fatalf("GetEstablishment: %v", err)
	}
	shop := normalize.Shop(rec)
	if shop.Name != "Nova" || shop.OwnerID != "3" || shop.FullAddress.State != "PE" {
		t.Errorf("unexpected shop %+v", shop)
	}
	if rec["pais"] != apiclient.DefaultCountry {
		t.Errorf("pais = %v, want default country", rec["pais"])
	}

	if err := client.UpdateEstablishment(ctx, id, model.ShopInput{Name: "Renomeada", State: "SP"}); err != nil {
		t.Fatalf("UpdateEstablishment: %v", err)
	}
	rec, _ = client.GetEstablishment(ctx, id)
	if normalize.Shop(rec).Name != "Renomeada" {
		t.Errorf("update not applied: %v", rec)
	}

	if err := client.DeleteEstablishment(ctx, id); err != nil {
		t.Fatalf("DeleteEstablishment: %v", err)
	}
	if _, err := client.GetEstablishment(ctx, id); !apiclient.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestUsersAndBookings(t *testing.T) {
	client, _ := newClient(t, stubapi.Options{Seed: true})
	ctx := context.Background()

	u, err := client.CreateUser(ctx, model.NewUser{
		CPF: "1", Name: "Carla", Email: "carla@example.com", Password: "pw", Role: model.WireRoleCustomer,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" || u.Name != "Carla" {
		t.Errorf("unexpected user %+v", u)
	}

	users, err := client.ListUsers(ctx)
	if err != nil || len(users) != 3 {
		t.Fatalf("ListUsers = %d users, err %v", len(users), err)
	}
	got, err := client.GetUser(ctx, u.ID)
	if err != nil || got.Email != "carla@example.com" {
		t.Fatalf("GetUser = %+v, %v", got, err)
	}

	next := time.Date(2030, 5, 15, 0, 0, 0, 0, time.UTC)
	id, err := client.CreateBooking(ctx, model.NewBooking{UserID: u.ID, ShopID: "3", PlanID: 3, NextPaymentAt: next})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	bookings, err := client.ListBookings(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(bookings) != 1 || bookings[0].ID != id || bookings[0].Status != model.StatusActive {
		t.Fatalf("unexpected bookings %+v", bookings)
	}
	if !bookings[0].NextPaymentAt.Equal(next) {
		t.Errorf("NextPaymentAt = %v", bookings[0].NextPaymentAt)
	}

	if err := client.UpdateUser(ctx, u.ID, model.NewUser{Name: "Carla M."}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if err := client.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := client.GetUser(ctx, u.ID); !apiclient.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestFetchPhoto(t *testing.T) {
	client, _ := newClient(t, stubapi.Options{})

	img, err := client.FetchPhoto(context.Background(), "ana.png")
	if err != nil {
		t.Fatalf("FetchPhoto: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("bounds = %v", b)
	}
	if got := client.PhotoURL("https://cdn.example.com/a.png"); got != "https://cdn.example.com/a.png" {
		t.Errorf("PhotoURL kept absolute = %q", got)
	}
}
