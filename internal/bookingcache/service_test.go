package bookingcache

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"tesoura/internal/apiclient"
	"tesoura/internal/db"
	"tesoura/internal/normalize"
	"tesoura/internal/stubapi"
)

type fixture struct {
	svc    *Service
	stub   *stubapi.Server
	client *apiclient.Client
	kv     db.KVStore
	userID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	stub := stubapi.New(stubapi.Options{Seed: true})
	ts := httptest.NewServer(stub.Handler())
	t.Cleanup(ts.Close)

	conn, err := db.Open(filepath.Join(t.TempDir(), "tesoura.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	client := apiclient.New(ts.URL, apiclient.Options{Timeout: 5 * time.Second})
	session, err := client.Login(context.Background(), stubapi.DemoCustomerEmail, stubapi.DemoPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	kv := db.KVStore{DB: conn}
	return fixture{svc: New(client, kv, nil), stub: stub, client: client, kv: kv, userID: session.ID}
}

func TestPlanLabel(t *testing.T) {
	cases := map[int]string{1: "Simple cut", 2: "Cut + beard", 3: "Premium", 9: "Plan 9"}
	for id, want := range cases {
		if got := PlanLabel(id); got != want {
			t.Errorf("PlanLabel(%d) = %q, want %q", id, got, want)
		}
	}
}

func TestLoadEnrichesAndCaches(t *testing.T) {
	f := newFixture(t)

	views, fromCache := f.svc.Load(context.Background(), f.userID)
	if fromCache {
		t.Error("fresh load reported as cached")
	}
	if len(views) != 1 {
		t.Fatalf("len(views) = %d, want 1", len(views))
	}
	if views[0].ShopName != "Barbearia Central" || views[0].PlanLabel != "Cut + beard" {
		t.Errorf("not enriched: %+v", views[0])
	}
	if _, ok, _ := f.kv.Get(db.KeyBookings); !ok {
		t.Error("cache not written")
	}
}

func TestLoadFallsBackToCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fresh, _ := f.svc.Load(ctx, f.userID)
	f.stub.FailBookings(true)

	views, fromCache := f.svc.Load(ctx, f.userID)
	if !fromCache {
		t.Error("expected fallback to cache")
	}
	if len(views) != len(fresh) || views[0].ID != fresh[0].ID || views[0].ShopName != fresh[0].ShopName {
		t.Errorf("fallback = %+v, want %+v", views, fresh)
	}
}

func TestFallbackWithoutCacheIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.stub.FailBookings(true)

	views, fromCache := f.svc.Load(context.Background(), f.userID)
	if !fromCache || len(views) != 0 {
		t.Errorf("Load = %d views, fromCache %v", len(views), fromCache)
	}
}

func TestCacheOfAnotherUserIsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.Load(ctx, f.userID)
	f.stub.FailBookings(true)
	if views, _ := f.svc.Load(ctx, "someone-else"); len(views) != 0 {
		t.Errorf("leaked %d cached bookings to another user", len(views))
	}
}

func TestCreateAppendsAndRewritesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2030, 5, 15, 13, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	before, _ := f.svc.Load(ctx, f.userID)
	rec, err := f.client.ListEstablishments(ctx, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	shopID := normalize.ID(rec[1]["id"])

	created, all, err := f.svc.Create(ctx, f.userID, shopID, 3)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ShopName != "Corte Fino" || created.PlanLabel != "Premium" {
		t.Errorf("created not enriched: %+v", created)
	}
	wantDue := time.Date(2030, 6, 14, 0, 0, 0, 0, time.UTC)
	if !created.NextPaymentAt.Equal(wantDue) {
		t.Errorf("NextPaymentAt = %v, want %v", created.NextPaymentAt, wantDue)
	}
	if len(all) != len(before)+1 || all[len(all)-1].ID != created.ID {
		t.Errorf("list not appended: %+v", all)
	}

	f.stub.FailBookings(true)
	cachedViews, _ := f.svc.Load(ctx, f.userID)
	if len(cachedViews) != len(all) {
		t.Errorf("cache holds %d bookings, want %d", len(cachedViews), len(all))
	}
}

func TestUnknownShop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, _, err := f.svc.Create(ctx, f.userID, "9999", 7)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ShopName != UnknownShop || created.PlanLabel != "Plan 7" {
		t.Errorf("unexpected view %+v", created)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	if _, _, err := f.svc.Create(context.Background(), f.userID, "", 1); err == nil {
		t.Error("expected validation error for missing shop")
	}
	if _, _, err := f.svc.Create(context.Background(), f.userID, "3", 0); err == nil {
		t.Error("expected validation error for missing plan")
	}
}
