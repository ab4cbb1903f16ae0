package normalize

import (
	"testing"
	"time"

	"tesoura/internal/model"
)

func TestShopCanonicalFields(t *testing.T) {
	shop := Shop(model.ShopRecord{
		"id":          float64(7),
		"name":        "Barbearia Central",
		"address":     "Centro",
		"rating":      4.5,
		"ratingCount": float64(12),
		"image":       "central.png",
		"fullAddress": map[string]any{"rua": "Rua A", "cidade": "Recife", "estado": "PE", "cep": "50000-000"},
	})

	if shop.ID != "7" {
		t.Errorf("ID = %q, want 7", shop.ID)
	}
	if shop.Name != "Barbearia Central" || shop.Address != "Centro" {
		t.Errorf("unexpected name/address: %q %q", shop.Name, shop.Address)
	}
	if shop.Rating != 4.5 || shop.RatingCount != 12 {
		t.Errorf("rating = %v (%d)", shop.Rating, shop.RatingCount)
	}
	want := model.Address{Street: "Rua A", City: "Recife", State: "PE", Zip: "50000-000"}
	if shop.FullAddress != want {
		t.Errorf("FullAddress = %+v, want %+v", shop.FullAddress, want)
	}
	if shop.ImageRef != "central.png" {
		t.Errorf("ImageRef = %q", shop.ImageRef)
	}
}

func TestShopAliases(t *testing.T) {
	shop := Shop(model.ShopRecord{
		"id":           "abc",
		"nome":         "Corte Fino",
		"cidade":       "Olinda",
		"rating_avg":   "3.8",
		"rating_count": "5",
		"rua":          "Rua B",
		"stado":        "PE",
		"cep":          "53000-000",
		"dono_id":      float64(3),
	})

	if shop.Name != "Corte Fino" {
		t.Errorf("Name = %q", shop.Name)
	}
	if shop.Address != "Olinda" {
		t.Errorf("Address = %q", shop.Address)
	}
	if shop.Rating != 3.8 || shop.RatingCount != 5 {
		t.Errorf("rating = %v (%d)", shop.Rating, shop.RatingCount)
	}
	want := model.Address{Street: "Rua B", City: "Olinda", State: "PE", Zip: "53000-000"}
	if shop.FullAddress != want {
		t.Errorf("FullAddress = %+v, want %+v", shop.FullAddress, want)
	}
	if shop.OwnerID != "3" {
		t.Errorf("OwnerID = %q", shop.OwnerID)
	}
}

func TestShopDefaults(t *testing.T) {
	shop := Shop(model.ShopRecord{"id": 1, "name": "  ", "rating": -2, "ratingCount": "many"})

	if shop.Name != DefaultShopName {
		t.Errorf("Name = %q, want %q", shop.Name, DefaultShopName)
	}
	if shop.Address != DefaultShopAddress {
		t.Errorf("Address = %q, want %q", shop.Address, DefaultShopAddress)
	}
	if shop.Rating != 0 || shop.RatingCount != 0 {
		t.Errorf("rating = %v (%d), want zeros", shop.Rating, shop.RatingCount)
	}
	if shop.FullAddress != (model.Address{}) {
		t.Errorf("FullAddress = %+v, want empty", shop.FullAddress)
	}
}

func TestNestedAddressWinsOverTopLevel(t *testing.T) {
	shop := Shop(model.ShopRecord{
		"id":          1,
		"cidade":      "Top",
		"fullAddress": map[string]any{"cidade": "Nested"},
	})
	if shop.FullAddress.City != "Nested" {
		t.Errorf("City = %q, want Nested", shop.FullAddress.City)
	}
	if shop.Address != "Top" {
		t.Errorf("Address = %q, want Top", shop.Address)
	}
}

func TestID(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{float64(12), "12"},
		{12, "12"},
		{"x-1", "x-1"},
		{nil, ""},
		{1.5, "1.5"},
	}
	for _, c := range cases {
		if got := ID(c.in); got != c.want {
			t.Errorf("ID(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWireID(t *testing.T) {
	if got, ok := WireID("42").(int64); !ok || got != 42 {
		t.Errorf("WireID(42) = %v", WireID("42"))
	}
	if got, ok := WireID("abc").(string); !ok || got != "abc" {
		t.Errorf("WireID(abc) = %v", WireID("abc"))
	}
}

func TestSessionUnwrapsUsuario(t *testing.T) {
	s := Session(map[string]any{
		"usuario": map[string]any{
			"id": float64(5), "nome": "Ana", "email": "ana@example.com",
			"role": model.WireRoleAdmin, "fotoUrl": "ana.png",
		},
	})
	if s.ID != "5" || s.Name != "Ana" || s.PhotoRef != "ana.png" {
		t.Errorf("unexpected session %+v", s)
	}
	if s.RoleKind() != model.RoleEstablishmentAdmin {
		t.Errorf("role = %v, want admin", s.RoleKind())
	}
}

func TestBooking(t *testing.T) {
	b := Booking(map[string]any{
		"id":                 float64(9),
		"usuario_id":         float64(5),
		"estabelecimento_id": "7",
		"plano_id":           float64(2),
		"proximo_pag":        "2030-05-15",
		"status":             "late",
	})
	if b.ID != "9" || b.UserID != "5" || b.ShopID != "7" || b.PlanID != 2 {
		t.Errorf("unexpected booking %+v", b)
	}
	if b.Status != model.StatusLate {
		t.Errorf("Status = %q", b.Status)
	}
	want := time.Date(2030, 5, 15, 0, 0, 0, 0, time.UTC)
	if !b.NextPaymentAt.Equal(want) {
		t.Errorf("NextPaymentAt = %v, want %v", b.NextPaymentAt, want)
	}
}
