// Package normalize maps raw API records onto the canonical model types.
//
// Canonical shop schema, with the aliases accepted for each field (first
// present, non-blank value wins):
//
//	ID          id, _id
//	Name        name, nome                  default "No name"
//	Address     address, cidade             default "No address"
//	Rating      rating, rating_avg          default 0, never negative
//	RatingCount ratingCount, rating_count   default 0, never negative
//	ImageRef    image, imagem, fotoUrl      default ""
//	FullAddress fullAddress.{rua,cidade,estado,cep}, then top-level rua, cidade, stado/estado, cep
//
// The API sends ids as numbers or strings; both become strings here.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"tesoura/internal/model"
)

const (
	DefaultShopName    = "No name"
	DefaultShopAddress = "No address"
)

// Shop normalizes a raw establishment record.
func Shop(rec model.ShopRecord) model.Shop {
	r := map[string]any(rec)
	shop := model.Shop{
		ID:          ID(first(r, "id", "_id")),
		Name:        firstString(r, DefaultShopName, "name", "nome"),
		Address:     firstString(r, DefaultShopAddress, "address", "cidade"),
		Rating:      nonNegativeFloat(first(r, "rating", "rating_avg")),
		RatingCount: nonNegativeInt(first(r, "ratingCount", "rating_count")),
		ImageRef:    firstString(r, "", "image", "imagem", "fotoUrl"),
		Description: firstString(r, "", "description", "descricao"),
		Phone:       firstString(r, "", "phone", "telefone"),
		MEI:         firstString(r, "", "mei"),
		OwnerID:     ID(first(r, "dono_id", "ownerId")),
	}
	shop.FullAddress = fullAddress(r)
	return shop
}

func fullAddress(r map[string]any) model.Address {
	var nested model.Address
	if raw, ok := r["fullAddress"].(map[string]any); ok {
		// Decode errors leave the affected fields empty so the
		// top-level aliases below fill them in.
		_ = mapstructure.WeakDecode(raw, &nested)
	}
	pick := func(nestedVal string, keys ...string) string {
		if strings.TrimSpace(nestedVal) != "" {
			return nestedVal
		}
		return firstString(r, "", keys...)
	}
	return model.Address{
		Street: pick(nested.Street, "rua"),
		City:   pick(nested.City, "cidade"),
		State:  pick(nested.State, "stado", "estado"),
		Zip:    pick(nested.Zip, "cep"),
	}
}

// ID renders an id of any JSON type as a string. Whole floats lose their
// fractional part so 7 and 7.0 compare equal.
func ID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
	case float32:
		if t == float32(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
	}
	return strings.TrimSpace(cast.ToString(v))
}

// WireID returns id as an integer when it is numeric, so numeric ids keep
// their JSON type when sent back to the API.
func WireID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

// User normalizes a raw user record.
func User(r map[string]any) model.User {
	return model.User{
		ID:       ID(first(r, "id", "_id")),
		CPF:      firstString(r, "", "cpf"),
		Name:     firstString(r, "", "nome", "name"),
		Email:    firstString(r, "", "email"),
		Role:     firstString(r, model.WireRoleCustomer, "role"),
		PhotoRef: firstString(r, "", "fotoUrl", "photoUrl"),
	}
}

// Session normalizes the login response. The user record may be wrapped
// under "usuario" or sent bare.
func Session(r map[string]any) model.Session {
	if inner, ok := r["usuario"].(map[string]any); ok {
		r = inner
	}
	u := User(r)
	return model.Session{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		PhotoRef: u.PhotoRef,
	}
}

// Booking normalizes a raw remote booking record.
func Booking(r map[string]any) model.RemoteBooking {
	b := model.RemoteBooking{
		ID:     ID(first(r, "id", "_id")),
		UserID: ID(first(r, "usuario_id", "userId")),
		ShopID: ID(first(r, "estabelecimento_id", "shopId")),
		PlanID: cast.ToInt(first(r, "plano_id", "planId")),
		Status: model.BookingStatus(firstString(r, string(model.StatusActive), "status")),
	}
	if s := firstString(r, "", "proximo_pag", "nextPaymentAt"); s != "" {
		if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
			b.NextPaymentAt = t
		}
	}
	return b
}

func first(r map[string]any, keys ...string) any {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func firstString(r map[string]any, def string, keys ...string) string {
	v := first(r, keys...)
	if v == nil {
		return def
	}
	if s := strings.TrimSpace(cast.ToString(v)); s != "" {
		return s
	}
	return def
}

func nonNegativeFloat(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func nonNegativeInt(v any) int {
	n, err := cast.ToIntE(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
