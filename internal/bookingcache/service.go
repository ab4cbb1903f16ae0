// Package bookingcache loads a customer's remote bookings, enriches them for
// display and keeps a session-scoped copy to fall back on when the API is
// unreachable.
package bookingcache

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"tesoura/internal/db"
	"tesoura/internal/model"
	"tesoura/internal/normalize"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// UnknownShop is shown when a booking's shop cannot be resolved.
const UnknownShop = "Unknown barbershop"

// BillingCycle is the time from booking to the first payment.
const BillingCycle = 30 * 24 * time.Hour

// Plan is a fixed service tier.
type Plan struct {
	ID    int
	Label string
}

// Plans lists the tiers offered when booking, in display order.
var Plans = []Plan{
	{ID: 1, Label: "Simple cut"},
	{ID: 2, Label: "Cut + beard"},
	{ID: 3, Label: "Premium"},
}

// PlanLabel resolves a plan id to its label, defaulting to "Plan {id}".
func PlanLabel(id int) string {
	for _, p := range Plans {
		if p.ID == id {
			return p.Label
		}
	}
	return fmt.Sprintf("Plan %d", id)
}

// API is the part of the HTTP client the cache needs.
type API interface {
	ListBookings(ctx context.Context, userID string) ([]model.RemoteBooking, error)
	CreateBooking(ctx context.Context, in model.NewBooking) (string, error)
	GetEstablishment(ctx context.Context, id string) (model.ShopRecord, error)
}

// KV stores the cached list as a single value.
type KV interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// cached is the stored form: the list belongs to one user only.
type cached struct {
	UserID   string              `json:"usuario_id"`
	Bookings []model.BookingView `json:"agendamentos"`
}

// Service loads, creates and caches remote bookings.
type Service struct {
	api API
	kv  KV
	log *zap.Logger
	now func() time.Time
}

// New creates a Service.
func New(api API, kv KV, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, kv: kv, log: logger.Named("bookingcache"), now: time.Now}
}

// Load returns the user's bookings. When the API fails the cached list is
// returned instead and fromCache is true; the failure itself is only logged.
func (s *Service) Load(ctx context.Context, userID string) (bookings []model.BookingView, fromCache bool) {
	remote, err := s.api.ListBookings(ctx, userID)
	if err != nil {
		s.log.Warn("falling back to cached bookings", zap.String("user_id", userID), zap.Error(err))
		views := s.readCache(userID)
		return s.enrich(ctx, views), true
	}

	views := make([]model.BookingView, 0, len(remote))
	for _, b := range remote {
		views = append(views, model.BookingView{RemoteBooking: b})
	}
	views = s.enrich(ctx, views)
	s.writeCache(userID, views)
	return views, false
}

// Create books planID at shopID for userID, appends the result to the
// cached list and returns the new booking along with the full list.
func (s *Service) Create(ctx context.Context, userID, shopID string, planID int) (model.BookingView, []model.BookingView, error) {
	if userID == "" || shopID == "" {
		return model.BookingView{}, nil, model.NewValidationError("", "user and barbershop are required")
	}
	if planID <= 0 {
		return model.BookingView{}, nil, model.NewValidationError("plan", "choose a plan")
	}

	in := model.NewBooking{
		UserID:        userID,
		ShopID:        shopID,
		PlanID:        planID,
		NextPaymentAt: s.now().Add(BillingCycle).UTC().Truncate(24 * time.Hour),
		Status:        model.StatusActive,
	}
	id, err := s.api.CreateBooking(ctx, in)
	if err != nil {
		return model.BookingView{}, nil, fmt.Errorf("failed to create booking: %w", err)
	}

	created := s.enrich(ctx, []model.BookingView{{RemoteBooking: model.RemoteBooking{
		ID:            id,
		UserID:        userID,
		ShopID:        shopID,
		PlanID:        planID,
		NextPaymentAt: in.NextPaymentAt,
		Status:        in.Status,
	}}})[0]

	all := append(s.readCache(userID), created)
	s.writeCache(userID, all)
	s.log.Info("booking created", zap.String("id", id), zap.String("shop_id", shopID), zap.Int("plan_id", planID))
	return created, all, nil
}

// enrich fills shop names and plan labels. Names already resolved, e.g. from
// the cache, are kept.
func (s *Service) enrich(ctx context.Context, views []model.BookingView) []model.BookingView {
	names := make(map[string]string)
	for i := range views {
		v := &views[i]
		v.PlanLabel = PlanLabel(v.PlanID)
		if v.ShopName != "" && v.ShopName != UnknownShop {
			continue
		}
		name, ok := names[v.ShopID]
		if !ok {
			name = s.shopName(ctx, v.ShopID)
			names[v.ShopID] = name
		}
		v.ShopName = name
	}
	return views
}

func (s *Service) shopName(ctx context.Context, shopID string) string {
	if shopID == "" {
		return UnknownShop
	}
	rec, err := s.api.GetEstablishment(ctx, shopID)
	if err != nil {
		s.log.Debug("shop lookup failed", zap.String("shop_id", shopID), zap.Error(err))
		return UnknownShop
	}
	name := normalize.Shop(rec).Name
	if name == normalize.DefaultShopName {
		return UnknownShop
	}
	return name
}

func (s *Service) readCache(userID string) []model.BookingView {
	raw, ok, err := s.kv.Get(db.KeyBookings)
	if err != nil {
		s.log.Warn("failed to read booking cache", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var c cached
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.log.Warn("discarding unreadable booking cache", zap.Error(err))
		return nil
	}
	if c.UserID != userID {
		return nil
	}
	return c.Bookings
}

func (s *Service) writeCache(userID string, views []model.BookingView) {
	raw, err := json.Marshal(cached{UserID: userID, Bookings: views})
	if err != nil {
		s.log.Warn("failed to encode booking cache", zap.Error(err))
		return
	}
	if err := s.kv.Put(db.KeyBookings, string(raw)); err != nil {
		s.log.Warn("failed to write booking cache", zap.Error(err))
	}
}
