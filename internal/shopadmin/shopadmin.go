// Package shopadmin manages the establishments owned by an admin account.
package shopadmin

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"tesoura/internal/model"
	"tesoura/internal/normalize"
)

// OwnedLimit is the page size used to look up an owner's shops.
const OwnedLimit = 100

// API is the part of the HTTP client shop management needs.
type API interface {
	ListEstablishments(ctx context.Context, page, limit int) ([]model.ShopRecord, error)
	GetEstablishment(ctx context.Context, id string) (model.ShopRecord, error)
	CreateEstablishment(ctx context.Context, ownerID string, in model.ShopInput) (string, error)
	UpdateEstablishment(ctx context.Context, id string, in model.ShopInput) error
	DeleteEstablishment(ctx context.Context, id string) error
}

// Service wraps shop CRUD with input validation.
type Service struct {
	api API
	log *zap.Logger
}

// New creates a Service.
func New(api API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, log: logger.Named("shopadmin")}
}

// ListOwned returns the shops whose owner is ownerID.
func (s *Service) ListOwned(ctx context.Context, ownerID string) ([]model.Shop, error) {
	recs, err := s.api.ListEstablishments(ctx, 1, OwnedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load establishments: %w", err)
	}
	var owned []model.Shop
	for _, rec := range recs {
		shop := normalize.Shop(rec)
		if shop.OwnerID == ownerID {
			owned = append(owned, shop)
		}
	}
	return owned, nil
}

// Get loads one shop.
func (s *Service) Get(ctx context.Context, id string) (model.Shop, error) {
	rec, err := s.api.GetEstablishment(ctx, id)
	if err != nil {
		return model.Shop{}, fmt.Errorf("failed to load establishment: %w", err)
	}
	return normalize.Shop(rec), nil
}

// Create validates in and creates a shop owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in model.ShopInput) (string, error) {
	if ownerID == "" {
		return "", model.NewValidationError("owner", "an owner is required")
	}
	if err := Validate(in); err != nil {
		return "", err
	}
	id, err := s.api.CreateEstablishment(ctx, ownerID, in)
	if err != nil {
		return "", err
	}
	s.log.Info("establishment created", zap.String("id", id), zap.String("owner_id", ownerID))
	return id, nil
}

// Update validates in and replaces the shop's editable fields.
func (s *Service) Update(ctx context.Context, id string, in model.ShopInput) error {
	if id == "" {
		return model.NewValidationError("id", "no establishment selected")
	}
	if err := Validate(in); err != nil {
		return err
	}
	if err := s.api.UpdateEstablishment(ctx, id, in); err != nil {
		return err
	}
	s.log.Info("establishment updated", zap.String("id", id))
	return nil
}

// Delete removes a shop.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.NewValidationError("id", "no establishment selected")
	}
	if err := s.api.DeleteEstablishment(ctx, id); err != nil {
		return err
	}
	s.log.Info("establishment deleted", zap.String("id", id))
	return nil
}

// Validate checks the required shop fields.
func Validate(in model.ShopInput) error {
	required := []struct {
		field, label, value string
	}{
		{"name", "name", in.Name},
		{"street", "street", in.Street},
		{"city", "city", in.City},
		{"state", "state", in.State},
		{"zip", "zip code", in.Zip},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return model.NewValidationError(r.field, "%s is required", r.label)
		}
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.State)) > 2 {
		return model.NewValidationError("state", "state must be at most 2 characters")
	}
	return nil
}

// InputFromShop prefills the editable fields from an existing shop.
func InputFromShop(shop model.Shop) model.ShopInput {
	name := shop.Name
	if name == normalize.DefaultShopName {
		name = ""
	}
	return model.ShopInput{
		Name:        name,
		Description: shop.Description,
		Street:      shop.FullAddress.Street,
		City:        shop.FullAddress.City,
		State:       shop.FullAddress.State,
		Zip:         shop.FullAddress.Zip,
		Phone:       shop.Phone,
		MEI:         shop.MEI,
	}
}
