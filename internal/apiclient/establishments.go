package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tesoura/internal/model"
	"tesoura/internal/normalize"
)

// DefaultCountry fills the country of a shop when the form leaves it blank.
const DefaultCountry = "Brasil"

// ListEstablishments fetches one page of raw shop records.
func (c *Client) ListEstablishments(ctx context.Context, page, limit int) ([]model.ShopRecord, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	recs, err := c.getList(ctx, opListShops, "/establishments", q)
	if err != nil {
		return nil, err
	}
	out := make([]model.ShopRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, model.ShopRecord(rec))
	}
	return out, nil
}

// GetEstablishment fetches one raw shop record.
func (c *Client) GetEstablishment(ctx context.Context, id string) (model.ShopRecord, error) {
	var rec map[string]any
	if err := c.do(ctx, opGetShop, http.MethodGet, "/establishments/"+url.PathEscape(id), nil, nil, &rec); err != nil {
		return nil, err
	}
	return model.ShopRecord(rec), nil
}

// CreateEstablishment creates a shop owned by ownerID and returns its id.
func (c *Client) CreateEstablishment(ctx context.Context, ownerID string, in model.ShopInput) (string, error) {
	body := shopBody(in)
	body["dono_id"] = normalize.WireID(ownerID)

	var rec map[string]any
	if err := c.do(ctx, opCreateShop, http.MethodPost, "/establishments", nil, body, &rec); err != nil {
		return "", err
	}
	return normalize.ID(rec["id"]), nil
}

// UpdateEstablishment replaces the editable fields of a shop.
func (c *Client) UpdateEstablishment(ctx context.Context, id string, in model.ShopInput) error {
	return c.do(ctx, opUpdateShop, http.MethodPut, "/establishments/"+url.PathEscape(id), nil, shopBody(in), nil)
}

// DeleteEstablishment removes a shop.
func (c *Client) DeleteEstablishment(ctx context.Context, id string) error {
	return c.do(ctx, opDeleteShop, http.MethodDelete, "/establishments/"+url.PathEscape(id), nil, nil, nil)
}

// shopBody maps the form input onto the field names the API expects.
func shopBody(in model.ShopInput) map[string]any {
	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = DefaultCountry
	}
	return map[string]any{
		"nome":        strings.TrimSpace(in.Name),
		"description": strings.TrimSpace(in.Description),
		"rua":         strings.TrimSpace(in.Street),
		"cidade":      strings.TrimSpace(in.City),
		"stado":       strings.TrimSpace(in.State),
		"pais":        country,
		"cep":         strings.TrimSpace(in.Zip),
		"phone":       strings.TrimSpace(in.Phone),
		"mei":         strings.TrimSpace(in.MEI),
	}
}
