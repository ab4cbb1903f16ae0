package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"tesoura/internal/model"
	"tesoura/internal/normalize"
)

// ListBookings fetches the remote bookings of a user.
func (c *Client) ListBookings(ctx context.Context, userID string) ([]model.RemoteBooking, error) {
	q := url.Values{}
	q.Set("usuario_id", userID)

	recs, err := c.getList(ctx, opListBookings, "/agendamentos", q)
	if err != nil {
		return nil, err
	}
	out := make([]model.RemoteBooking, 0, len(recs))
	for _, rec := range recs {
		out = append(out, normalize.Booking(rec))
	}
	return out, nil
}

// CreateBooking creates a remote booking and returns its id.
func (c *Client) CreateBooking(ctx context.Context, in model.NewBooking) (string, error) {
	status := in.Status
	if status == "" {
		status = model.StatusActive
	}
	body := map[string]any{
		"usuario_id":         normalize.WireID(in.UserID),
		"estabelecimento_id": normalize.WireID(in.ShopID),
		"plano_id":           in.PlanID,
		"proximo_pag":        in.NextPaymentAt.Format(time.DateOnly),
		"status":             string(status),
	}

	var rec map[string]any
	if err := c.do(ctx, opCreateBooking, http.MethodPost, "/agendamentos", nil, body, &rec); err != nil {
		return "", err
	}
	return normalize.ID(rec["id"]), nil
}
