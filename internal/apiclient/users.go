package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"tesoura/internal/model"
	"tesoura/internal/normalize"
)

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, in model.NewUser) (model.User, error) {
	var rec map[string]any
	if err := c.do(ctx, opCreateUser, http.MethodPost, "/usuarios", nil, in, &rec); err != nil {
		return model.User{}, err
	}
	return normalize.User(rec), nil
}

// ListUsers returns every account known to the API.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	recs, err := c.getList(ctx, opListUsers, "/usuarios", nil)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, normalize.User(rec))
	}
	return users, nil
}

// GetUser fetches one account by id.
func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
	var rec map[string]any
	if err := c.do(ctx, opGetUser, http.MethodGet, "/usuarios/"+url.PathEscape(id), nil, nil, &rec); err != nil {
		return model.User{}, err
	}
	return normalize.User(rec), nil
}

// UpdateUser replaces the editable fields of an account.
func (c *Client) UpdateUser(ctx context.Context, id string, in model.NewUser) error {
	return c.do(ctx, opUpdateUser, http.MethodPut, "/usuarios/"+url.PathEscape(id), nil, in, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, opDeleteUser, http.MethodDelete, "/usuarios/"+url.PathEscape(id), nil, nil, nil)
}

type loginRequest struct {
	User     string `json:"usuario"`
	Password string `json:"senha"`
}

// Login authenticates and returns the session identity.
func (c *Client) Login(ctx context.Context, user, password string) (model.Session, error) {
	var rec map[string]any
	err := c.do(ctx, opLogin, http.MethodPost, "/login", nil, loginRequest{User: user, Password: password}, &rec)
	if err != nil {
		return model.Session{}, err
	}
	return normalize.Session(rec), nil
}
