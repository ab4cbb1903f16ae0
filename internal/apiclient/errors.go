package apiclient

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	Op      string
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// TransportError is a network or decoding failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Generic messages, used when the server gives no body text.
var genericMessages = map[string]string{
	opCreateUser:    "failed to create user",
	opListUsers:     "failed to fetch users",
	opGetUser:       "failed to fetch user",
	opUpdateUser:    "failed to update user",
	opDeleteUser:    "failed to delete user",
	opLogin:         "failed to log in",
	opListShops:     "failed to fetch establishments",
	opGetShop:       "failed to fetch establishment",
	opCreateShop:    "failed to create establishment",
	opUpdateShop:    "failed to update establishment",
	opDeleteShop:    "failed to delete establishment",
	opListBookings:  "failed to fetch bookings",
	opCreateBooking: "failed to create booking",
	opFetchPhoto:    "failed to fetch photo",
}

const maxErrorBody = 4 << 10

func newHTTPError(op string, resp *http.Response) *HTTPError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := messageFromBody(raw)
	if msg == "" {
		msg = genericMessages[op]
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
	}
	return &HTTPError{Op: op, Status: resp.StatusCode, Message: msg}
}

// messageFromBody prefers a JSON error field and falls back to the plain text.
func messageFromBody(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}
	if strings.HasPrefix(text, "{") {
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err == nil {
			for _, k := range []string{"error", "message", "mensagem", "erro"} {
				if s, ok := body[k].(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return text
}
