package apiclient

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxPhotoBytes = 5 << 20

// PhotoURL resolves a photo reference. Absolute URLs are returned as is.
func (c *Client) PhotoURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + "/uploads/" + url.PathEscape(strings.TrimLeft(ref, "/"))
}

// FetchPhoto downloads and decodes the image behind ref.
func (c *Client) FetchPhoto(ctx context.Context, ref string) (image.Image, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Op: opFetchPhoto, Err: err}
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PhotoURL(ref), nil)
	if err != nil {
		return nil, &TransportError{Op: opFetchPhoto, Err: fmt.Errorf("request creation failed: %w", err)}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: opFetchPhoto, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newHTTPError(opFetchPhoto, resp)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, &TransportError{Op: opFetchPhoto, Err: fmt.Errorf("image decode error: %w", err)}
	}
	return img, nil
}
