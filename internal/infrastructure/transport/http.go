// Package transport implements the JSON-over-HTTP transport consumed by the
// core services. One Client is bound to one logical remote base (auth,
// catalog, cart); non-2xx responses surface as *ports.StatusError carrying
// the server's user-facing message when the body had one.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maktaba/customer-core/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client is a JSON HTTP transport bound to a single base URL.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

// New builds a Client for the given base URL. timeout <= 0 uses the default.
func New(base string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// Get issues a GET and decodes the 2xx body into out (skipped when out is nil).
func (c *Client) Get(ctx context.Context, path string, headers map[string]string, out any) error {
	return c.do(ctx, http.MethodGet, path, headers, nil, out)
}

// Post issues a POST with a JSON body and decodes the 2xx response into out.
func (c *Client) Post(ctx context.Context, path string, headers map[string]string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, headers, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// errorBody is the superset of error envelopes the backends emit: the auth
// and catalog services use {"message": ...}, older services use {"error": ...}.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) statusError(method, path string, resp *http.Response) error {
	se := &ports.StatusError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(raw) > 0 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			se.Message = eb.Message
			if se.Message == "" {
				se.Message = eb.Error
			}
		}
	}

	c.log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Msg("remote error")
	return fmt.Errorf("%s %s: %w", method, path, se)
}
