package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"medequip-admin/internal/core"
	"medequip-admin/internal/logger"
)

// maxResponseBytes bounds how much of a backend response is read.
const maxResponseBytes = 8 << 20

// Client talks to the backend REST API. It is safe for concurrent use; the
// bearer token is looked up per request from the TokenStore in the context,
// falling back to the client's default store.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	log     zerolog.Logger
}

// NewClient creates a client for baseURL (e.g. http://localhost:3001/api).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  &MemoryTokenStore{},
		log:     logger.WithComponent("api"),
	}
}

// WithDefaultTokenStore sets the store used when the context carries none.
func (c *Client) WithDefaultTokenStore(ts TokenStore) *Client {
	c.tokens = ts
	return c
}

// envelope is the backend's { success, data, pagination } wrapper.
type envelope struct {
	Data       json.RawMessage  `json:"data"`
	Pagination *core.Pagination `json:"pagination"`
}

// Do sends a JSON request and decodes the response's data field into out.
// Bodies without a data field are decoded whole. out may be nil.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	raw, err := c.send(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && hasValue(env.Data) {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, endpoint, err)
	}
	return nil
}

// List fetches a paginated collection. The data array is decoded into out
// (anything that is not an array yields an empty list) and the pagination
// metadata is returned separately, zero when the backend sent none.
func (c *Client) List(ctx context.Context, endpoint string, params url.Values, out any) (core.Pagination, error) {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	raw, err := c.send(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return core.Pagination{}, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return core.Pagination{}, fmt.Errorf("api: decode GET %s: %w", endpoint, err)
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '[' {
		data = []byte("[]")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return core.Pagination{}, fmt.Errorf("api: decode GET %s: %w", endpoint, err)
	}
	var p core.Pagination
	if env.Pagination != nil {
		p = *env.Pagination
	}
	return p, nil
}

// send performs the HTTP exchange and maps non-2xx responses to *APIError.
// A 401 clears the stored token before returning.
func (c *Client) send(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	tokens := c.tokenStore(ctx)
	if token := tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("api: read %s %s: %w", method, endpoint, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Method: method, Endpoint: endpoint, Message: errorMessage(raw)}
		if resp.StatusCode == http.StatusUnauthorized {
			tokens.Clear()
		}
		c.log.Warn().
			Str("detail", apiErr.Detail()).
			Msg("api call failed")
		return nil, apiErr
	}
	return raw, nil
}

func (c *Client) tokenStore(ctx context.Context) TokenStore {
	if ts := TokenStoreFrom(ctx); ts != nil {
		return ts
	}
	return c.tokens
}

func hasValue(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

// errorMessage resolves error.message, then message, then a generic text.
func errorMessage(raw []byte) string {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "An error occurred"
	}
	if len(body.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	if body.Message != "" {
		return body.Message
	}
	return "Request failed"
}
