// Package client implements the remote catalog client: a thin HTTP consumer
// of the product service that normalizes responses and failures into a
// uniform result type.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// storageUnavailableMarker is the message substring the product service emits
// when its backing store is down. Matching on it (besides the 503 status)
// keeps the detection working across proxies that rewrite status codes.
const storageUnavailableMarker = "storage unavailable"

const maxResponseBody = 1 << 20

// Record is a raw product record as served by the product service.
type Record struct {
	ID          string  `json:"id"`
	LegacyID    string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
	Source      string  `json:"source"`
}

// EffectiveID returns the record's server id, preferring the modern field and
// falling back to the legacy document id.
func (r Record) EffectiveID() string {
	if trimmed := strings.TrimSpace(r.ID); trimmed != "" {
		return trimmed
	}
	return strings.TrimSpace(r.LegacyID)
}

// CreateRequest is the body of a product create call.
type CreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category,omitempty"`
	InStock     *bool   `json:"inStock,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// UpdateRequest is the partial body of a product update call.
type UpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Category    *string  `json:"category,omitempty"`
	InStock     *bool    `json:"inStock,omitempty"`
}

// Client talks to the remote product service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption customises the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger attaches a logger used for request diagnostics.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a catalog client for the service rooted at baseURL,
// e.g. http://localhost:3000/api.
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// FetchProducts returns every product the service knows about.
func (c *Client) FetchProducts(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := c.do(ctx, http.MethodGet, "/products", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetProduct returns a single product by server id.
func (c *Client) GetProduct(ctx context.Context, id string) (Record, error) {
	var record Record
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// CreateProduct creates a product and returns the stored record with its
// server-assigned id.
func (c *Client) CreateProduct(ctx context.Context, req CreateRequest) (Record, error) {
	var record Record
	if err := c.do(ctx, http.MethodPost, "/products", req, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// UpdateProduct applies a partial update and returns the updated record.
func (c *Client) UpdateProduct(ctx context.Context, id string, req UpdateRequest) (Record, error) {
	var record Record
	if err := c.do(ctx, http.MethodPut, "/products/"+id, req, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// DeleteProduct removes a product and returns the deleted record.
func (c *Client) DeleteProduct(ctx context.Context, id string) (Record, error) {
	var response struct {
		Product Record `json:"product"`
	}
	if err := c.do(ctx, http.MethodDelete, "/products/"+id, nil, &response); err != nil {
		return Record{}, err
	}
	return response.Product, nil
}

// ClearCustomProducts bulk-deletes every custom product and reports how many
// records the service removed.
func (c *Client) ClearCustomProducts(ctx context.Context) (int, error) {
	var response struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodDelete, "/products", nil, &response); err != nil {
		return 0, err
	}
	return response.Count, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("catalog client: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("catalog client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return &MalformedResponseError{Err: err}
		}
		return nil
	}

	return c.classifyFailure(method, path, resp.StatusCode, raw)
}

func (c *Client) classifyFailure(method, path string, status int, raw []byte) error {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	// A failure body that is not JSON is tolerated; classification then rests
	// on the status code alone.
	_ = json.Unmarshal(raw, &envelope)

	message := strings.TrimSpace(envelope.Message)
	if message == "" {
		message = strings.TrimSpace(envelope.Error)
	}

	c.logger.Debug("catalog request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.String("message", message),
	)

	lowered := strings.ToLower(message)
	switch {
	case status == http.StatusServiceUnavailable,
		strings.Contains(lowered, storageUnavailableMarker),
		strings.Contains(lowered, "database not connected"):
		return &StorageUnavailableError{Message: message}
	case status == http.StatusNotFound:
		return &NotFoundError{ID: strings.TrimPrefix(path, "/products/")}
	case status == http.StatusBadRequest:
		return &ValidationError{Message: message}
	default:
		return &NetworkError{Err: fmt.Errorf("%s %s: unexpected status %d: %s", method, path, status, message)}
	}
}
