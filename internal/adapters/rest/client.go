// internal/adapters/rest/client.go
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/estoqueapp/estoque/internal/core/domain"
	"github.com/estoqueapp/estoque/internal/core/ports"
)

// Config holds the HTTP client settings for the remote store.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Client implements ports.StockStore over the store's HTTP/JSON API
// (/products and /movements). Every request carries a fresh X-Request-ID
// and passes through a client-side rate limiter. Failures are terminal:
// nothing is retried here.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Statically assert that *Client implements the StockStore interface.
var _ ports.StockStore = (*Client)(nil)

// NewClient creates a store client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger.With(slog.String("component", "store_client")),
	}
}

// StoreError carries a non-2xx response from the store.
type StoreError struct {
	StatusCode int
	Detail     string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error %d: %s", e.StatusCode, e.Detail)
}

// ListProducts fetches the full product list.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct registers a product; the store assigns its id.
func (c *Client) CreateProduct(ctx context.Context, req domain.ProductRequest) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a product's fields.
func (c *Client) UpdateProduct(ctx context.Context, id int64, req domain.ProductRequest) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product; the store emits the excluido movement.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// ListMovements fetches the full movement list.
func (c *Client) ListMovements(ctx context.Context) ([]domain.Movement, error) {
	var movements []domain.Movement
	if err := c.do(ctx, http.MethodGet, "/movements", nil, &movements); err != nil {
		return nil, err
	}
	return movements, nil
}

// CreateMovement records one movement; the store assigns id and timestamp.
func (c *Client) CreateMovement(ctx context.Context, req domain.MovementRequest) (*domain.Movement, error) {
	var movement domain.Movement
	if err := c.do(ctx, http.MethodPost, "/movements", req, &movement); err != nil {
		return nil, err
	}
	return &movement, nil
}

// errorBody matches the store's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	c.logger.DebugContext(ctx, "store request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(data))
		var parsed errorBody
		if err := json.Unmarshal(data, &parsed); err == nil && parsed.Detail != "" {
			detail = parsed.Detail
		}
		return &StoreError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if dest != nil {
		if err := json.Unmarshal(data, dest); err != nil {
			return fmt.Errorf("decode store response: %w", err)
		}
	}
	return nil
}
