package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// ErrNotFound is returned when the catalog has no record for the product.
var ErrNotFound = errors.New("catalog record not found")

// StatusError reports an unexpected HTTP status from the catalog service.
type StatusError struct {
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog API unexpected status: %s", e.Status)
}

// Client wraps APIClient with typed helpers for stock and product lookups.
type Client struct {
	api *APIClient
}

// DefaultTimeout bounds each catalog request when no http.Client is supplied.
const DefaultTimeout = 5 * time.Second

// NewClient instantiates the catalog client with sane defaults. opts are
// applied after the HTTP client is set.
func NewClient(baseURL string, httpClient *http.Client, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	api, err := NewAPIClient(baseURL, append([]ClientOption{WithHTTPClient(httpClient)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("build catalog client: %w", err)
	}
	return &Client{api: api}, nil
}

// WithTracePropagation injects the caller's trace context into every catalog
// request. A nil propagator uses the global one.
func WithTracePropagation(propagator propagation.TextMapPropagator) ClientOption {
	return WithRequestEditorFn(func(ctx context.Context, req *http.Request) error {
		p := propagator
		if p == nil {
			p = otel.GetTextMapPropagator()
		}
		p.Inject(ctx, propagation.HeaderCarrier(req.Header))
		return nil
	})
}

// GetStock fetches the available amount for a product.
func (c *Client) GetStock(ctx context.Context, productID int64) (Stock, error) {
	var stock Stock
	if err := c.fetch("stock", func() (*http.Response, error) {
		return c.api.GetStock(ctx, productID)
	}, &stock); err != nil {
		return Stock{}, err
	}
	return stock, nil
}

// GetProduct fetches a single product record.
func (c *Client) GetProduct(ctx context.Context, productID int64) (Product, error) {
	var product Product
	if err := c.fetch("product", func() (*http.Response, error) {
		return c.api.GetProduct(ctx, productID)
	}, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// ListProducts fetches the whole product list.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.fetch("products", func() (*http.Response, error) {
		return c.api.ListProducts(ctx)
	}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) fetch(what string, call func() (*http.Response, error), dst any) error {
	if c == nil || c.api == nil {
		return errors.New("catalog client not configured")
	}
	resp, err := call()
	if err != nil {
		return fmt.Errorf("call catalog API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := decodeJSON(resp, dst); err != nil {
			return fmt.Errorf("decode catalog %s: %w", what, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return &StatusError{Status: resp.Status, Code: resp.StatusCode}
	}
}
