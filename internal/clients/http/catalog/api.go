package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// Product is the wire shape of a catalog product.
type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Stock is the wire shape of a stock record.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// HttpRequestDoer performs HTTP requests.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn can mutate an outgoing request before it is sent.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// ClientOption configures the low-level API client.
type ClientOption func(*APIClient) error

// APIClient issues raw requests against the catalog service.
type APIClient struct {
	Server         string
	Client         HttpRequestDoer
	RequestEditors []RequestEditorFn
}

func NewAPIClient(server string, opts ...ClientOption) (*APIClient, error) {
	client := &APIClient{Server: server}
	for _, o := range opts {
		if err := o(client); err != nil {
			return nil, err
		}
	}
	if !strings.HasSuffix(client.Server, "/") {
		client.Server += "/"
	}
	if client.Client == nil {
		client.Client = &http.Client{}
	}
	return client, nil
}

// WithHTTPClient overrides the underlying HTTP doer.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *APIClient) error {
		c.Client = doer
		return nil
	}
}

// WithRequestEditorFn appends a request editor applied to every call.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *APIClient) error {
		c.RequestEditors = append(c.RequestEditors, fn)
		return nil
	}
}

func (c *APIClient) GetStock(ctx context.Context, productID int64) (*http.Response, error) {
	req, err := newByIDRequest(c.Server, "stock", productID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req)
}

func (c *APIClient) GetProduct(ctx context.Context, productID int64) (*http.Response, error) {
	req, err := newByIDRequest(c.Server, "products", productID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req)
}

func (c *APIClient) ListProducts(ctx context.Context) (*http.Response, error) {
	serverURL, err := url.Parse(c.Server)
	if err != nil {
		return nil, err
	}
	queryURL, err := serverURL.Parse("products")
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodGet, queryURL.String(), nil)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req)
}

func (c *APIClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	for _, edit := range c.RequestEditors {
		if err := edit(ctx, req); err != nil {
			return nil, err
		}
	}
	return c.Client.Do(req)
}

func newByIDRequest(server, resource string, productID int64) (*http.Request, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "productId", runtime.ParamLocationPath, productID)
	if err != nil {
		return nil, err
	}
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	queryURL, err := serverURL.Parse(fmt.Sprintf("%s/%s", resource, pathParam))
	if err != nil {
		return nil, err
	}
	return http.NewRequest(http.MethodGet, queryURL.String(), nil)
}

// decodeJSON reads a bounded response body into dst.
func decodeJSON(resp *http.Response, dst any) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

const maxBodyBytes = 1 << 20
