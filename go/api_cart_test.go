package cartserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/http/mapper"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/memory"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/notify"
	cartapp "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	catalogmapper "github.com/Apurer/go-gin-cart-server/internal/domains/catalog/adapters/http/mapper"
	catalogapp "github.com/Apurer/go-gin-cart-server/internal/domains/catalog/application"
	apierrors "github.com/Apurer/go-gin-cart-server/internal/shared/errors"
)

type testApp struct {
	router  *gin.Engine
	catalog *memory.Catalog
	notices *notify.Recorder
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog, err := memory.NewSeededCatalog()
	require.NoError(t, err)
	notices := notify.NewRecorder(10)
	service := cartapp.NewService(context.Background(), catalog, memory.NewSnapshotStore(), cartapp.WithNotifier(notices))

	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		CartAPI:       NewCartAPI(service, notices),
		StorefrontAPI: NewStorefrontAPI(catalogapp.NewView(catalog, service), service),
	})
	return testApp{router: router, catalog: catalog, notices: notices}
}

func (a testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) mapper.Cart {
	t.Helper()
	var cart mapper.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	return cart
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestCartAPI_AddUpdateRemove(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/cart/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, 1, cart.Entries[0].Amount)

	rec = app.do(t, http.MethodPut, "/cart/items/1", `{"amount":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decodeCart(t, rec)
	assert.Equal(t, 3, cart.Entries[0].Amount)
	assert.InDelta(t, 539.7, cart.Total, 0.0001)

	rec = app.do(t, http.MethodDelete, "/cart/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Entries)
}

func TestCartAPI_StockExceededIsUnprocessable(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPut, "/cart/items/1", `{"amount":4}`)
	// Stock check precedes the entry lookup, so the notice is about stock.
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeCartNotice, problem.Type)
	assert.Equal(t, "requested quantity exceeds stock", problem.Detail)
	assert.Equal(t, "/cart/items/1", problem.Instance)

	rec = app.do(t, http.MethodGet, "/cart/notices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var notices []mapper.Notice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notices))
	require.Len(t, notices, 1)
	assert.Equal(t, "stock_exceeded", notices[0].Kind)
}

func TestCartAPI_FailuresShareOneProblemType(t *testing.T) {
	app := newTestApp(t)

	remove := app.do(t, http.MethodDelete, "/cart/items/2", "")
	unknown := app.do(t, http.MethodPost, "/cart/items/404", "")

	require.Equal(t, http.StatusUnprocessableEntity, remove.Code)
	require.Equal(t, http.StatusUnprocessableEntity, unknown.Code)
	assert.Equal(t, "failed to remove product", decodeProblem(t, remove).Detail)
	assert.Equal(t, "failed to add product", decodeProblem(t, unknown).Detail)
}

func TestCartAPI_NonPositiveAmountIsIgnored(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/cart/items/2", "").Code)

	rec := app.do(t, http.MethodPut, "/cart/items/2", `{"amount":0}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeCart(t, rec).Entries[0].Amount)
	assert.Empty(t, app.notices.Recent())
}

func TestCartAPI_RejectsMalformedRequests(t *testing.T) {
	app := newTestApp(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/cart/items/abc", ""},
		{http.MethodPost, "/cart/items/0", ""},
		{http.MethodPut, "/cart/items/1", `{}`},
		{http.MethodPut, "/cart/items/1", `{"amount":"two"}`},
	} {
		rec := app.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s %s", tc.method, tc.path, tc.body)
		assert.Equal(t, apierrors.TypeBadRequest, decodeProblem(t, rec).Type)
	}
}

func TestStorefrontAPI_ListsCatalogWithCartAmounts(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/catalog/3/add", "").Code)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/catalog/3/add", "").Code)

	rec := app.do(t, http.MethodGet, "/catalog", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var products []catalogmapper.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 6)
	assert.Equal(t, int64(3), products[2].ID)
	assert.Equal(t, 2, products[2].QuantityInCart)
	assert.Equal(t, 0, products[0].QuantityInCart)
	assert.Equal(t, "R$\u00a0219,90", products[2].PriceFormatted)

	rec = app.do(t, http.MethodPost, "/catalog/3/add", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "requested quantity exceeds stock", decodeProblem(t, rec).Detail)
}
