package cartserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartdomain "github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	catalogmapper "github.com/Apurer/go-gin-cart-server/internal/domains/catalog/adapters/http/mapper"
)

// InventorySource is what the catalog service reads from.
type InventorySource interface {
	cartports.Catalog
	ListProducts(ctx context.Context) ([]cartdomain.Product, error)
}

// InventoryAPI serves stock and product records for the cart store.
type InventoryAPI struct {
	source InventorySource
}

func NewInventoryAPI(source InventorySource) *InventoryAPI {
	return &InventoryAPI{source: source}
}

// Get /stock/:productId
// Returns the available amount of a product
func (api *InventoryAPI) GetStock(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	stock, err := api.source.GetStock(c.Request.Context(), id)
	if err != nil {
		respondInventoryError(c, "stock", id, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainStock(stock))
}

// Get /products/:productId
// Returns a single product
func (api *InventoryAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.source.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondInventoryError(c, "product", id, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProduct(product))
}

// Get /products
// Lists every product
func (api *InventoryAPI) ListProducts(c *gin.Context) {
	products, err := api.source.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProducts(products))
}

func respondInventoryError(c *gin.Context, resource string, id int64, err error) {
	if errors.Is(err, cartports.ErrProductNotFound) {
		responder.NotFound(c, resource, id)
		return
	}
	respondError(c, http.StatusInternalServerError, err)
}
