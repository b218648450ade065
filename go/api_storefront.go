package cartserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartmapper "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/http/mapper"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	catalogmapper "github.com/Apurer/go-gin-cart-server/internal/domains/catalog/adapters/http/mapper"
	catalogapp "github.com/Apurer/go-gin-cart-server/internal/domains/catalog/application"
)

// StorefrontAPI serves the product catalog view.
type StorefrontAPI struct {
	view *catalogapp.View
	cart cartports.Service
}

func NewStorefrontAPI(view *catalogapp.View, cart cartports.Service) *StorefrontAPI {
	return &StorefrontAPI{view: view, cart: cart}
}

// Get /catalog
// Lists products with formatted prices and the amount already in the cart
func (api *StorefrontAPI) ListCatalog(c *gin.Context) {
	products, err := api.view.Products(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProductViews(products))
}

// Post /catalog/:productId/add
// Adds one unit of a listed product to the cart
func (api *StorefrontAPI) AddFromCatalog(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.view.AddProduct(c.Request.Context(), id); err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromDomainCart(api.cart.Cart(c.Request.Context())))
}
