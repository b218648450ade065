package cartserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/http/mapper"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/notify"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

// CartAPI exposes the cart store over HTTP.
type CartAPI struct {
	service cartports.Service
	notices *notify.Recorder
}

// NewCartAPI wires dependencies. notices may be nil.
func NewCartAPI(service cartports.Service, notices *notify.Recorder) *CartAPI {
	return &CartAPI{service: service, notices: notices}
}

// Get /cart
// Returns the current cart with derived totals
func (api *CartAPI) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, mapper.FromDomainCart(api.service.Cart(c.Request.Context())))
}

// Post /cart/items/:productId
// Adds one unit of a product
func (api *CartAPI) AddCartItem(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.Add(c.Request.Context(), id); err != nil {
		respondCartError(c, err)
		return
	}
	api.GetCart(c)
}

// Put /cart/items/:productId
// Sets the quantity of a product already in the cart
func (api *CartAPI) UpdateCartItem(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload mapper.UpdateAmount
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := cartports.UpdateAmountInput{ProductID: id, Amount: *payload.Amount}
	if err := api.service.UpdateAmount(c.Request.Context(), input); err != nil {
		respondCartError(c, err)
		return
	}
	api.GetCart(c)
}

// Delete /cart/items/:productId
// Removes a product from the cart
func (api *CartAPI) RemoveCartItem(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.Remove(c.Request.Context(), id); err != nil {
		respondCartError(c, err)
		return
	}
	api.GetCart(c)
}

// Get /cart/notices
// Lists the most recent notices, oldest first
func (api *CartAPI) ListNotices(c *gin.Context) {
	if api.notices == nil {
		c.JSON(http.StatusOK, []mapper.Notice{})
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainNotices(api.notices.Recent()))
}
