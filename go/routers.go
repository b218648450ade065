package cartserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc is the default handler for not yet implemented routes.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the handler sets a process may serve. Nil sets
// are not routed, so the cart API and the catalog service share this package.
type ApiHandleFunctions struct {
	// Routes for the cart part of the API
	CartAPI *CartAPI
	// Routes for the storefront catalog view
	StorefrontAPI *StorefrontAPI
	// Routes for the remote catalog service
	InventoryAPI *InventoryAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	var routes []Route
	if api := handleFunctions.CartAPI; api != nil {
		routes = append(routes,
			Route{"GetCart", http.MethodGet, "/cart", api.GetCart},
			Route{"AddCartItem", http.MethodPost, "/cart/items/:productId", api.AddCartItem},
			Route{"UpdateCartItem", http.MethodPut, "/cart/items/:productId", api.UpdateCartItem},
			Route{"RemoveCartItem", http.MethodDelete, "/cart/items/:productId", api.RemoveCartItem},
			Route{"ListNotices", http.MethodGet, "/cart/notices", api.ListNotices},
		)
	}
	if api := handleFunctions.StorefrontAPI; api != nil {
		routes = append(routes,
			Route{"ListCatalog", http.MethodGet, "/catalog", api.ListCatalog},
			Route{"AddFromCatalog", http.MethodPost, "/catalog/:productId/add", api.AddFromCatalog},
		)
	}
	if api := handleFunctions.InventoryAPI; api != nil {
		routes = append(routes,
			Route{"GetStock", http.MethodGet, "/stock/:productId", api.GetStock},
			Route{"GetProduct", http.MethodGet, "/products/:productId", api.GetProduct},
			Route{"ListProducts", http.MethodGet, "/products", api.ListProducts},
		)
	}
	return routes
}
