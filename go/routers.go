// Package orderingserver is the HTTP transport for the restaurant ordering API.
package orderingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

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
	// Staff marks routes that require a staff token.
	Staff bool
}

// ApiHandleFunctions bundles the handlers for every resource group.
type ApiHandleFunctions struct {
	CatalogAPI CatalogAPI
	CartAPI    CartAPI
	OrderAPI   OrderAPI
	ConsoleAPI ConsoleAPI
	StaffAPI   StaffAPI
	// StaffGuard runs before staff routes. Nil leaves them open.
	StaffGuard gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.GET("/healthz", Healthz)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Staff && handleFunctions.StaffGuard != nil {
			handlers = []gin.HandlerFunc{handleFunctions.StaffGuard, route.HandlerFunc}
		}
		router.Handle(route.Method, BasePath+route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"ListProducts", http.MethodGet, "/catalog/products", handleFunctions.CatalogAPI.ListProducts, false},
		{"GetProduct", http.MethodGet, "/catalog/products/:productId", handleFunctions.CatalogAPI.GetProduct, false},
		{"ListCategories", http.MethodGet, "/catalog/categories", handleFunctions.CatalogAPI.ListCategories, false},
		{"CreateCart", http.MethodPost, "/carts", handleFunctions.CartAPI.CreateCart, false},
		{"GetCart", http.MethodGet, "/carts/:cartId", handleFunctions.CartAPI.GetCart, false},
		{"AddCartLine", http.MethodPost, "/carts/:cartId/lines", handleFunctions.CartAPI.AddLine, false},
		{"SetCartLineQuantity", http.MethodPut, "/carts/:cartId/lines/:productId", handleFunctions.CartAPI.SetQuantity, false},
		{"RemoveCartLine", http.MethodDelete, "/carts/:cartId/lines/:productId", handleFunctions.CartAPI.RemoveLine, false},
		{"ClearCart", http.MethodDelete, "/carts/:cartId/lines", handleFunctions.CartAPI.ClearCart, false},
		{"SubmitOrder", http.MethodPost, "/orders", handleFunctions.OrderAPI.SubmitOrder, false},
		{"GetOrder", http.MethodGet, "/orders/:orderId", handleFunctions.OrderAPI.GetOrder, false},
		{"ListOrders", http.MethodGet, "/orders", handleFunctions.OrderAPI.ListOrders, true},
		{"SetOrderStatus", http.MethodPost, "/orders/:orderId/status", handleFunctions.OrderAPI.SetStatus, true},
		{"GetConsole", http.MethodGet, "/console", handleFunctions.ConsoleAPI.GetConsole, true},
		{"StreamConsole", http.MethodGet, "/console/stream", handleFunctions.ConsoleAPI.StreamConsole, true},
		{"StaffLogin", http.MethodPost, "/staff/login", handleFunctions.StaffAPI.Login, false},
	}
}
