package orderingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartports "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/ports"
)

// CartAPI exposes the visitor cart.
type CartAPI struct {
	service cartports.Service
}

func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Post /api/v1/carts
// Creates an empty cart
func (api *CartAPI) CreateCart(c *gin.Context) {
	created, err := api.service.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", BasePath+"/carts/"+created.Entity.ID)
	c.JSON(http.StatusCreated, fromCart(created))
}

// Get /api/v1/carts/:cartId
// Returns the cart with its lines and total
func (api *CartAPI) GetCart(c *gin.Context) {
	cart, err := api.service.Get(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

// Post /api/v1/carts/:cartId/lines
// Adds one unit of a product, merging with an existing line
func (api *CartAPI) AddLine(c *gin.Context) {
	var payload AddCartLineRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	cart, err := api.service.AddLine(c.Request.Context(), c.Param("cartId"), payload.ProductId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

// Put /api/v1/carts/:cartId/lines/:productId
// Sets a line quantity; zero or less removes the line
func (api *CartAPI) SetQuantity(c *gin.Context) {
	var payload SetQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	cart, err := api.service.SetQuantity(c.Request.Context(), c.Param("cartId"), c.Param("productId"), *payload.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

// Delete /api/v1/carts/:cartId/lines/:productId
// Removes a line
func (api *CartAPI) RemoveLine(c *gin.Context) {
	cart, err := api.service.RemoveLine(c.Request.Context(), c.Param("cartId"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

// Delete /api/v1/carts/:cartId/lines
// Empties the cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	cart, err := api.service.Clear(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}
