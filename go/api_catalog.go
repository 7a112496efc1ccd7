package orderingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/ports"
)

// CatalogAPI serves the menu.
type CatalogAPI struct {
	service catalogports.Service
}

func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Get /api/v1/catalog/products
// Lists menu products filtered by search term and category
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	filter := catalogdomain.Filter{Search: c.Query("search"), Category: c.Query("category")}
	products, err := api.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProducts(products))
}

// Get /api/v1/catalog/products/:productId
// Find a product by id
func (api *CatalogAPI) GetProduct(c *gin.Context) {
	product, err := api.service.GetByID(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProduct(product))
}

// Get /api/v1/catalog/categories
// Lists the menu categories
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	categories, err := api.service.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
