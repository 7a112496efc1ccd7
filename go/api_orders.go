package orderingserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

// IdempotencyKeyHeader makes order submission safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders service and workflows.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. Commands go through workflows when set.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/v1/orders
// Submits the cart as a new pending order
func (api *OrderAPI) SubmitOrder(c *gin.Context) {
	var payload SubmitOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	input := toSubmitInput(payload, strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)))
	order, err := api.submit(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", BasePath+"/orders/"+order.ID)
	c.JSON(http.StatusCreated, fromOrder(order))
}

func (api *OrderAPI) submit(ctx context.Context, input ordertypes.SubmitOrderInput) (*orderdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.SubmitOrder(ctx, input)
	}
	return api.service.Submit(ctx, input)
}

// Get /api/v1/orders/:orderId
// Find an order by id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetByID(c.Request.Context(), ordertypes.OrderIdentifier{ID: c.Param("orderId")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

// Get /api/v1/orders
// Lists orders in submission order, optionally by status
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.List(c.Request.Context(), ordertypes.ListOrdersInput{Status: c.Query("status")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrders(orders))
}

// Post /api/v1/orders/:orderId/status
// Accepts or rejects a pending order
func (api *OrderAPI) SetStatus(c *gin.Context) {
	var payload SetStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	input := ordertypes.SetStatusInput{OrderID: c.Param("orderId"), Status: payload.Status, Reason: payload.Reason}
	order, err := api.resolve(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

func (api *OrderAPI) resolve(ctx context.Context, input ordertypes.SetStatusInput) (*orderdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.ResolveOrder(ctx, input)
	}
	return api.service.SetStatus(ctx, input)
}
