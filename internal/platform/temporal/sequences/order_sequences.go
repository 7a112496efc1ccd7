package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/restaurant-ordering-api/internal/platform/temporal/activities/orders"
)

var (
	commandOptions = workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	dispatchOptions = workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		HeartbeatTimeout:    10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	}
)

// RunSubmissionSequence persists a new order from the cart. The command must
// carry an idempotency key so activity retries replay instead of duplicating.
func RunSubmissionSequence(ctx workflow.Context, input ordertypes.SubmitOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order submission sequence started", "cartId", input.CartID)

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, commandOptions), orderactivities.SubmitOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order submission sequence failed", "cartId", input.CartID, "error", err)
		return nil, err
	}
	logger.Info("order submission sequence persisted", "orderId", order.ID)
	return &order, nil
}

// RunResolutionSequence resolves the order, then dispatches accepted delivery
// orders. A dispatch that exhausts its retries is logged and does not undo
// the acceptance.
func RunResolutionSequence(ctx workflow.Context, input ordertypes.SetStatusInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order resolution sequence started", "orderId", input.OrderID, "status", input.Status)

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, commandOptions), orderactivities.ResolveOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order resolution sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order resolution sequence resolved", "orderId", order.ID, "status", string(order.Status))

	if order.Status == domain.StatusAccepted && order.IsDelivery() {
		dispatchInput := ordertypes.OrderIdentifier{ID: order.ID}
		if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, dispatchOptions), orderactivities.DispatchDeliveryActivityName, dispatchInput).Get(ctx, nil); err != nil {
			logger.Error("order resolution sequence dispatch failed", "orderId", order.ID, "error", err)
			return &order, nil
		}
		logger.Info("order resolution sequence dispatched", "orderId", order.ID)
	}
	return &order, nil
}
