package orders

import (
	"context"
	"errors"
	"strings"

	"go.temporal.io/sdk/activity"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

const (
	// SubmitOrderActivityName snapshots a cart into a pending order.
	SubmitOrderActivityName = "orders.activities.SubmitOrder"
	// ResolveOrderActivityName accepts or rejects a pending order.
	ResolveOrderActivityName = "orders.activities.ResolveOrder"
	// DispatchDeliveryActivityName hands an accepted delivery order to the courier partner.
	DispatchDeliveryActivityName = "orders.activities.DispatchDelivery"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service    orderports.Service
	dispatcher orderports.DeliveryDispatcher
}

// NewActivities wires the orders collaborators into the Temporal activities bundle.
// dispatcher may be nil when no delivery partner is configured.
func NewActivities(service orderports.Service, dispatcher orderports.DeliveryDispatcher) *Activities {
	return &Activities{service: service, dispatcher: dispatcher}
}

// SubmitOrder runs the submit use case. Retries are safe only when the input
// carries an idempotency key, which the submission workflow guarantees.
func (a *Activities) SubmitOrder(ctx context.Context, input ordertypes.SubmitOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("submit order activity not initialized", "cartId", input.CartID)
		return nil, errors.New("submit order activity not initialized")
	}
	logger.Info("SubmitOrder activity started", "cartId", input.CartID)
	order, err := a.service.Submit(ctx, input)
	if err != nil {
		logger.Error("SubmitOrder activity failed", "cartId", input.CartID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("SubmitOrder activity completed", "orderId", order.ID)
	return order, nil
}

// ResolveOrder runs the status change. A retry that finds the order already in
// the requested state treats it as its own earlier success.
func (a *Activities) ResolveOrder(ctx context.Context, input ordertypes.SetStatusInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("resolve order activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("resolve order activity not initialized")
	}
	logger.Info("ResolveOrder activity started", "orderId", input.OrderID, "status", input.Status)
	order, err := a.service.SetStatus(ctx, input)
	if err == nil {
		logger.Info("ResolveOrder activity completed", "orderId", order.ID, "status", string(order.Status))
		return order, nil
	}
	if errors.Is(err, domain.ErrAlreadyResolved) && activity.GetInfo(ctx).Attempt > 1 {
		existing, getErr := a.service.GetByID(ctx, ordertypes.OrderIdentifier{ID: input.OrderID})
		if getErr == nil && string(existing.Status) == strings.TrimSpace(input.Status) {
			logger.Info("ResolveOrder already applied in prior attempt", "orderId", input.OrderID)
			return existing, nil
		}
	}
	logger.Error("ResolveOrder activity failed", "orderId", input.OrderID, "error", err)
	return nil, EncodeError(err)
}

// DispatchDelivery loads an accepted delivery order and books the courier.
func (a *Activities) DispatchDelivery(ctx context.Context, input ordertypes.OrderIdentifier) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("dispatch activity not initialized", "orderId", input.ID)
		return errors.New("dispatch activity not initialized")
	}
	if a.dispatcher == nil {
		logger.Info("delivery partner not configured; skipping", "orderId", input.ID)
		return nil
	}

	var hb dispatchHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("DispatchDelivery already completed in prior attempt; skipping", "orderId", input.ID)
		return nil
	}

	logger.Info("DispatchDelivery activity started", "orderId", input.ID)
	order, err := a.service.GetByID(ctx, input)
	if err != nil {
		logger.Error("DispatchDelivery failed to load order", "orderId", input.ID, "error", err)
		return EncodeError(err)
	}
	if order.Status != domain.StatusAccepted || !order.IsDelivery() {
		logger.Info("order is not an accepted delivery; skipping", "orderId", input.ID, "status", string(order.Status))
		return nil
	}
	if err := a.dispatcher.Dispatch(ctx, order); err != nil {
		logger.Error("DispatchDelivery failed", "orderId", input.ID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, dispatchHeartbeat{Completed: true})
	logger.Info("DispatchDelivery activity completed", "orderId", input.ID)
	return nil
}

type dispatchHeartbeat struct {
	Completed bool
}
