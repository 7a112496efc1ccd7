// Package delivery adapts the delivery partner client to the order dispatch port.
package delivery

import (
	"context"
	"errors"
	"time"

	deliveryclient "github.com/Apurer/restaurant-ordering-api/internal/clients/http/delivery"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

var _ ports.DeliveryDispatcher = (*Dispatcher)(nil)

// Dispatcher hands accepted delivery orders to the partner.
type Dispatcher struct {
	client *deliveryclient.Client
}

func NewDispatcher(client *deliveryclient.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// Dispatch sends order using its id as both reference and idempotency key,
// so retries never book a second courier.
func (d *Dispatcher) Dispatch(ctx context.Context, order *domain.Order) error {
	if d == nil || d.client == nil {
		return errors.New("delivery dispatcher not configured")
	}
	if order == nil {
		return errors.New("order is nil")
	}
	if !order.IsDelivery() {
		return nil
	}
	return d.client.Dispatch(ctx, ToPayload(order), deliveryclient.WithIdempotencyKey(order.ID))
}

// ToPayload maps an order to the partner request body.
func ToPayload(order *domain.Order) deliveryclient.Payload {
	lines := make([]deliveryclient.Line, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, deliveryclient.Line{Name: line.Name, Quantity: line.Quantity})
	}
	acceptedAt := order.CreatedAt
	if order.ResolvedAt != nil {
		acceptedAt = *order.ResolvedAt
	}
	return deliveryclient.Payload{
		Reference:  order.ID,
		Address:    order.Fulfillment.Address,
		Total:      order.Total.StringFixed(2),
		Lines:      lines,
		AcceptedAt: acceptedAt.UTC().Truncate(time.Second),
	}
}
