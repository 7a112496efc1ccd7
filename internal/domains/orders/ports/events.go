package ports

import (
	"context"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

// EventPublisher emits order events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// DeliveryDispatcher hands accepted delivery orders to the delivery partner.
type DeliveryDispatcher interface {
	Dispatch(ctx context.Context, order *domain.Order) error
}
