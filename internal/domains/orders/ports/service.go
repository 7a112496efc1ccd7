package ports

import (
	"context"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

// Service defines the order use cases exposed to adapters.
type Service interface {
	Submit(ctx context.Context, input ordertypes.SubmitOrderInput) (*domain.Order, error)
	SetStatus(ctx context.Context, input ordertypes.SetStatusInput) (*domain.Order, error)
	GetByID(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error)
	List(ctx context.Context, input ordertypes.ListOrdersInput) ([]*domain.Order, error)
	Console(ctx context.Context) (*ordertypes.ConsoleView, error)
}
