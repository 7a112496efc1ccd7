package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/cart/domain"
)

// Service exposes cart use cases to adapters.
type Service interface {
	Create(ctx context.Context) (*CartProjection, error)
	Get(ctx context.Context, cartID string) (*CartProjection, error)
	AddLine(ctx context.Context, cartID, productID string) (*CartProjection, error)
	RemoveLine(ctx context.Context, cartID, productID string) (*CartProjection, error)
	SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*CartProjection, error)
	Clear(ctx context.Context, cartID string) (*CartProjection, error)
	// Checkout passes the cart's lines to place and empties the cart as one
	// guarded step. A failing place leaves the cart untouched.
	Checkout(ctx context.Context, cartID string, place func([]domain.Line) error) (*CartProjection, error)
	Total(ctx context.Context, cartID string) (decimal.Decimal, error)
	PurgeStale(ctx context.Context, olderThan time.Duration) (int, error)
}
