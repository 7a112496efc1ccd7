package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/cart/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/shared/projection"
)

var (
	ErrNotFound        = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
)

// CartProjection is a cart plus the timestamps its repository tracks.
type CartProjection = projection.Projection[*domain.Cart]

// Repository persists carts.
type Repository interface {
	Save(ctx context.Context, cart *domain.Cart) (*CartProjection, error)
	Get(ctx context.Context, id string) (*CartProjection, error)
	// Update loads the cart, applies fn and stores the result while holding the
	// cart against concurrent writers. When fn fails nothing is written and its
	// error is returned.
	Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*CartProjection, error)
	// PurgeStale deletes carts whose last update is before cutoff and reports how many were removed.
	PurgeStale(ctx context.Context, cutoff time.Time) (int, error)
}

// ProductLookup resolves a product id into the data a cart line snapshots.
// Unknown ids return ErrProductNotFound.
type ProductLookup interface {
	Lookup(ctx context.Context, productID string) (domain.Product, error)
}
