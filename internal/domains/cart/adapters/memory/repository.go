package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/cart/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/cart/ports"
	"github.com/Apurer/restaurant-ordering-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type entry struct {
	cart      *domain.Cart
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory cart persistence adapter.
type Repository struct {
	mu    sync.RWMutex
	carts map[string]entry
	now   func() time.Time
}

func NewRepository() *Repository {
	return &Repository{carts: map[string]entry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, cart *domain.Cart) (*ports.CartProjection, error) {
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	stored := entry{cart: cart.Clone(), createdAt: now, updatedAt: now}
	if existing, ok := r.carts[cart.ID]; ok {
		stored.createdAt = existing.createdAt
	}
	r.carts[cart.ID] = stored
	return stored.projection(), nil
}

func (r *Repository) Get(_ context.Context, id string) (*ports.CartProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.carts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return stored.projection(), nil
}

func (r *Repository) Update(_ context.Context, id string, fn func(*domain.Cart) error) (*ports.CartProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.carts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cart := stored.cart.Clone()
	if err := fn(cart); err != nil {
		return nil, err
	}
	stored.cart = cart
	stored.updatedAt = r.now().UTC()
	r.carts[id] = stored
	return stored.projection(), nil
}

func (r *Repository) PurgeStale(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, stored := range r.carts {
		if stored.updatedAt.Before(cutoff) {
			delete(r.carts, id)
			removed++
		}
	}
	return removed, nil
}

func (e entry) projection() *ports.CartProjection {
	return projection.New(e.cart.Clone(), e.createdAt, e.updatedAt)
}
