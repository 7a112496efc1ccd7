package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// ListFilter narrows List results. A nil Status lists every order.
type ListFilter struct {
	Status *domain.Status
}

// Repository persists orders. Orders are never deleted.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// List returns orders in submission order.
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, error)
	// Resolve atomically moves a pending order to status. It returns
	// domain.ErrAlreadyResolved when the order is no longer pending.
	Resolve(ctx context.Context, id string, status domain.Status, reason string, at time.Time) (*domain.Order, error)
}
