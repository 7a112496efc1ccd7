package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. It keeps orders in
// submission order.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	order  []string
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return nil, errors.New("order id already exists")
	}
	r.orders[order.ID] = order.Clone()
	r.order = append(r.order, order.ID)
	return order.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.order))
	for _, id := range r.order {
		order := r.orders[id]
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		list = append(list, order.Clone())
	}
	return list, nil
}

func (r *Repository) Resolve(_ context.Context, id string, status domain.Status, reason string, at time.Time) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	next := stored.Clone()
	if err := next.Resolve(status, reason, at); err != nil {
		return nil, err
	}
	r.orders[id] = next
	return next.Clone(), nil
}
