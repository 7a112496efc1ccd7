package memory

import (
	"context"
	"sync"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps the menu in memory, preserving the seeded order.
type Repository struct {
	mu       sync.RWMutex
	order    []string
	products map[string]*domain.Product
}

// NewRepository builds a repository seeded with products. Nil seeds the default menu.
func NewRepository(seed ...*domain.Product) *Repository {
	if seed == nil {
		seed = DefaultMenu()
	}
	r := &Repository{products: make(map[string]*domain.Product, len(seed))}
	for _, p := range seed {
		r.put(p)
	}
	return r
}

// Put inserts or replaces a product.
func (r *Repository) Put(p *domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(p)
}

func (r *Repository) put(p *domain.Product) {
	if p == nil {
		return
	}
	if _, ok := r.products[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	clone := *p
	r.products[p.ID] = &clone
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *Repository) List(_ context.Context, filter domain.Filter) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.order))
	for _, id := range r.order {
		p := r.products[id]
		if !filter.Matches(p) {
			continue
		}
		clone := *p
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	categories := []string{}
	for _, id := range r.order {
		category := r.products[id].Category
		if category == "" || seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	return categories, nil
}
