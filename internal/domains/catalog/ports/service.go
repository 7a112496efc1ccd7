package ports

import (
	"context"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/domain"
)

// Service exposes catalog browsing to adapters.
type Service interface {
	List(ctx context.Context, filter domain.Filter) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}
