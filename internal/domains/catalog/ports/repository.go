package ports

import (
	"context"
	"errors"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository reads the menu.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter domain.Filter) ([]*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}
