// Package catalog adapts the catalog service into the cart's product lookup port.
package catalog

import (
	"context"
	"errors"

	cartdomain "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/ports"
	catalogapp "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/ports"
)

var _ cartports.ProductLookup = (*Lookup)(nil)

// Lookup resolves cart products through the catalog service.
type Lookup struct {
	catalog catalogports.Service
}

func NewLookup(catalog catalogports.Service) *Lookup {
	return &Lookup{catalog: catalog}
}

func (l *Lookup) Lookup(ctx context.Context, productID string) (cartdomain.Product, error) {
	product, err := l.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
			return cartdomain.Product{}, cartports.ErrProductNotFound
		}
		return cartdomain.Product{}, err
	}
	return cartdomain.Product{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		ImageRef:  product.ImageRef,
	}, nil
}
