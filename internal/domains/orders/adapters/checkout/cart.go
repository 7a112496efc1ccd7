// Package checkout adapts the cart service into the order checkout port.
package checkout

import (
	"context"
	"errors"

	cartapp "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/application"
	cartdomain "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/ports"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

var _ ports.CartCheckout = (*Cart)(nil)

// Cart reads order lines from the cart service.
type Cart struct {
	carts cartports.Service
}

func NewCart(carts cartports.Service) *Cart {
	return &Cart{carts: carts}
}

func (c *Cart) Checkout(ctx context.Context, cartID string, place func([]domain.Line) error) error {
	_, err := c.carts.Checkout(ctx, cartID, func(cartLines []cartdomain.Line) error {
		return place(toOrderLines(cartLines))
	})
	return translate(err)
}

func toOrderLines(cartLines []cartdomain.Line) []domain.Line {
	lines := make([]domain.Line, 0, len(cartLines))
	for _, line := range cartLines {
		lines = append(lines, domain.Line{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			ImageRef:  line.ImageRef,
		})
	}
	return lines
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, cartports.ErrNotFound) || errors.Is(err, cartapp.ErrInvalidInput) {
		return ports.ErrCartNotFound
	}
	return err
}
