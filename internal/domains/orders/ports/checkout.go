package ports

import (
	"context"
	"errors"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartCheckout drains the cart an order is submitted from.
type CartCheckout interface {
	// Checkout passes the cart's lines, in insertion order, to place and
	// empties the cart once place succeeds. No other writer can touch the cart
	// in between. When place fails the cart is left as it was and the error is
	// returned. An unknown cart yields ErrCartNotFound.
	Checkout(ctx context.Context, cartID string, place func(lines []domain.Line) error) error
}
