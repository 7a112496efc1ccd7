package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated an order precondition.
	// The wrapped domain.ValidationError carries the kind.
	ErrInvalidInput = errors.New("invalid order input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var validation domain.ValidationError
	if errors.As(err, &validation) || errors.Is(err, domain.ErrEmptyOrderID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
