package orders

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

// Application error types carried across the Temporal boundary.
const (
	ErrTypeInvalidInput        = "OrderInvalidInput"
	ErrTypeNotFound            = "OrderNotFound"
	ErrTypeCartNotFound        = "OrderCartNotFound"
	ErrTypeAlreadyResolved     = "OrderAlreadyResolved"
	ErrTypeIdempotencyConflict = "OrderIdempotencyConflict"
)

// EncodeError turns business errors into non-retryable application errors so
// the workflow stops and callers can recover the original sentinel.
// Infrastructure errors pass through and stay retryable.
func EncodeError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		var validation domain.ValidationError
		if errors.As(err, &validation) {
			return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, nil, validation)
		}
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, nil)
	case errors.Is(err, ports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, nil)
	case errors.Is(err, ports.ErrCartNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeCartNotFound, nil)
	case errors.Is(err, domain.ErrAlreadyResolved):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeAlreadyResolved, nil)
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIdempotencyConflict, nil)
	default:
		return err
	}
}

// DecodeError restores the sentinel behind an application error returned by a
// workflow run. Unknown errors are returned unchanged.
func DecodeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeInvalidInput:
		var validation domain.ValidationError
		if appErr.HasDetails() && appErr.Details(&validation) == nil && validation.Kind != "" {
			return fmt.Errorf("%w: %w", application.ErrInvalidInput, validation)
		}
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Message())
	case ErrTypeNotFound:
		return ports.ErrNotFound
	case ErrTypeCartNotFound:
		return ports.ErrCartNotFound
	case ErrTypeAlreadyResolved:
		return domain.ErrAlreadyResolved
	case ErrTypeIdempotencyConflict:
		return ports.ErrIdempotencyConflict
	default:
		return err
	}
}
