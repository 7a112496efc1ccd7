package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/staff/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/staff/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid staff input")
	// ErrAuthentication wraps authentication failures.
	ErrAuthentication = errors.New("authentication failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyUsername) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrWeakPassword) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrInvalidCredentials) || errors.Is(err, ports.ErrInvalidToken) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return err
}
