package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

// PendingOrder is a pending order plus how long it has waited.
type PendingOrder struct {
	Order   *domain.Order
	Elapsed time.Duration
}

// ConsoleStats summarises the order book.
type ConsoleStats struct {
	Pending    int
	Accepted   int
	Rejected   int
	SalesTotal decimal.Decimal
}

// ConsoleView is the staff console at a single instant.
type ConsoleView struct {
	GeneratedAt time.Time
	Pending     []PendingOrder
	Resolved    []*domain.Order
	Stats       ConsoleStats
}
