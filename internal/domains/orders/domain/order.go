package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates the order lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// IsResolved reports whether the status is terminal.
func (s Status) IsResolved() bool {
	return s == StatusAccepted || s == StatusRejected
}

// FulfillmentMode is how the order reaches the customer.
type FulfillmentMode string

const (
	ModeDineIn   FulfillmentMode = "dine-in"
	ModeDelivery FulfillmentMode = "delivery"
)

// ValidationKind classifies a rejected order operation.
type ValidationKind string

const (
	KindEmptyCart              ValidationKind = "empty_cart"
	KindMissingTableNumber     ValidationKind = "missing_table_number"
	KindMissingAddress         ValidationKind = "missing_address"
	KindInvalidFulfillmentMode ValidationKind = "invalid_fulfillment_mode"
	KindMissingRejectionReason ValidationKind = "missing_rejection_reason"
	KindInvalidStatus          ValidationKind = "invalid_status"
)

// ValidationError is a precondition failure. Values are comparable so callers
// can match them with errors.Is.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

var (
	ErrEmptyCart              = ValidationError{Kind: KindEmptyCart, Field: "cart", Message: "cart is empty"}
	ErrMissingTableNumber     = ValidationError{Kind: KindMissingTableNumber, Field: "tableNumber", Message: "dine-in orders require a table number"}
	ErrMissingAddress         = ValidationError{Kind: KindMissingAddress, Field: "deliveryAddress", Message: "delivery orders require an address"}
	ErrInvalidFulfillmentMode = ValidationError{Kind: KindInvalidFulfillmentMode, Field: "fulfillmentMode", Message: "fulfillment mode must be dine-in or delivery"}
	ErrMissingRejectionReason = ValidationError{Kind: KindMissingRejectionReason, Field: "reason", Message: "rejecting an order requires a reason"}
	ErrInvalidStatus          = ValidationError{Kind: KindInvalidStatus, Field: "status", Message: "status must be accepted or rejected"}

	// ErrAlreadyResolved is returned for any status change on an order that already left pending.
	ErrAlreadyResolved = errors.New("order already resolved")
	ErrEmptyOrderID    = errors.New("order id is required")
)

// Line is a snapshot of a cart line taken at submission.
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageRef  string
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Fulfillment carries the mode and the detail that mode requires.
type Fulfillment struct {
	Mode        FulfillmentMode
	TableNumber *int
	Address     string
}

// Normalize validates the fulfillment and drops the detail the mode does not use.
func (f Fulfillment) Normalize() (Fulfillment, error) {
	switch f.Mode {
	case ModeDineIn:
		if f.TableNumber == nil || *f.TableNumber < 1 {
			return Fulfillment{}, ErrMissingTableNumber
		}
		table := *f.TableNumber
		return Fulfillment{Mode: ModeDineIn, TableNumber: &table}, nil
	case ModeDelivery:
		address := strings.TrimSpace(f.Address)
		if address == "" {
			return Fulfillment{}, ErrMissingAddress
		}
		return Fulfillment{Mode: ModeDelivery, Address: address}, nil
	default:
		return Fulfillment{}, ErrInvalidFulfillmentMode
	}
}

// Order is an immutable snapshot of a submitted cart plus a status that
// leaves pending exactly once.
type Order struct {
	ID              string
	Lines           []Line
	Total           decimal.Decimal
	Fulfillment     Fulfillment
	CreatedAt       time.Time
	Status          Status
	RejectionReason string
	ResolvedAt      *time.Time
}

// NewOrder validates the submission and builds a pending order. Cart emptiness
// is checked before fulfillment details.
func NewOrder(id string, lines []Line, fulfillment Fulfillment, createdAt time.Time) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyOrderID
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	normalized, err := fulfillment.Normalize()
	if err != nil {
		return nil, err
	}
	snapshot := append([]Line(nil), lines...)
	total := decimal.Zero
	for _, line := range snapshot {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("line %q has quantity %d", line.ProductID, line.Quantity)
		}
		total = total.Add(line.Subtotal())
	}
	return &Order{
		ID:          id,
		Lines:       snapshot,
		Total:       total,
		Fulfillment: normalized,
		CreatedAt:   createdAt,
		Status:      StatusPending,
	}, nil
}

// Resolve moves a pending order to accepted or rejected.
func (o *Order) Resolve(status Status, reason string, at time.Time) error {
	next, reason, err := ValidateResolution(status, reason)
	if err != nil {
		return err
	}
	if o.Status != StatusPending {
		return ErrAlreadyResolved
	}
	o.Status = next
	o.RejectionReason = reason
	resolvedAt := at
	o.ResolvedAt = &resolvedAt
	return nil
}

// ValidateResolution checks a requested transition independently of the
// order's current state and returns the trimmed reason. Accepted orders never
// carry a reason.
func ValidateResolution(status Status, reason string) (Status, string, error) {
	switch status {
	case StatusAccepted:
		return StatusAccepted, "", nil
	case StatusRejected:
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return "", "", ErrMissingRejectionReason
		}
		return StatusRejected, reason, nil
	default:
		return "", "", ErrInvalidStatus
	}
}

// IsDelivery reports whether the order ships to an address.
func (o *Order) IsDelivery() bool {
	return o.Fulfillment.Mode == ModeDelivery
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Lines = append([]Line(nil), o.Lines...)
	if o.Fulfillment.TableNumber != nil {
		table := *o.Fulfillment.TableNumber
		clone.Fulfillment.TableNumber = &table
	}
	if o.ResolvedAt != nil {
		resolved := *o.ResolvedAt
		clone.ResolvedAt = &resolved
	}
	return &clone
}
