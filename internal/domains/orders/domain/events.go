package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for all order events.
type Event interface {
	EventName() string
	OrderID() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	ID        string
	Timestamp time.Time
}

// OrderID returns the aggregate the event belongs to.
func (e BaseEvent) OrderID() string {
	return e.ID
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderSubmitted is raised when a cart becomes a pending order.
type OrderSubmitted struct {
	BaseEvent
	Total       decimal.Decimal
	Mode        FulfillmentMode
	TableNumber *int
	Address     string
	LineCount   int
}

func (e OrderSubmitted) EventName() string {
	return "orders.order.submitted"
}

// OrderAccepted is raised when staff accept a pending order.
type OrderAccepted struct {
	BaseEvent
	Mode    FulfillmentMode
	Address string
}

func (e OrderAccepted) EventName() string {
	return "orders.order.accepted"
}

// OrderRejected is raised when staff reject a pending order.
type OrderRejected struct {
	BaseEvent
	Reason string
}

func (e OrderRejected) EventName() string {
	return "orders.order.rejected"
}

// SubmittedEvent builds the submission event for o.
func SubmittedEvent(o *Order) OrderSubmitted {
	return OrderSubmitted{
		BaseEvent:   BaseEvent{ID: o.ID, Timestamp: o.CreatedAt},
		Total:       o.Total,
		Mode:        o.Fulfillment.Mode,
		TableNumber: o.Fulfillment.TableNumber,
		Address:     o.Fulfillment.Address,
		LineCount:   len(o.Lines),
	}
}

// ResolvedEvent builds the accepted or rejected event for a resolved order.
// It returns nil for pending orders.
func ResolvedEvent(o *Order) Event {
	if o.ResolvedAt == nil {
		return nil
	}
	base := BaseEvent{ID: o.ID, Timestamp: *o.ResolvedAt}
	switch o.Status {
	case StatusAccepted:
		return OrderAccepted{BaseEvent: base, Mode: o.Fulfillment.Mode, Address: o.Fulfillment.Address}
	case StatusRejected:
		return OrderRejected{BaseEvent: base, Reason: o.RejectionReason}
	default:
		return nil
	}
}
