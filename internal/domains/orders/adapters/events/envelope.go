// Package events publishes order events to the configured broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

const contentTypeJSON = "application/json"

// Envelope is the wire format shared by every publisher.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

type submittedData struct {
	Total           string `json:"total"`
	FulfillmentMode string `json:"fulfillmentMode"`
	TableNumber     *int   `json:"tableNumber,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	LineCount       int    `json:"lineCount"`
}

type acceptedData struct {
	FulfillmentMode string `json:"fulfillmentMode"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
}

type rejectedData struct {
	Reason string `json:"reason"`
}

// NewEnvelope wraps event with a fresh message id.
func NewEnvelope(event domain.Event) Envelope {
	env := Envelope{
		ID:         uuid.NewString(),
		Type:       event.EventName(),
		OrderID:    event.OrderID(),
		OccurredAt: event.OccurredAt().UTC(),
	}
	switch e := event.(type) {
	case domain.OrderSubmitted:
		env.Data = submittedData{
			Total:           e.Total.StringFixed(2),
			FulfillmentMode: string(e.Mode),
			TableNumber:     e.TableNumber,
			DeliveryAddress: e.Address,
			LineCount:       e.LineCount,
		}
	case domain.OrderAccepted:
		env.Data = acceptedData{FulfillmentMode: string(e.Mode), DeliveryAddress: e.Address}
	case domain.OrderRejected:
		env.Data = rejectedData{Reason: e.Reason}
	}
	return env
}

// Marshal encodes the envelope for the wire.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
