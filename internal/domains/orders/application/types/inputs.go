// Package types holds the order use-case inputs and views shared by adapters
// and durable workflows. Every type here must survive JSON round trips.
package types

// SubmitOrderInput turns a cart into an order.
type SubmitOrderInput struct {
	CartID          string `json:"cartId"`
	FulfillmentMode string `json:"fulfillmentMode"`
	TableNumber     *int   `json:"tableNumber,omitempty"`
	Address         string `json:"address,omitempty"`
	// IdempotencyKey is optional; when set, retries with the same payload replay the stored order.
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// SetStatusInput resolves a pending order.
type SetStatusInput struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

// OrderIdentifier addresses a single order.
type OrderIdentifier struct {
	ID string `json:"id"`
}

// ListOrdersInput filters the order list. An empty status lists every order.
type ListOrdersInput struct {
	Status string `json:"status,omitempty"`
}
