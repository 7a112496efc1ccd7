package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
)

type normalizedSubmitInput struct {
	CartID          string `json:"cartId"`
	FulfillmentMode string `json:"fulfillmentMode"`
	TableNumber     *int   `json:"tableNumber"`
	Address         string `json:"address"`
}

// FingerprintSubmit builds a deterministic hash of the submit payload, excluding the idempotency key.
func FingerprintSubmit(input ordertypes.SubmitOrderInput) (string, error) {
	payload, err := json.Marshal(normalizedSubmitInput{
		CartID:          strings.TrimSpace(input.CartID),
		FulfillmentMode: strings.TrimSpace(input.FulfillmentMode),
		TableNumber:     input.TableNumber,
		Address:         strings.TrimSpace(input.Address),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
