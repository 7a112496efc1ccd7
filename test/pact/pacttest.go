//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "restaurant-ordering-api"
	ConsumerName = "order-kiosk"

	StateCatalogBaseline = "house menu is served"
	StateCartReady       = "cart pact-cart holds two classic burgers"
	StateCartEmpty       = "cart pact-empty-cart is empty"
	StateCartMissing     = "no cart with id ghost-cart"
)

const (
	ExistingProductID = "1"
	MissingProductID  = "999"

	ReadyCartID   = "pact-cart"
	EmptyCartID   = "pact-empty-cart"
	MissingCartID = "ghost-cart"

	TableNumber = 7
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the kiosk consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload is the first house menu entry.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":       ExistingProductID,
		"name":     "Classic Burger",
		"price":    "18.90",
		"category": "Burgers",
	}
}

// ExampleSubmitPayload submits the ready cart for a dine-in table.
func ExampleSubmitPayload(cartID string) map[string]any {
	return map[string]any{
		"cartId":          cartID,
		"fulfillmentMode": "dine-in",
		"tableNumber":     TableNumber,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
