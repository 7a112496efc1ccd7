//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/restaurant-ordering-api/test/pact"

	orderingserver "github.com/Apurer/restaurant-ordering-api/go"
	cartcatalog "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/catalog"
	cartmemory "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/memory"
	cartobs "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/observability"
	cartapp "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/application"
	cartdomain "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/domain"
	catalogmemory "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/application"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/checkout"
	ordermemory "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/observability"
	orderworkflows "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOrderingProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateCartReady: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCart(t, pacttest.ReadyCartID, 2)
			}
			return nil, nil
		},
		pacttest.StateCartEmpty: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCart(t, pacttest.EmptyCartID, 0)
			}
			return nil, nil
		},
		pacttest.StateCartMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the in-memory application on every reset so
// provider states never leak between interactions.
type contractProviderApp struct {
	mu     sync.RWMutex
	router http.Handler
	carts  *cartmemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	catalogService := catalogapp.NewService(catalogmemory.NewRepository())
	carts := cartmemory.NewRepository()
	cartService := cartobs.New(cartapp.NewService(carts, cartcatalog.NewLookup(catalogService)))
	orderService := orderobs.New(orderapp.NewService(
		ordermemory.NewRepository(),
		checkout.NewCart(cartService),
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
	))

	handlers := orderingserver.ApiHandleFunctions{
		CatalogAPI: orderingserver.NewCatalogAPI(catalogService),
		CartAPI:    orderingserver.NewCartAPI(cartService),
		OrderAPI:   orderingserver.NewOrderAPI(orderService, orderworkflows.NewInlineOrderWorkflows(orderService)),
		ConsoleAPI: orderingserver.NewConsoleAPI(orderService, 0),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = orderingserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	a.router = router
	a.carts = carts
	a.mu.Unlock()
}

func (a *contractProviderApp) seedCart(t testing.TB, id string, burgers int) {
	t.Helper()
	cart, err := cartdomain.NewCart(id)
	require.NoError(t, err)
	for i := 0; i < burgers; i++ {
		require.NoError(t, cart.AddLine(cartdomain.Product{
			ID:        pacttest.ExistingProductID,
			Name:      "Classic Burger",
			UnitPrice: decimal.RequireFromString("18.90"),
		}))
	}
	a.mu.RLock()
	carts := a.carts
	a.mu.RUnlock()
	_, err = carts.Save(context.Background(), cart)
	require.NoError(t, err)
}
