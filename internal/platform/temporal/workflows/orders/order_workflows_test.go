package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	cartcatalog "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/catalog"
	cartmemory "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/application"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/checkout"
	ordermemory "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/restaurant-ordering-api/internal/platform/temporal/activities/orders"
)

type fakeDispatcher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (d *fakeDispatcher) Dispatch(context.Context, *domain.Order) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return d.err
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type harness struct {
	suite      testsuite.WorkflowTestSuite
	carts      *cartapp.Service
	orders     *application.Service
	dispatcher *fakeDispatcher
}

func newHarness() *harness {
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	carts := cartapp.NewService(cartmemory.NewRepository(), cartcatalog.NewLookup(catalog))
	orders := application.NewService(ordermemory.NewRepository(), checkout.NewCart(carts),
		application.WithIdempotencyStore(ordermemory.NewIdempotencyStore()))
	return &harness{carts: carts, orders: orders, dispatcher: &fakeDispatcher{}}
}

func (h *harness) env() *testsuite.TestWorkflowEnvironment {
	env := h.suite.NewTestWorkflowEnvironment()
	acts := orderactivities.NewActivities(h.orders, h.dispatcher)
	env.RegisterWorkflowWithOptions(SubmissionWorkflow, workflow.RegisterOptions{Name: SubmissionWorkflowName})
	env.RegisterWorkflowWithOptions(ResolutionWorkflow, workflow.RegisterOptions{Name: ResolutionWorkflowName})
	env.RegisterActivityWithOptions(acts.SubmitOrder, activity.RegisterOptions{Name: orderactivities.SubmitOrderActivityName})
	env.RegisterActivityWithOptions(acts.ResolveOrder, activity.RegisterOptions{Name: orderactivities.ResolveOrderActivityName})
	env.RegisterActivityWithOptions(acts.DispatchDelivery, activity.RegisterOptions{Name: orderactivities.DispatchDeliveryActivityName})
	return env
}

func (h *harness) cart(t *testing.T, productIDs ...string) string {
	t.Helper()
	ctx := context.Background()
	cart, err := h.carts.Create(ctx)
	require.NoError(t, err)
	for _, id := range productIDs {
		_, err := h.carts.AddLine(ctx, cart.Entity.ID, id)
		require.NoError(t, err)
	}
	return cart.Entity.ID
}

func (h *harness) submit(t *testing.T, input ordertypes.SubmitOrderInput) *domain.Order {
	t.Helper()
	env := h.env()
	env.ExecuteWorkflow(SubmissionWorkflowName, SubmissionWorkflowInput{Command: input})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var order domain.Order
	require.NoError(t, env.GetWorkflowResult(&order))
	return &order
}

func (h *harness) resolve(t *testing.T, input ordertypes.SetStatusInput) (*domain.Order, error) {
	t.Helper()
	env := h.env()
	env.ExecuteWorkflow(ResolutionWorkflowName, ResolutionWorkflowInput{Command: input})
	require.True(t, env.IsWorkflowCompleted())
	if err := env.GetWorkflowError(); err != nil {
		return nil, orderactivities.DecodeError(err)
	}
	var order domain.Order
	require.NoError(t, env.GetWorkflowResult(&order))
	return &order, nil
}

func TestSubmissionWorkflow_CreatesPendingOrder(t *testing.T) {
	h := newHarness()
	cartID := h.cart(t, "1", "1", "5")

	order := h.submit(t, ordertypes.SubmitOrderInput{CartID: cartID, FulfillmentMode: "delivery", Address: " Main St 1 "})
	require.Equal(t, domain.StatusPending, order.Status)
	require.Equal(t, "44.70", order.Total.StringFixed(2))
	require.Equal(t, "Main St 1", order.Fulfillment.Address)

	total, err := h.carts.Total(context.Background(), cartID)
	require.NoError(t, err)
	require.True(t, total.IsZero())
}

func TestSubmissionWorkflow_EmptyCartFailsWithValidationKind(t *testing.T) {
	h := newHarness()
	cartID := h.cart(t)

	env := h.env()
	table := 3
	env.ExecuteWorkflow(SubmissionWorkflowName, SubmissionWorkflowInput{
		Command: ordertypes.SubmitOrderInput{CartID: cartID, FulfillmentMode: "dine-in", TableNumber: &table},
	})
	require.True(t, env.IsWorkflowCompleted())
	err := orderactivities.DecodeError(env.GetWorkflowError())
	require.ErrorIs(t, err, application.ErrInvalidInput)
	var validation domain.ValidationError
	require.True(t, errors.As(err, &validation))
	require.Equal(t, domain.KindEmptyCart, validation.Kind)
}

func TestResolutionWorkflow_DispatchesAcceptedDelivery(t *testing.T) {
	h := newHarness()
	order := h.submit(t, ordertypes.SubmitOrderInput{CartID: h.cart(t, "2"), FulfillmentMode: "delivery", Address: "Main St 1"})

	resolved, err := h.resolve(t, ordertypes.SetStatusInput{OrderID: order.ID, Status: "accepted"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, resolved.Status)
	require.Equal(t, 1, h.dispatcher.count())
}

func TestResolutionWorkflow_DispatchFailureKeepsAcceptance(t *testing.T) {
	h := newHarness()
	h.dispatcher.err = errors.New("courier offline")
	order := h.submit(t, ordertypes.SubmitOrderInput{CartID: h.cart(t, "2"), FulfillmentMode: "delivery", Address: "Main St 1"})

	resolved, err := h.resolve(t, ordertypes.SetStatusInput{OrderID: order.ID, Status: "accepted"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, resolved.Status)
	require.Greater(t, h.dispatcher.count(), 1)
}

func TestResolutionWorkflow_SecondDecisionConflicts(t *testing.T) {
	h := newHarness()
	table := 7
	order := h.submit(t, ordertypes.SubmitOrderInput{CartID: h.cart(t, "4"), FulfillmentMode: "dine-in", TableNumber: &table})

	rejected, err := h.resolve(t, ordertypes.SetStatusInput{OrderID: order.ID, Status: "rejected", Reason: "out of buns"})
	require.NoError(t, err)
	require.Equal(t, "out of buns", rejected.RejectionReason)
	require.Zero(t, h.dispatcher.count())

	_, err = h.resolve(t, ordertypes.SetStatusInput{OrderID: order.ID, Status: "accepted"})
	require.ErrorIs(t, err, domain.ErrAlreadyResolved)
}
