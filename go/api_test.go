package orderingserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	cartcatalog "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/catalog"
	cartmemory "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/application"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/checkout"
	ordermemory "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/memory"
	orderworkflows "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application"
	staffmemory "github.com/Apurer/restaurant-ordering-api/internal/domains/staff/adapters/memory"
	stafftoken "github.com/Apurer/restaurant-ordering-api/internal/domains/staff/adapters/token"
	staffapp "github.com/Apurer/restaurant-ordering-api/internal/domains/staff/application"
	apierrors "github.com/Apurer/restaurant-ordering-api/internal/shared/errors"
)

const (
	staffUser     = "kitchen"
	staffPassword = "correct-horse"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	carts := cartapp.NewService(cartmemory.NewRepository(), cartcatalog.NewLookup(catalog))
	orders := orderapp.NewService(ordermemory.NewRepository(), checkout.NewCart(carts),
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()))

	issuer, err := stafftoken.NewJWTIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	staff := staffapp.NewService(staffmemory.NewRepository(), issuer, staffapp.WithHashCost(bcrypt.MinCost))
	_, err = staff.Register(context.Background(), staffUser, staffPassword)
	require.NoError(t, err)

	handlers := ApiHandleFunctions{
		CatalogAPI: NewCatalogAPI(catalog),
		CartAPI:    NewCartAPI(carts),
		OrderAPI:   NewOrderAPI(orders, orderworkflows.NewInlineOrderWorkflows(orders)),
		ConsoleAPI: NewConsoleAPI(orders, 20*time.Millisecond),
		StaffAPI:   NewStaffAPI(staff),
		StaffGuard: RequireStaff(staff),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handlers)
}

func do(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, BasePath+path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func login(t *testing.T, router http.Handler) map[string]string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/staff/login", LoginRequest{Username: staffUser, Password: staffPassword}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return map[string]string{"Authorization": "Bearer " + decode[LoginResponse](t, rec).Token}
}

func cartWith(t *testing.T, router http.Handler, productIDs ...string) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/carts", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[Cart](t, rec).Id
	for _, productID := range productIDs {
		rec := do(t, router, http.MethodPost, "/carts/"+id+"/lines", AddCartLineRequest{ProductId: productID}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	return id
}

func submitOrder(t *testing.T, router http.Handler, req SubmitOrderRequest, headers map[string]string) Order {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/orders", req, headers)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[Order](t, rec)
}

func table(n int) *int { return &n }

func TestCatalogRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/catalog/products", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]Product](t, rec), 6)

	rec = do(t, router, http.MethodGet, "/catalog/products?category=all&search=BURGER", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, p := range decode[[]Product](t, rec) {
		require.Contains(t, strings.ToLower(p.Name+" "+p.Description), "burger")
	}

	rec = do(t, router, http.MethodGet, "/catalog/products/2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "22.90", decode[Product](t, rec).Price)

	rec = do(t, router, http.MethodGet, "/catalog/products/999", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	rec = do(t, router, http.MethodGet, "/catalog/categories", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decode[[]string](t, rec))
}

func TestCartRoutes_MergeQuantityAndTotal(t *testing.T) {
	router := newTestRouter(t)
	id := cartWith(t, router, "1", "1", "5")

	rec := do(t, router, http.MethodGet, "/carts/"+id, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[Cart](t, rec)
	require.Len(t, cart.Lines, 2)
	require.Equal(t, 2, cart.Lines[0].Quantity)
	require.Equal(t, "37.80", cart.Lines[0].Subtotal)
	require.Equal(t, 3, cart.ItemCount)
	require.Equal(t, "44.70", cart.Total)

	rec = do(t, router, http.MethodPut, "/carts/"+id+"/lines/1", SetQuantityRequest{Quantity: table(0)}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[Cart](t, rec)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, "6.90", cart.Total)

	rec = do(t, router, http.MethodDelete, "/carts/"+id+"/lines", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "0.00", decode[Cart](t, rec).Total)
}

func TestCartRoutes_Errors(t *testing.T) {
	router := newTestRouter(t)
	id := cartWith(t, router)

	rec := do(t, router, http.MethodPost, "/carts/"+id+"/lines", map[string]string{}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Contains(t, problem.Extensions["fields"], "productId")

	rec = do(t, router, http.MethodPost, "/carts/"+id+"/lines", AddCartLineRequest{ProductId: "999"}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/carts/00000000-0000-0000-0000-000000000000", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitOrder_ValidationKinds(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		cart []string
		req  SubmitOrderRequest
		kind string
	}{
		{"empty cart", nil, SubmitOrderRequest{FulfillmentMode: "dine-in", TableNumber: table(1)}, "empty_cart"},
		{"dine-in without table", []string{"1"}, SubmitOrderRequest{FulfillmentMode: "dine-in"}, "missing_table_number"},
		{"delivery without address", []string{"1"}, SubmitOrderRequest{FulfillmentMode: "delivery", DeliveryAddress: "  "}, "missing_address"},
		{"unknown mode", []string{"1"}, SubmitOrderRequest{FulfillmentMode: "drive-thru"}, "invalid_fulfillment_mode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.CartId = cartWith(t, router, tc.cart...)
			rec := do(t, router, http.MethodPost, "/orders", tc.req, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			problem := decode[apierrors.ProblemDetail](t, rec)
			require.Equal(t, apierrors.TypeValidation, problem.Type)
			require.Equal(t, tc.kind, problem.Extensions["kind"])
		})
	}

	rec := do(t, router, http.MethodPost, "/orders", SubmitOrderRequest{CartId: "00000000-0000-0000-0000-000000000000", FulfillmentMode: "dine-in", TableNumber: table(1)}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitOrder_SnapshotsAndClearsCart(t *testing.T) {
	router := newTestRouter(t)
	cartID := cartWith(t, router, "2", "6")

	order := submitOrder(t, router, SubmitOrderRequest{CartId: cartID, FulfillmentMode: "delivery", DeliveryAddress: " Main St 1 ", TableNumber: table(3)}, nil)
	require.Equal(t, "pending", order.Status)
	require.Equal(t, "31.80", order.Total)
	require.Equal(t, "Main St 1", order.DeliveryAddress)
	require.Nil(t, order.TableNumber)
	require.Len(t, order.Lines, 2)

	rec := do(t, router, http.MethodGet, "/carts/"+cartID, nil, nil)
	require.Empty(t, decode[Cart](t, rec).Lines)

	rec = do(t, router, http.MethodGet, "/orders/"+order.Id, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, order.Id, decode[Order](t, rec).Id)
}

func TestSubmitOrder_IdempotencyKey(t *testing.T) {
	router := newTestRouter(t)
	cartID := cartWith(t, router, "3")
	req := SubmitOrderRequest{CartId: cartID, FulfillmentMode: "dine-in", TableNumber: table(5)}
	headers := map[string]string{IdempotencyKeyHeader: "retry-1"}

	first := submitOrder(t, router, req, headers)
	second := submitOrder(t, router, req, headers)
	require.Equal(t, first.Id, second.Id)

	req.TableNumber = table(6)
	rec := do(t, router, http.MethodPost, "/orders", req, headers)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, apierrors.TypeIdempotency, decode[apierrors.ProblemDetail](t, rec).Type)
}

func TestStaffRoutes_RequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/orders", "/console"} {
		rec := do(t, router, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
		require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	}
	rec := do(t, router, http.MethodGet, "/orders", nil, map[string]string{"Authorization": "Bearer nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodPost, "/staff/login", LoginRequest{Username: staffUser, Password: "wrong-password"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodGet, "/orders", nil, login(t, router))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSetStatus_LifecycleAndConflicts(t *testing.T) {
	router := newTestRouter(t)
	auth := login(t, router)
	order := submitOrder(t, router, SubmitOrderRequest{CartId: cartWith(t, router, "4"), FulfillmentMode: "dine-in", TableNumber: table(2)}, nil)
	path := "/orders/" + order.Id + "/status"

	rec := do(t, router, http.MethodPost, path, SetStatusRequest{Status: "rejected", Reason: "   "}, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "missing_rejection_reason", decode[apierrors.ProblemDetail](t, rec).Extensions["kind"])

	rec = do(t, router, http.MethodPost, path, SetStatusRequest{Status: "pending"}, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_status", decode[apierrors.ProblemDetail](t, rec).Extensions["kind"])

	rec = do(t, router, http.MethodPost, path, SetStatusRequest{Status: "rejected", Reason: "out of stock"}, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	rejected := decode[Order](t, rec)
	require.Equal(t, "rejected", rejected.Status)
	require.Equal(t, "out of stock", rejected.RejectionReason)
	require.NotNil(t, rejected.ResolvedAt)

	rec = do(t, router, http.MethodPost, path, SetStatusRequest{Status: "accepted"}, auth)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, apierrors.TypeAlreadyResolved, decode[apierrors.ProblemDetail](t, rec).Type)

	rec = do(t, router, http.MethodPost, "/orders/missing/status", SetStatusRequest{Status: "accepted"}, auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsole_PartitionsAndStats(t *testing.T) {
	router := newTestRouter(t)
	auth := login(t, router)

	a := submitOrder(t, router, SubmitOrderRequest{CartId: cartWith(t, router, "1"), FulfillmentMode: "dine-in", TableNumber: table(1)}, nil)
	b := submitOrder(t, router, SubmitOrderRequest{CartId: cartWith(t, router, "2"), FulfillmentMode: "delivery", DeliveryAddress: "Main St 1"}, nil)
	c := submitOrder(t, router, SubmitOrderRequest{CartId: cartWith(t, router, "5"), FulfillmentMode: "dine-in", TableNumber: table(2)}, nil)

	rec := do(t, router, http.MethodPost, "/orders/"+b.Id+"/status", SetStatusRequest{Status: "accepted"}, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/console", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[ConsoleView](t, rec)
	require.Len(t, view.Pending, 2)
	require.Equal(t, a.Id, view.Pending[0].Id)
	require.Equal(t, c.Id, view.Pending[1].Id)
	require.Regexp(t, `^\d{2,}:\d{2}$`, view.Pending[0].Elapsed)
	require.Len(t, view.Resolved, 1)
	require.Equal(t, b.Id, view.Resolved[0].Id)
	require.Equal(t, ConsoleStats{Pending: 2, Accepted: 1, Rejected: 0, SalesTotal: "48.70"}, view.Stats)

	rec = do(t, router, http.MethodGet, "/orders?status=pending", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]Order](t, rec), 2)

	rec = do(t, router, http.MethodGet, "/orders?status=bogus", nil, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsoleStream_SendsEvents(t *testing.T) {
	router := newTestRouter(t)
	auth := login(t, router)
	submitOrder(t, router, SubmitOrderRequest{CartId: cartWith(t, router, "1"), FulfillmentMode: "dine-in", TableNumber: table(1)}, nil)

	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	token := strings.TrimPrefix(auth["Authorization"], "Bearer ")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+BasePath+"/console/stream?access_token="+token, nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	scanner := bufio.NewScanner(resp.Body)
	events := 0
	for scanner.Scan() && events < 2 {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var view ConsoleView
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &view))
		require.Equal(t, 1, view.Stats.Pending)
		events++
	}
	require.Equal(t, 2, events)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
