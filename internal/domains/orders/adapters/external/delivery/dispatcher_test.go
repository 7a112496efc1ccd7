package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	deliveryclient "github.com/Apurer/restaurant-ordering-api/internal/clients/http/delivery"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
)

func TestDispatcher_SkipsDineIn(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	client, err := deliveryclient.NewClient(server.URL, server.Client())
	require.NoError(t, err)
	dispatcher := NewDispatcher(client)

	table := 2
	dineIn := &domain.Order{ID: "o1", Fulfillment: domain.Fulfillment{Mode: domain.ModeDineIn, TableNumber: &table}}
	require.NoError(t, dispatcher.Dispatch(context.Background(), dineIn))
	require.Zero(t, calls.Load())

	delivery := &domain.Order{ID: "o2", Fulfillment: domain.Fulfillment{Mode: domain.ModeDelivery, Address: "Main St 1"}}
	require.NoError(t, dispatcher.Dispatch(context.Background(), delivery))
	require.EqualValues(t, 1, calls.Load())
}

func TestToPayload(t *testing.T) {
	resolved := time.Date(2026, 4, 1, 18, 30, 15, 500, time.UTC)
	order := &domain.Order{
		ID:          "o3",
		Total:       decimal.RequireFromString("19.9"),
		Fulfillment: domain.Fulfillment{Mode: domain.ModeDelivery, Address: "Av. Paulista 1000"},
		Lines:       []domain.Line{{Name: "Veggie Burger", Quantity: 1}},
		ResolvedAt:  &resolved,
	}
	payload := ToPayload(order)
	require.Equal(t, "o3", payload.Reference)
	require.Equal(t, "19.90", payload.Total)
	require.Equal(t, "Av. Paulista 1000", payload.Address)
	require.Equal(t, resolved.Truncate(time.Second), payload.AcceptedAt)
	require.Equal(t, []deliveryclient.Line{{Name: "Veggie Burger", Quantity: 1}}, payload.Lines)
}
