package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatch_SendsPayloadAndIdempotencyKey(t *testing.T) {
	var (
		gotPath string
		gotKey  string
		gotBody Payload
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/", server.Client())
	require.NoError(t, err)

	err = client.Dispatch(context.Background(), Payload{
		Reference: "3f2c9d2e-0000-4000-8000-000000000001",
		Address:   "Main St 1",
		Total:     "22.90",
		Lines:     []Line{{Name: "Bacon Burger", Quantity: 1}},
	}, WithIdempotencyKey(" order-1 "))
	require.NoError(t, err)
	require.Equal(t, "/deliveries/3f2c9d2e-0000-4000-8000-000000000001", gotPath)
	require.Equal(t, "order-1", gotKey)
	require.Equal(t, "Main St 1", gotBody.Address)
	require.Len(t, gotBody.Lines, 1)
}

func TestDispatch_MapsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/deliveries/conflict":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"reference reused"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"status":"courier offline"}`))
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	err = client.Dispatch(context.Background(), Payload{Reference: "conflict"})
	require.ErrorContains(t, err, "idempotency conflict: reference reused")

	err = client.Dispatch(context.Background(), Payload{Reference: "other"})
	require.ErrorContains(t, err, "courier offline")
}

func TestClient_Validation(t *testing.T) {
	_, err := NewClient("  ", nil)
	require.Error(t, err)

	client, err := NewClient("http://localhost:1", nil)
	require.NoError(t, err)
	require.Error(t, client.Dispatch(context.Background(), Payload{}))
}
