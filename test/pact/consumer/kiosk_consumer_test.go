//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/restaurant-ordering-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

type orderPayload struct {
	ID              string `json:"id"`
	Total           string `json:"total"`
	FulfillmentMode string `json:"fulfillmentMode"`
	TableNumber     *int   `json:"tableNumber"`
	Status          string `json:"status"`
}

type problemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail"`
	Extensions map[string]any `json:"extensions"`
}

type apiError struct {
	status int
	title  string
	kind   string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.kind != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.kind)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestKioskContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	product := pacttest.ExampleProductPayload()
	productMatcher := matchers.Map{
		"id":       matchers.Like(product["id"]),
		"name":     matchers.Like(product["name"]),
		"price":    matchers.Term(product["price"].(string), `^\d+\.\d{2}$`),
		"category": matchers.Like(product["category"]),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request for a menu product").
		WithRequest("GET", "/api/v1/catalog/products/"+pacttest.ExistingProductID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request for an unknown product").
		WithRequest("GET", "/api/v1/catalog/products/"+pacttest.MissingProductID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCartReady).
		UponReceiving("a dine-in order submission").
		WithRequest("POST", "/api/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleSubmitPayload(pacttest.ReadyCartID))
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":              matchers.Like("0b7f3c1e-2d4a-4f3e-9a51-6c0d2e8b9f10"),
				"total":           matchers.S("37.80"),
				"fulfillmentMode": matchers.S("dine-in"),
				"tableNumber":     matchers.Like(pacttest.TableNumber),
				"status":          matchers.S("pending"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCartEmpty).
		UponReceiving("an order submission for an empty cart").
		WithRequest("POST", "/api/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleSubmitPayload(pacttest.EmptyCartID))
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":       matchers.S("/problems/validation-error"),
				"status":     matchers.Like(http.StatusBadRequest),
				"extensions": matchers.Map{"kind": matchers.S("empty_cart")},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCartMissing).
		UponReceiving("an order submission for an unknown cart").
		WithRequest("POST", "/api/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleSubmitPayload(pacttest.MissingCartID))
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newKioskClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fetched, err := client.GetProduct(ctx, pacttest.ExistingProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if fetched.ID != pacttest.ExistingProductID {
			return fmt.Errorf("expected product %s, got %+v", pacttest.ExistingProductID, fetched)
		}
		if _, err := client.GetProduct(ctx, pacttest.MissingProductID); !hasStatus(err, http.StatusNotFound) {
			return fmt.Errorf("expected 404 for product %s, got %v", pacttest.MissingProductID, err)
		}

		order, err := client.SubmitOrder(ctx, pacttest.ReadyCartID)
		if err != nil {
			return fmt.Errorf("submit order: %w", err)
		}
		if order.Status != "pending" || order.Total != "37.80" {
			return fmt.Errorf("unexpected order %+v", order)
		}

		_, err = client.SubmitOrder(ctx, pacttest.EmptyCartID)
		var apiErr apiError
		if !errors.As(err, &apiErr) || apiErr.status != http.StatusBadRequest || apiErr.kind != "empty_cart" {
			return fmt.Errorf("expected empty_cart validation error, got %v", err)
		}
		if _, err := client.SubmitOrder(ctx, pacttest.MissingCartID); !hasStatus(err, http.StatusNotFound) {
			return fmt.Errorf("expected 404 for cart %s, got %v", pacttest.MissingCartID, err)
		}
		return nil
	})
	require.NoError(t, err)
}

type kioskClient struct {
	baseURL    string
	httpClient *http.Client
}

func newKioskClient(config pactconsumer.MockServerConfig) *kioskClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &kioskClient{
		baseURL:    fmt.Sprintf("http://%s:%d/api/v1", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *kioskClient) GetProduct(ctx context.Context, id string) (*productPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/catalog/products/"+id, nil)
	if err != nil {
		return nil, err
	}
	var payload productPayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *kioskClient) SubmitOrder(ctx context.Context, cartID string) (*orderPayload, error) {
	body, err := json.Marshal(pacttest.ExampleSubmitPayload(cartID))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var payload orderPayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *kioskClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	kind, _ := problem.Extensions["kind"].(string)
	return apiError{status: status, title: problem.Title, kind: kind}
}

func hasStatus(err error, status int) bool {
	var apiErr apiError
	return errors.As(err, &apiErr) && apiErr.status == status
}
