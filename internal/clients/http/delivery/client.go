// Package delivery is the HTTP client for the delivery partner API.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Line is one item the courier carries.
type Line struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Payload is the delivery request body.
type Payload struct {
	Reference  string    `json:"reference"`
	Address    string    `json:"address"`
	Total      string    `json:"total"`
	Lines      []Line    `json:"lines"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

// Error is the partner's error body.
type Error struct {
	Message *string `json:"message,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// Client posts deliveries to the partner.
type Client struct {
	http *resty.Client
}

// DispatchOption configures Dispatch behavior.
type DispatchOption func(*dispatchOptions)

type dispatchOptions struct {
	idempotencyKey string
}

// WithIdempotencyKey sets the Idempotency-Key header for the request.
func WithIdempotencyKey(key string) DispatchOption {
	return func(opts *dispatchOptions) {
		opts.idempotencyKey = strings.TrimSpace(key)
	}
}

// NewClient instantiates the delivery client. A nil httpClient gets a traced
// transport and a 5s timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("delivery partner base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	rc := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}, nil
}

// Dispatch asks the partner to deliver payload. 200 and 201 are success.
func (c *Client) Dispatch(ctx context.Context, payload Payload, optFns ...DispatchOption) error {
	if c == nil || c.http == nil {
		return errors.New("delivery client not configured")
	}
	reference := strings.TrimSpace(payload.Reference)
	if reference == "" {
		return errors.New("delivery reference is required")
	}
	var opts dispatchOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "reference", runtime.ParamLocationPath, reference)
	if err != nil {
		return fmt.Errorf("encode delivery reference: %w", err)
	}
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetError(&Error{})
	if opts.idempotencyKey != "" {
		req.SetHeader("Idempotency-Key", opts.idempotencyKey)
	}
	resp, err := req.Post("/deliveries/" + pathParam)
	if err != nil {
		return fmt.Errorf("call delivery API: %w", err)
	}
	status := resp.StatusCode()
	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		return nil
	case status == http.StatusConflict:
		return fmt.Errorf("delivery API idempotency conflict: %s", errorMessage(resp.Error(), resp.Status()))
	case status >= http.StatusBadRequest:
		return fmt.Errorf("delivery API error: %s", errorMessage(resp.Error(), resp.Status()))
	default:
		return fmt.Errorf("delivery API unexpected status: %s", resp.Status())
	}
}

func errorMessage(body any, fallback string) string {
	apiErr, ok := body.(*Error)
	if !ok || apiErr == nil {
		return fallback
	}
	if apiErr.Message != nil {
		if msg := strings.TrimSpace(*apiErr.Message); msg != "" {
			return msg
		}
	}
	if apiErr.Status != nil {
		if msg := strings.TrimSpace(*apiErr.Status); msg != "" {
			return msg
		}
	}
	return fallback
}
