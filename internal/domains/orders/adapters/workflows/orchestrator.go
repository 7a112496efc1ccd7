package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/restaurant-ordering-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/restaurant-ordering-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderProcessingTaskQueue}
}

// SubmitOrder runs the submission workflow and waits for the order.
// A repeated Idempotency-Key joins the run already started for it.
func (o *TemporalOrderWorkflows) SubmitOrder(ctx context.Context, input ordertypes.SubmitOrderInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildSubmissionWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.SubmissionWorkflowName,
		orderworkflows.SubmissionWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			return awaitOrder(ctx, o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId))
		}
		return nil, err
	}
	return awaitOrder(ctx, run)
}

// ResolveOrder runs the resolution workflow and waits for the resolved order.
func (o *TemporalOrderWorkflows) ResolveOrder(ctx context.Context, input ordertypes.SetStatusInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("order-resolution-%s-%s", strings.TrimSpace(input.OrderID), traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.ResolutionWorkflowName,
		orderworkflows.ResolutionWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		return nil, err
	}
	return awaitOrder(ctx, run)
}

func awaitOrder(ctx context.Context, run client.WorkflowRun) (*domain.Order, error) {
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, orderactivities.DecodeError(err)
	}
	return &order, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service    ports.Service
	dispatcher ports.DeliveryDispatcher
	logger     *slog.Logger
}

// InlineOption customises the inline orchestrator.
type InlineOption func(*InlineOrderWorkflows)

// WithDeliveryDispatcher books couriers for accepted delivery orders.
func WithDeliveryDispatcher(dispatcher ports.DeliveryDispatcher) InlineOption {
	return func(o *InlineOrderWorkflows) {
		o.dispatcher = dispatcher
	}
}

// WithLogger sets the logger used for dispatch failures.
func WithLogger(logger *slog.Logger) InlineOption {
	return func(o *InlineOrderWorkflows) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service, opts ...InlineOption) *InlineOrderWorkflows {
	o := &InlineOrderWorkflows{service: service, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// SubmitOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) SubmitOrder(ctx context.Context, input ordertypes.SubmitOrderInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.Submit(ctx, input)
}

// ResolveOrder resolves the order, then dispatches accepted delivery orders.
// Dispatch failures are logged; the acceptance stands.
func (o *InlineOrderWorkflows) ResolveOrder(ctx context.Context, input ordertypes.SetStatusInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	order, err := o.service.SetStatus(ctx, input)
	if err != nil {
		return nil, err
	}
	if o.dispatcher != nil && order.Status == domain.StatusAccepted && order.IsDelivery() {
		if err := o.dispatcher.Dispatch(ctx, order); err != nil {
			o.logger.LogAttrs(ctx, slog.LevelError, "delivery dispatch failed",
				slog.String("order.id", order.ID), slog.String("error", err.Error()))
		}
	}
	return order, nil
}

func buildSubmissionWorkflowID(input ordertypes.SubmitOrderInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-submission-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("order-submission-%s-%s", strings.TrimSpace(input.CartID), traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
