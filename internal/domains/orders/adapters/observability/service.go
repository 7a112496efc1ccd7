package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.DiscardHandler),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Submit(ctx context.Context, input ordertypes.SubmitOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Submit",
		trace.WithAttributes(
			attribute.String("cart.id", input.CartID),
			attribute.String("order.fulfillment_mode", input.FulfillmentMode),
			attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
		))
	defer span.End()

	order, err := s.inner.Submit(ctx, input)
	if err != nil {
		s.metrics.recordFailure(ctx, "submit")
		return nil, s.handleError(ctx, span, err, "failed to submit order",
			slog.String("cart.id", input.CartID), slog.String("order.fulfillment_mode", input.FulfillmentMode))
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.total", order.Total.StringFixed(2)),
		attribute.Int("order.lines", len(order.Lines)),
	)
	s.metrics.recordSubmitted(ctx, order.Fulfillment.Mode)
	s.logInfo(ctx, "order submitted",
		slog.String("order.id", order.ID),
		slog.String("order.fulfillment_mode", string(order.Fulfillment.Mode)),
		slog.String("order.total", order.Total.StringFixed(2)))
	return order, nil
}

func (s *Service) SetStatus(ctx context.Context, input ordertypes.SetStatusInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.SetStatus",
		trace.WithAttributes(attribute.String("order.id", input.OrderID), attribute.String("order.status", input.Status)))
	defer span.End()

	order, err := s.inner.SetStatus(ctx, input)
	if err != nil {
		s.metrics.recordFailure(ctx, "set_status")
		return nil, s.handleError(ctx, span, err, "failed to set order status",
			slog.String("order.id", input.OrderID), slog.String("order.status", input.Status))
	}
	s.metrics.recordResolved(ctx, order.Status)
	attrs := []slog.Attr{slog.String("order.id", order.ID), slog.String("order.status", string(order.Status))}
	if order.RejectionReason != "" {
		attrs = append(attrs, slog.String("order.rejection_reason", order.RejectionReason))
	}
	s.logInfo(ctx, "order resolved", attrs...)
	return order, nil
}

func (s *Service) GetByID(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(attribute.String("order.id", input.ID)))
	defer span.End()

	order, err := s.inner.GetByID(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.ID))
	}
	span.SetAttributes(attribute.String("order.status", string(order.Status)))
	return order, nil
}

func (s *Service) List(ctx context.Context, input ordertypes.ListOrdersInput) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List", trace.WithAttributes(attribute.String("order.status_filter", input.Status)))
	defer span.End()

	orders, err := s.inner.List(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("order.status_filter", input.Status))
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) Console(ctx context.Context) (*ordertypes.ConsoleView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Console")
	defer span.End()

	view, err := s.inner.Console(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build console view")
	}
	span.SetAttributes(
		attribute.Int("console.pending", view.Stats.Pending),
		attribute.Int("console.accepted", view.Stats.Accepted),
		attribute.Int("console.rejected", view.Stats.Rejected),
	)
	return view, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	submitted metric.Int64Counter
	resolved  metric.Int64Counter
	failures  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submitted, _ := m.Int64Counter("orders.service.submitted", metric.WithDescription("Number of orders submitted"))
	resolved, _ := m.Int64Counter("orders.service.resolved", metric.WithDescription("Number of orders accepted or rejected"))
	failures, _ := m.Int64Counter("orders.service.failures", metric.WithDescription("Number of failed order commands"))
	return serviceMetrics{submitted: submitted, resolved: resolved, failures: failures}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context, mode domain.FulfillmentMode) {
	if m.submitted != nil {
		m.submitted.Add(ctx, 1, metric.WithAttributes(attribute.String("order.fulfillment_mode", string(mode))))
	}
}

func (m serviceMetrics) recordResolved(ctx context.Context, status domain.Status) {
	if m.resolved != nil {
		m.resolved.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, op string) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("order.operation", op)))
	}
}

var _ orderports.Service = (*Service)(nil)
