package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
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

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
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

func (s *Service) Create(ctx context.Context) (*cartports.CartProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Create")
	defer span.End()

	result, err := s.inner.Create(ctx)
	if err != nil {
		s.metrics.recordFailure(ctx, "create")
		return nil, s.handleError(ctx, span, err, "failed to create cart")
	}
	span.SetAttributes(attribute.String("cart.id", result.Entity.ID))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "cart created", slog.String("cart.id", result.Entity.ID))
	return result, nil
}

func (s *Service) Get(ctx context.Context, cartID string) (*cartports.CartProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Get", trace.WithAttributes(attribute.String("cart.id", cartID)))
	defer span.End()

	result, err := s.inner.Get(ctx, cartID)
	if err != nil {
		s.metrics.recordFailure(ctx, "get")
		return nil, s.handleError(ctx, span, err, "failed to load cart", slog.String("cart.id", cartID))
	}
	span.SetAttributes(attribute.Int("cart.lines", len(result.Entity.Lines)))
	return result, nil
}

func (s *Service) AddLine(ctx context.Context, cartID, productID string) (*cartports.CartProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddLine",
		trace.WithAttributes(attribute.String("cart.id", cartID), attribute.String("product.id", productID)))
	defer span.End()

	result, err := s.inner.AddLine(ctx, cartID, productID)
	if err != nil {
		s.metrics.recordFailure(ctx, "add_line")
		return nil, s.handleError(ctx, span, err, "failed to add cart line",
			slog.String("cart.id", cartID), slog.String("product.id", productID))
	}
	s.metrics.recordMutation(ctx, "add")
	s.logInfo(ctx, "cart line added", slog.String("cart.id", cartID), slog.String("product.id", productID))
	return result, nil
}

func (s *Service) RemoveLine(ctx context.Context, cartID, productID string) (*cartports.CartProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveLine",
		trace.WithAttributes(attribute.String("cart.id", cartID), attribute.String("product.id", productID)))
	defer span.End()

	result, err := s.inner.RemoveLine(ctx, cartID, productID)
	if err != nil {
		s.metrics.recordFailure(ctx, "remove_line")
		return nil, s.handleError(ctx, span, err, "failed to remove cart line",
			slog.String("cart.id", cartID), slog.String("product.id", productID))
	}
	s.metrics.recordMutation(ctx, "remove")
	return result, nil
}

func (s *Service) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*cartports.CartProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.SetQuantity",
		trace.WithAttributes(
			attribute.String("cart.id", cartID),
			attribute.String("product.id", productID),
			attribute.Int("cart.line.quantity", quantity),
		))
	defer span.End()

	result, err := s.inner.SetQuantity(ctx, cartID, productID, quantity)
	if err != nil {
		s.metrics.recordFailure(ctx, "set_quantity")
		return nil, s.handleError(ctx, span, err, "failed to set cart line quantity",
			slog.String("cart.id", cartID), slog.String("product.id", productID), slog.Int("quantity", quantity))
	}
	s.metrics.recordMutation(ctx, "set_quantity")
	return result, nil
}

func (s *Service) Clear(ctx context.Context, cartID string) (*cartports.CartProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear", trace.WithAttributes(attribute.String("cart.id", cartID)))
	defer span.End()

	result, err := s.inner.Clear(ctx, cartID)
	if err != nil {
		s.metrics.recordFailure(ctx, "clear")
		return nil, s.handleError(ctx, span, err, "failed to clear cart", slog.String("cart.id", cartID))
	}
	s.metrics.recordMutation(ctx, "clear")
	s.logInfo(ctx, "cart cleared", slog.String("cart.id", cartID))
	return result, nil
}

func (s *Service) Checkout(ctx context.Context, cartID string, place func([]domain.Line) error) (*cartports.CartProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Checkout", trace.WithAttributes(attribute.String("cart.id", cartID)))
	defer span.End()

	result, err := s.inner.Checkout(ctx, cartID, place)
	if err != nil {
		s.metrics.recordFailure(ctx, "checkout")
		return nil, s.handleError(ctx, span, err, "failed to check out cart", slog.String("cart.id", cartID))
	}
	s.metrics.recordMutation(ctx, "checkout")
	s.logInfo(ctx, "cart checked out", slog.String("cart.id", cartID))
	return result, nil
}

func (s *Service) Total(ctx context.Context, cartID string) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Total", trace.WithAttributes(attribute.String("cart.id", cartID)))
	defer span.End()

	total, err := s.inner.Total(ctx, cartID)
	if err != nil {
		s.metrics.recordFailure(ctx, "total")
		return decimal.Zero, s.handleError(ctx, span, err, "failed to total cart", slog.String("cart.id", cartID))
	}
	span.SetAttributes(attribute.String("cart.total", total.StringFixed(2)))
	return total, nil
}

func (s *Service) PurgeStale(ctx context.Context, olderThan time.Duration) (int, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.PurgeStale", trace.WithAttributes(attribute.String("cart.ttl", olderThan.String())))
	defer span.End()

	removed, err := s.inner.PurgeStale(ctx, olderThan)
	if err != nil {
		s.metrics.recordFailure(ctx, "purge_stale")
		return 0, s.handleError(ctx, span, err, "failed to purge stale carts")
	}
	span.SetAttributes(attribute.Int("cart.purged", removed))
	s.metrics.recordPurged(ctx, removed)
	s.logInfo(ctx, "stale carts purged", slog.Int("count", removed), slog.Duration("ttl", olderThan))
	return removed, nil
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
	cartsCreated  metric.Int64Counter
	cartMutations metric.Int64Counter
	cartsPurged   metric.Int64Counter
	failures      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("cart.service.carts_created", metric.WithDescription("Number of carts created"))
	mutations, _ := m.Int64Counter("cart.service.mutations", metric.WithDescription("Number of cart line mutations"))
	purged, _ := m.Int64Counter("cart.service.carts_purged", metric.WithDescription("Number of stale carts purged"))
	failures, _ := m.Int64Counter("cart.service.failures", metric.WithDescription("Number of failed cart commands"))
	return serviceMetrics{cartsCreated: created, cartMutations: mutations, cartsPurged: purged, failures: failures}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.cartsCreated != nil {
		m.cartsCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordMutation(ctx context.Context, op string) {
	if m.cartMutations != nil {
		m.cartMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", op)))
	}
}

func (m serviceMetrics) recordPurged(ctx context.Context, n int) {
	if m.cartsPurged != nil && n > 0 {
		m.cartsPurged.Add(ctx, int64(n))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, op string) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", op)))
	}
}

var _ cartports.Service = (*Service)(nil)
