package events

import (
	"context"
	"log/slog"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher writes events to the structured log. It is the default when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	env := NewEnvelope(event)
	p.logger.LogAttrs(ctx, slog.LevelInfo, "order event",
		slog.String("event.id", env.ID),
		slog.String("event.type", env.Type),
		slog.String("order.id", env.OrderID),
		slog.Time("event.occurred_at", env.OccurredAt),
		slog.Any("event.data", env.Data),
	)
	return nil
}
