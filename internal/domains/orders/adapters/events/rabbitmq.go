package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*RabbitMQPublisher)(nil)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes order events to a topic exchange. The routing
// key is the event name, e.g. orders.order.accepted.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	channel  Channel
	conn     *amqp.Connection
	exchange string
	logger   *slog.Logger
}

// DialRabbitMQ connects to url and declares a durable topic exchange.
func DialRabbitMQ(url, exchange string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	publisher := NewRabbitMQPublisher(ch, exchange, logger)
	publisher.conn = conn
	return publisher, nil
}

func NewRabbitMQPublisher(channel Channel, exchange string, logger *slog.Logger) *RabbitMQPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RabbitMQPublisher{channel: channel, exchange: exchange, logger: logger}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event domain.Event) error {
	env := NewEnvelope(event)
	body, err := env.Marshal()
	if err != nil {
		return p.fail(ctx, env, err)
	}
	headers := amqp.Table{"event-type": env.Type}
	otel.GetTextMapPropagator().Inject(ctx, tableCarrier(headers))

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, p.exchange, env.Type, false, false, amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Timestamp:    env.OccurredAt,
		Type:         env.Type,
		Headers:      headers,
		Body:         body,
	})
	if err != nil {
		return p.fail(ctx, env, err)
	}
	return nil
}

// Close releases the channel and, when dialled here, the connection.
func (p *RabbitMQPublisher) Close() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

func (p *RabbitMQPublisher) fail(ctx context.Context, env Envelope, err error) error {
	p.logger.LogAttrs(ctx, slog.LevelError, "failed to publish order event",
		slog.String("event.type", env.Type),
		slog.String("order.id", env.OrderID),
		slog.String("exchange", p.exchange),
		slog.String("error", err.Error()),
	)
	return err
}
