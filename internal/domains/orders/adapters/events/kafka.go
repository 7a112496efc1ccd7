package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events to a Kafka topic keyed by order id, so
// every event of one order lands on the same partition.
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	logger *slog.Logger
	tracer trace.Tracer
}

// NewKafkaWriter builds the default writer for brokers and topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
	}
}

func NewKafkaPublisher(writer MessageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
		logger: logger,
		tracer: otel.Tracer("github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/events"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	env := NewEnvelope(event)
	body, err := env.Marshal()
	if err != nil {
		return p.fail(ctx, nil, env, err)
	}
	msg := kafka.Message{
		Key:   []byte(env.OrderID),
		Value: body,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(env.Type)},
			{Key: "content-type", Value: []byte(contentTypeJSON)},
		},
	}

	ctx, span := p.tracer.Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingKafkaMessageKey(env.OrderID),
			semconv.MessagingMessageID(env.ID),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, kafkaCarrier{msg: &msg})

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return p.fail(ctx, span, env, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) fail(ctx context.Context, span trace.Span, env Envelope, err error) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	p.logger.LogAttrs(ctx, slog.LevelError, "failed to publish order event",
		slog.String("event.type", env.Type),
		slog.String("order.id", env.OrderID),
		slog.String("topic", p.topic),
		slog.String("error", err.Error()),
	)
	return err
}
