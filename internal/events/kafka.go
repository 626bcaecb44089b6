package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the forwarder needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder mirrors domain events onto a Kafka topic as JSON so other
// systems can consume the search log.
type KafkaForwarder struct {
	writer MessageWriter
	log    *logger.Logger
}

// NewKafkaWriter builds a kafka-go writer for the configured broker and topic.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.GetKafkaBroker()),
		Topic:        cfg.GetKafkaTopic(),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaForwarder wraps writer.
func NewKafkaForwarder(writer MessageWriter, log *logger.Logger) *KafkaForwarder {
	return &KafkaForwarder{writer: writer, log: log}
}

// RegisterHandlers subscribes the forwarder to every event it mirrors.
func (f *KafkaForwarder) RegisterHandlers(bus Bus) {
	bus.Subscribe(SearchRecorded{}.EventName(), f)
	bus.Subscribe(MapRendered{}.EventName(), f)
}

// Handle implements Handler.
func (f *KafkaForwarder) Handle(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.EventName(), err)
	}

	msg := kafka.Message{
		Key:   []byte(event.EventName()),
		Value: payload,
		Time:  event.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.EventName())},
		},
	}

	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		f.log.UpstreamError("kafka", event.EventName(), err)
		return fmt.Errorf("forward %s: %w", event.EventName(), err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

var _ Handler = (*KafkaForwarder)(nil)
