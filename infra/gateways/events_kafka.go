package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/giovaniif/cart/domain/cart"
	"github.com/segmentio/kafka-go"
)

const (
	kafkaBatchTimeout = 10 * time.Millisecond
	kafkaBatchSize    = 100
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type EventPublisherKafka struct {
	writer messageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           kafkaBatchTimeout,
		BatchSize:              kafkaBatchSize,
		AllowAutoTopicCreation: true,
	}
}

func NewEventPublisherKafka(writer messageWriter) *EventPublisherKafka {
	return &EventPublisherKafka{writer: writer}
}

// Publish keys messages by cart id so every event of one cart lands on the
// same partition in order.
func (p *EventPublisherKafka) Publish(ctx context.Context, event cart.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal cart event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.CartId, 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *EventPublisherKafka) Close() error {
	return p.writer.Close()
}
