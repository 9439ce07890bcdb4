package gateways

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/giovaniif/cart/domain/cart"
	"github.com/segmentio/kafka-go"
)

type mockMessageWriter struct {
	written  []kafka.Message
	writeErr error
	closed   bool
}

func (m *mockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.written = append(m.written, msgs...)
	return m.writeErr
}

func (m *mockMessageWriter) Close() error {
	m.closed = true
	return nil
}

func TestKafkaPublishKeysByCartId(t *testing.T) {
	writer := &mockMessageWriter{}
	publisher := NewEventPublisherKafka(writer)
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	err := publisher.Publish(context.Background(), cart.Event{Type: cart.EventCreated, CartId: 42, OccurredAt: at})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(writer.written) != 1 {
		t.Fatalf("expected one message, got %d", len(writer.written))
	}
	msg := writer.written[0]
	if string(msg.Key) != "42" {
		t.Fatalf("expected key 42, got %s", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "cart.created" {
		t.Fatalf("expected event-type header, got %+v", msg.Headers)
	}

	var decoded cart.Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("expected json payload, got %v", err)
	}
	if decoded.CartId != 42 || decoded.Type != cart.EventCreated || !decoded.OccurredAt.Equal(at) {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestKafkaPublishWrapsWriteError(t *testing.T) {
	writer := &mockMessageWriter{writeErr: errors.New("broker down")}
	publisher := NewEventPublisherKafka(writer)

	err := publisher.Publish(context.Background(), cart.Event{Type: cart.EventDeleted, CartId: 1})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !errors.Is(err, writer.writeErr) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}

func TestKafkaClose(t *testing.T) {
	writer := &mockMessageWriter{}
	if err := NewEventPublisherKafka(writer).Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !writer.closed {
		t.Fatalf("expected writer closed")
	}
}
