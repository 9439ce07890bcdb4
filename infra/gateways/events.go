package gateways

import (
	"context"

	"github.com/giovaniif/cart/domain/cart"
	"go.uber.org/zap"
)

// EventPublisherLog is used when no broker is configured.
type EventPublisherLog struct {
	logger *zap.Logger
}

func NewEventPublisherLog(logger *zap.Logger) *EventPublisherLog {
	return &EventPublisherLog{logger: logger}
}

func (p *EventPublisherLog) Publish(ctx context.Context, event cart.Event) error {
	p.logger.Debug("cart event",
		zap.String("type", string(event.Type)),
		zap.Int64("cart_id", event.CartId),
		zap.Int("lines", event.Lines),
	)
	return nil
}
