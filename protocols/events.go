package protocols

import (
	"context"

	"github.com/giovaniif/cart/domain/cart"
)

type EventPublisher interface {
	Publish(ctx context.Context, event cart.Event) error
}
