package deletecart

import (
	"context"

	"github.com/giovaniif/cart/domain/cart"
	protocols "github.com/giovaniif/cart/protocols"
	"go.uber.org/zap"
)

type DeleteCart struct {
	cartRepository cart.Repository
	eventPublisher protocols.EventPublisher
	clock          protocols.Clock
	logger         *zap.Logger
}

func NewDeleteCart(cartRepository cart.Repository, eventPublisher protocols.EventPublisher, clock protocols.Clock, logger *zap.Logger) *DeleteCart {
	return &DeleteCart{
		cartRepository: cartRepository,
		eventPublisher: eventPublisher,
		clock:          clock,
		logger:         logger,
	}
}

func (d *DeleteCart) DeleteCart(ctx context.Context, cartId int64) error {
	if err := d.cartRepository.Delete(ctx, cartId); err != nil {
		return err
	}
	d.logger.Info("cart deleted", zap.Int64("cart_id", cartId))

	event := cart.Event{Type: cart.EventDeleted, CartId: cartId, OccurredAt: d.clock.Now()}
	if err := d.eventPublisher.Publish(ctx, event); err != nil {
		d.logger.Warn("failed to publish cart event", zap.Int64("cart_id", cartId), zap.Error(err))
	}
	return nil
}
