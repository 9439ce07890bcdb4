package createcart

import (
	"context"

	"github.com/giovaniif/cart/domain/cart"
	protocols "github.com/giovaniif/cart/protocols"
	"go.uber.org/zap"
)

type CreateCart struct {
	cartRepository     cart.Repository
	idempotencyGateway protocols.IdempotencyGateway
	eventPublisher     protocols.EventPublisher
	clock              protocols.Clock
	logger             *zap.Logger
}

func NewCreateCart(cartRepository cart.Repository, idempotencyGateway protocols.IdempotencyGateway, eventPublisher protocols.EventPublisher, clock protocols.Clock, logger *zap.Logger) *CreateCart {
	return &CreateCart{
		cartRepository:     cartRepository,
		idempotencyGateway: idempotencyGateway,
		eventPublisher:     eventPublisher,
		clock:              clock,
		logger:             logger,
	}
}

// CreateCart stores a new empty cart. With an idempotency key, a repeated
// request returns the cart created by the first one.
func (c *CreateCart) CreateCart(ctx context.Context, input Input) (*cart.Cart, error) {
	if input.IdempotencyKey == "" {
		return c.create(ctx)
	}

	result, err := c.idempotencyGateway.ReserveIdempotencyKey(ctx, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return c.cartRepository.Get(ctx, result.CartId)
	}

	created, err := c.create(ctx)
	if err != nil {
		if markErr := c.idempotencyGateway.MarkFailure(ctx, input.IdempotencyKey); markErr != nil {
			c.logger.Warn("failed to release idempotency key", zap.String("idempotency_key", input.IdempotencyKey), zap.Error(markErr))
		}
		return nil, err
	}
	if err := c.idempotencyGateway.MarkSuccess(ctx, input.IdempotencyKey, created.Id); err != nil {
		c.logger.Warn("failed to store idempotency result", zap.String("idempotency_key", input.IdempotencyKey), zap.Error(err))
	}
	return created, nil
}

func (c *CreateCart) create(ctx context.Context) (*cart.Cart, error) {
	created, err := c.cartRepository.Create(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Info("cart created", zap.Int64("cart_id", created.Id))

	if err := c.eventPublisher.Publish(ctx, cart.NewEvent(cart.EventCreated, created, c.clock.Now())); err != nil {
		c.logger.Warn("failed to publish cart event", zap.Int64("cart_id", created.Id), zap.Error(err))
	}
	return created, nil
}

type Input struct {
	IdempotencyKey string
}
