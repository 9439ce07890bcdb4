package updatecart

import (
	"context"
	"fmt"

	"github.com/giovaniif/cart/domain/cart"
	"github.com/giovaniif/cart/domain/errs"
	"github.com/giovaniif/cart/domain/item"
	protocols "github.com/giovaniif/cart/protocols"
	"go.uber.org/zap"
)

type UpdateCart struct {
	cartRepository cart.Repository
	catalog        item.Catalog
	eventPublisher protocols.EventPublisher
	clock          protocols.Clock
	logger         *zap.Logger
}

func NewUpdateCart(cartRepository cart.Repository, catalog item.Catalog, eventPublisher protocols.EventPublisher, clock protocols.Clock, logger *zap.Logger) *UpdateCart {
	return &UpdateCart{
		cartRepository: cartRepository,
		catalog:        catalog,
		eventPublisher: eventPublisher,
		clock:          clock,
		logger:         logger,
	}
}

// UpdateCart applies the requested lines in order. Lines are independent:
// when one is rejected, the ones before it stay in the cart and the rest are
// not looked at.
func (u *UpdateCart) UpdateCart(ctx context.Context, input Input) (*cart.Cart, error) {
	applied := 0
	updated, err := u.cartRepository.Update(ctx, input.CartId, func(c *cart.Cart) error {
		for _, requested := range input.Lines {
			line, err := u.buildLine(requested)
			if err != nil {
				return err
			}
			c.ApplyLine(line)
			c.Touch(u.clock.Now())
			applied++
		}
		return nil
	})
	if err != nil {
		u.logger.Warn("cart update rejected",
			zap.Int64("cart_id", input.CartId),
			zap.Int("applied_lines", applied),
			zap.Error(err),
		)
	}
	if applied > 0 && updated != nil {
		if pubErr := u.eventPublisher.Publish(ctx, cart.NewEvent(cart.EventUpdated, updated, u.clock.Now())); pubErr != nil {
			u.logger.Warn("failed to publish cart event", zap.Int64("cart_id", input.CartId), zap.Error(pubErr))
		}
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *UpdateCart) buildLine(requested LineInput) (cart.Line, error) {
	if requested.Amount < 0 {
		return cart.Line{}, errs.NewInvalidInputError(fmt.Sprintf("Amount must not be negative for the id: %d", requested.ItemId))
	}
	found, err := u.catalog.GetItem(requested.ItemId)
	if err != nil {
		return cart.Line{}, err
	}
	if !found.IsAvailable() {
		return cart.Line{}, errs.NewOutOfStockError(fmt.Sprintf("Product has not more stock for the id: %d", found.Id))
	}
	if !found.CanFulfil(requested.Amount) {
		return cart.Line{}, errs.NewOutOfStockError(fmt.Sprintf("Product has only %d stock for the id: %d", found.Stock, found.Id))
	}
	return cart.Line{
		ItemId:      found.Id,
		Description: found.Description,
		Amount:      requested.Amount,
	}, nil
}

type Input struct {
	CartId int64
	Lines  []LineInput
}

type LineInput struct {
	ItemId int64
	Amount int32
}
