package getcart

import (
	"context"

	"github.com/giovaniif/cart/domain/cart"
)

type GetCart struct {
	cartRepository cart.Repository
}

func NewGetCart(cartRepository cart.Repository) *GetCart {
	return &GetCart{
		cartRepository: cartRepository,
	}
}

func (g *GetCart) GetCart(ctx context.Context, cartId int64) (*cart.Cart, error) {
	return g.cartRepository.Get(ctx, cartId)
}
