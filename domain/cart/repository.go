package cart

import (
	"context"
	"time"
)

type MutateFunc func(c *Cart) error

type Repository interface {
	Create(ctx context.Context) (*Cart, error)
	Get(ctx context.Context, cartId int64) (*Cart, error)
	Save(ctx context.Context, c *Cart) (*Cart, error)
	Delete(ctx context.Context, cartId int64) error
	// Update runs fn on a working copy while holding the lock of that single
	// cart and stores whatever fn left in the copy, even when fn fails.
	Update(ctx context.Context, cartId int64, fn MutateFunc) (*Cart, error)
	EvictIdle(ctx context.Context, now time.Time, threshold time.Duration) ([]int64, error)
	Count() int
}
