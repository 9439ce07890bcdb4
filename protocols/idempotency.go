package protocols

import (
	"context"
	"errors"
)

type IdempotencyKeyResult struct {
	Success bool  `json:"success"`
	CartId  int64 `json:"cartId"`
}

type IdempotencyGateway interface {
	ReserveIdempotencyKey(ctx context.Context, idempotencyKey string) (*IdempotencyKeyResult, error)
	MarkFailure(ctx context.Context, idempotencyKey string) error
	MarkSuccess(ctx context.Context, idempotencyKey string, cartId int64) error
}

var ErrIdempotencyKeyInFlight = errors.New("idempotency key is already being processed")
