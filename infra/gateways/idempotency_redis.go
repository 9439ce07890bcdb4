package gateways

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	protocols "github.com/giovaniif/cart/protocols"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "idempotency:cart:create:"
	idempotencyTTL       = 24 * time.Hour
)

type redisIdempotencyState struct {
	Status string                          `json:"status"`
	Result *protocols.IdempotencyKeyResult `json:"result,omitempty"`
}

type IdempotencyGatewayRedis struct {
	client redis.UniversalClient
}

func NewIdempotencyGatewayRedis(client redis.UniversalClient) *IdempotencyGatewayRedis {
	return &IdempotencyGatewayRedis{client: client}
}

func (g *IdempotencyGatewayRedis) key(idempotencyKey string) string {
	return idempotencyKeyPrefix + idempotencyKey
}

func (g *IdempotencyGatewayRedis) ReserveIdempotencyKey(ctx context.Context, idempotencyKey string) (*protocols.IdempotencyKeyResult, error) {
	k := g.key(idempotencyKey)

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		data, err := g.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			raw, _ := json.Marshal(redisIdempotencyState{Status: statusProcessing})
			_, err := g.client.SetArgs(ctx, k, raw, redis.SetArgs{Mode: "NX", TTL: idempotencyTTL}).Result()
			if errors.Is(err, redis.Nil) {
				// lost the race to another request, read its state
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("redis set: %w", err)
			}
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("redis get: %w", err)
		}

		var state redisIdempotencyState
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("redis unmarshal: %w", err)
		}

		switch state.Status {
		case statusSuccess:
			return state.Result, nil
		case statusProcessing:
			return nil, protocols.ErrIdempotencyKeyInFlight
		default:
			raw, _ := json.Marshal(redisIdempotencyState{Status: statusProcessing})
			if err := g.client.Set(ctx, k, raw, idempotencyTTL).Err(); err != nil {
				return nil, fmt.Errorf("redis set: %w", err)
			}
			return nil, nil
		}
	}
}

func (g *IdempotencyGatewayRedis) MarkFailure(ctx context.Context, idempotencyKey string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return g.client.Del(ctx, g.key(idempotencyKey)).Err()
}

func (g *IdempotencyGatewayRedis) MarkSuccess(ctx context.Context, idempotencyKey string, cartId int64) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	raw, err := json.Marshal(redisIdempotencyState{
		Status: statusSuccess,
		Result: &protocols.IdempotencyKeyResult{Success: true, CartId: cartId},
	})
	if err != nil {
		return err
	}
	return g.client.Set(ctx, g.key(idempotencyKey), raw, idempotencyTTL).Err()
}
