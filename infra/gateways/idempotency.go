package gateways

import (
	"context"
	"sync"
	"time"

	protocols "github.com/giovaniif/cart/protocols"
)

const (
	statusProcessing = "processing"
	statusSuccess    = "success"
)

// IdempotencyGatewayMemory keeps keys for idempotencyTTL, like the Redis
// gateway. Expired keys are dropped by a scan that runs at most once per
// pruneEvery.
type IdempotencyGatewayMemory struct {
	mutex           sync.RWMutex
	idempotencyKeys map[string]*IdempotencyState
	clock           protocols.Clock
	lastPrune       time.Time
}

type IdempotencyState struct {
	Status    string
	Result    *protocols.IdempotencyKeyResult
	ExpiresAt time.Time
}

const pruneEvery = time.Minute

func NewIdempotencyGatewayMemory(clock protocols.Clock) *IdempotencyGatewayMemory {
	return &IdempotencyGatewayMemory{
		idempotencyKeys: make(map[string]*IdempotencyState),
		clock:           clock,
	}
}

func (g *IdempotencyGatewayMemory) ReserveIdempotencyKey(ctx context.Context, idempotencyKey string) (*protocols.IdempotencyKeyResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	now := g.clock.Now()

	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.pruneLocked(now)

	state, exists := g.idempotencyKeys[idempotencyKey]
	if exists && now.Before(state.ExpiresAt) {
		if state.Status == statusSuccess {
			return state.Result, nil
		}

		if state.Status == statusProcessing {
			return nil, protocols.ErrIdempotencyKeyInFlight
		}
	}

	g.idempotencyKeys[idempotencyKey] = &IdempotencyState{
		Status:    statusProcessing,
		ExpiresAt: now.Add(idempotencyTTL),
	}
	return nil, nil
}

func (g *IdempotencyGatewayMemory) pruneLocked(now time.Time) {
	if now.Sub(g.lastPrune) < pruneEvery {
		return
	}
	g.lastPrune = now
	for key, state := range g.idempotencyKeys {
		if !now.Before(state.ExpiresAt) {
			delete(g.idempotencyKeys, key)
		}
	}
}

func (g *IdempotencyGatewayMemory) MarkFailure(ctx context.Context, idempotencyKey string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	delete(g.idempotencyKeys, idempotencyKey)
	return nil
}

func (g *IdempotencyGatewayMemory) MarkSuccess(ctx context.Context, idempotencyKey string, cartId int64) error {
	now := g.clock.Now()

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if state, exists := g.idempotencyKeys[idempotencyKey]; exists {
		state.Status = statusSuccess
		state.Result = &protocols.IdempotencyKeyResult{
			Success: true,
			CartId:  cartId,
		}
		state.ExpiresAt = now.Add(idempotencyTTL)
	}

	return nil
}
