package sweep

import (
	"context"
	"time"

	"github.com/giovaniif/cart/domain/cart"
	protocols "github.com/giovaniif/cart/protocols"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const tracerName = "cart"

// Sweeper purges carts that saw no activity for at least threshold.
type Sweeper struct {
	cartRepository cart.Repository
	eventPublisher protocols.EventPublisher
	clock          protocols.Clock
	threshold      time.Duration
	logger         *zap.Logger
}

func NewSweeper(cartRepository cart.Repository, eventPublisher protocols.EventPublisher, clock protocols.Clock, threshold time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		cartRepository: cartRepository,
		eventPublisher: eventPublisher,
		clock:          clock,
		threshold:      threshold,
		logger:         logger,
	}
}

// Sweep runs one eviction pass and returns the removed cart ids.
func (s *Sweeper) Sweep(ctx context.Context) ([]int64, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "cart.sweep")
	defer span.End()

	now := s.clock.Now()
	evicted, err := s.cartRepository.EvictIdle(ctx, now, s.threshold)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("cart.evicted", len(evicted)))

	for _, cartId := range evicted {
		s.logger.Info("cart expired", zap.Int64("cart_id", cartId), zap.Duration("threshold", s.threshold))
		event := cart.Event{Type: cart.EventExpired, CartId: cartId, OccurredAt: now}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish cart event", zap.Int64("cart_id", cartId), zap.Error(err))
		}
	}
	return evicted, nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("sweep failed", zap.Error(err))
			}
		}
	}
}
