package sweep

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/giovaniif/cart/domain/cart"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockCartRepository struct {
	cart.Repository

	mu             sync.Mutex
	evictResult    []int64
	evictErr       error
	evictCalls     int
	evictNow       time.Time
	evictThreshold time.Duration
}

func (m *mockCartRepository) EvictIdle(ctx context.Context, now time.Time, threshold time.Duration) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictCalls++
	m.evictNow = now
	m.evictThreshold = threshold
	return m.evictResult, m.evictErr
}

func (m *mockCartRepository) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictCalls
}

type mockEventPublisher struct {
	mu        sync.Mutex
	published []cart.Event
}

func (m *mockEventPublisher) Publish(ctx context.Context, event cart.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestSweep_PublishesAndLogsEvicted(t *testing.T) {
	repo := &mockCartRepository{evictResult: []int64{2, 5}}
	publisher := &mockEventPublisher{}
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewSweeper(repo, publisher, fixedClock{now}, 10*time.Minute, zap.New(core))

	evicted, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(evicted) != 2 {
		t.Fatalf("expected 2 evicted carts, got %v", evicted)
	}
	if !repo.evictNow.Equal(now) || repo.evictThreshold != 10*time.Minute {
		t.Fatalf("expected EvictIdle(%v, 10m), got (%v, %v)", now, repo.evictNow, repo.evictThreshold)
	}
	if len(publisher.published) != 2 || publisher.published[1].Type != cart.EventExpired || publisher.published[1].CartId != 5 {
		t.Fatalf("unexpected events: %+v", publisher.published)
	}
	if n := logs.FilterMessage("cart expired").Len(); n != 2 {
		t.Fatalf("expected 2 expiry log lines, got %d", n)
	}
}

func TestSweep_Error(t *testing.T) {
	repo := &mockCartRepository{evictErr: errors.New("boom")}
	publisher := &mockEventPublisher{}
	s := NewSweeper(repo, publisher, fixedClock{now}, time.Minute, zap.NewNop())

	if _, err := s.Sweep(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if len(publisher.published) != 0 {
		t.Fatalf("expected no events, got %+v", publisher.published)
	}
}

func TestRun_SweepsUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &mockCartRepository{}
	s := NewSweeper(repo, &mockEventPublisher{}, fixedClock{now}, time.Minute, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for repo.calls() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 2 sweeps, got %d", repo.calls())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
