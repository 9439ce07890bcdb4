package deletecart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/giovaniif/cart/domain/cart"
	"github.com/giovaniif/cart/domain/errs"
	"go.uber.org/zap"
)

type mockCartRepository struct {
	cart.Repository

	deleteErr          error
	deleteCalledWithId int64
}

func (m *mockCartRepository) Delete(ctx context.Context, cartId int64) error {
	m.deleteCalledWithId = cartId
	return m.deleteErr
}

type mockEventPublisher struct {
	published []cart.Event
}

func (m *mockEventPublisher) Publish(ctx context.Context, event cart.Event) error {
	m.published = append(m.published, event)
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestDeleteCart_Success(t *testing.T) {
	repo := &mockCartRepository{}
	publisher := &mockEventPublisher{}
	uc := NewDeleteCart(repo, publisher, fixedClock{time.Now()}, zap.NewNop())

	if err := uc.DeleteCart(context.Background(), 8); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if repo.deleteCalledWithId != 8 {
		t.Fatalf("expected Delete called with 8, got %d", repo.deleteCalledWithId)
	}
	if len(publisher.published) != 1 || publisher.published[0].Type != cart.EventDeleted || publisher.published[0].CartId != 8 {
		t.Fatalf("expected one deleted event for cart 8, got %+v", publisher.published)
	}
}

func TestDeleteCart_NotFound(t *testing.T) {
	repo := &mockCartRepository{deleteErr: errs.CartNotFound(8)}
	publisher := &mockEventPublisher{}
	uc := NewDeleteCart(repo, publisher, fixedClock{time.Now()}, zap.NewNop())

	err := uc.DeleteCart(context.Background(), 8)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(publisher.published) != 0 {
		t.Fatalf("expected no events, got %+v", publisher.published)
	}
}
