package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/giovaniif/cart/domain/cart"
	"github.com/giovaniif/cart/domain/errs"
	protocols "github.com/giovaniif/cart/protocols"
)

// cartEntry guards one stored cart. removed is set under mu by Delete and
// EvictIdle so that a writer that already holds the entry cannot bring the
// cart back after it left the map.
type cartEntry struct {
	mu      sync.RWMutex
	cart    *cart.Cart
	removed bool
}

// CartRepositoryMemory keeps carts in process memory. The map lock is only
// held to insert, look up or remove entries; mutations of a single cart are
// serialized by that cart's own lock, so unrelated carts never wait on
// each other.
type CartRepositoryMemory struct {
	mutex sync.RWMutex
	carts map[int64]*cartEntry
	ids   protocols.IdGenerator
	clock protocols.Clock
}

func NewCartRepositoryMemory(ids protocols.IdGenerator, clock protocols.Clock) *CartRepositoryMemory {
	return &CartRepositoryMemory{
		carts: make(map[int64]*cartEntry),
		ids:   ids,
		clock: clock,
	}
}

func (r *CartRepositoryMemory) Create(ctx context.Context) (*cart.Cart, error) {
	created := cart.New(r.ids.NextId(), r.clock.Now())

	r.mutex.Lock()
	r.carts[created.Id] = &cartEntry{cart: created}
	r.mutex.Unlock()

	return created.Clone(), nil
}

func (r *CartRepositoryMemory) lookup(cartId int64) (*cartEntry, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	entry, ok := r.carts[cartId]
	return entry, ok
}

func (r *CartRepositoryMemory) Get(ctx context.Context, cartId int64) (*cart.Cart, error) {
	entry, ok := r.lookup(cartId)
	if !ok {
		return nil, errs.CartNotFound(cartId)
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()
	if entry.removed {
		return nil, errs.CartNotFound(cartId)
	}
	return entry.cart.Clone(), nil
}

func (r *CartRepositoryMemory) Save(ctx context.Context, c *cart.Cart) (*cart.Cart, error) {
	stored := c.Clone()
	if entry, ok := r.lookup(c.Id); ok {
		entry.mu.Lock()
		if !entry.removed {
			entry.cart = stored
			entry.mu.Unlock()
			return stored.Clone(), nil
		}
		entry.mu.Unlock()
	}

	r.mutex.Lock()
	r.carts[c.Id] = &cartEntry{cart: stored}
	r.mutex.Unlock()
	return stored.Clone(), nil
}

func (r *CartRepositoryMemory) Update(ctx context.Context, cartId int64, fn cart.MutateFunc) (*cart.Cart, error) {
	entry, ok := r.lookup(cartId)
	if !ok {
		return nil, errs.CartNotFound(cartId)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.removed {
		return nil, errs.CartNotFound(cartId)
	}

	working := entry.cart.Clone()
	err := fn(working)
	entry.cart = working
	return working.Clone(), err
}

func (r *CartRepositoryMemory) Delete(ctx context.Context, cartId int64) error {
	entry, ok := r.lookup(cartId)
	if !ok {
		return errs.CartNotFound(cartId)
	}
	entry.mu.Lock()
	if entry.removed {
		entry.mu.Unlock()
		return errs.CartNotFound(cartId)
	}
	entry.removed = true
	entry.mu.Unlock()

	r.mutex.Lock()
	if r.carts[cartId] == entry {
		delete(r.carts, cartId)
	}
	r.mutex.Unlock()
	return nil
}

// EvictIdle removes carts idle for at least threshold and returns their ids
// in ascending order. A cart being mutated is waited for, so an update that
// refreshes its activity keeps it.
func (r *CartRepositoryMemory) EvictIdle(ctx context.Context, now time.Time, threshold time.Duration) ([]int64, error) {
	r.mutex.RLock()
	entries := make(map[int64]*cartEntry, len(r.carts))
	for id, entry := range r.carts {
		entries[id] = entry
	}
	r.mutex.RUnlock()

	var evicted []int64
	for id, entry := range entries {
		entry.mu.Lock()
		if !entry.removed && entry.cart.IsIdle(now, threshold) {
			entry.removed = true
			evicted = append(evicted, id)
		} else {
			delete(entries, id)
		}
		entry.mu.Unlock()
	}
	if len(evicted) == 0 {
		return nil, nil
	}

	r.mutex.Lock()
	for id, entry := range entries {
		if r.carts[id] == entry {
			delete(r.carts, id)
		}
	}
	r.mutex.Unlock()

	sort.Slice(evicted, func(i, j int) bool { return evicted[i] < evicted[j] })
	return evicted, nil
}

func (r *CartRepositoryMemory) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.carts)
}
