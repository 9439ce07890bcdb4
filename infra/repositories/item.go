package repositories

import (
	"github.com/giovaniif/cart/domain/errs"
	"github.com/giovaniif/cart/domain/item"
)

// ItemRepositoryMemory is the catalog. It is built once and never mutated
// afterwards, so concurrent readers need no locking.
type ItemRepositoryMemory struct {
	items map[int64]*item.Item
	order []int64
}

// NewItemRepositoryMemory assigns ids 1..n in seed order.
func NewItemRepositoryMemory(seed []item.Seed) *ItemRepositoryMemory {
	items := make([]item.Item, 0, len(seed))
	for i, s := range seed {
		items = append(items, item.Item{Id: int64(i + 1), Description: s.Description, Stock: s.Stock})
	}
	return NewItemRepositoryFromItems(items)
}

// NewItemRepositoryFromItems keeps the given ids. A later duplicate id
// replaces the earlier entry but keeps its position.
func NewItemRepositoryFromItems(items []item.Item) *ItemRepositoryMemory {
	r := &ItemRepositoryMemory{
		items: make(map[int64]*item.Item, len(items)),
		order: make([]int64, 0, len(items)),
	}
	for _, it := range items {
		it := it
		if _, exists := r.items[it.Id]; !exists {
			r.order = append(r.order, it.Id)
		}
		r.items[it.Id] = &it
	}
	return r
}

func (r *ItemRepositoryMemory) GetItem(itemId int64) (*item.Item, error) {
	repositoryItem, ok := r.items[itemId]
	if !ok {
		return nil, errs.ItemNotFound(itemId)
	}
	copied := *repositoryItem
	return &copied, nil
}

func (r *ItemRepositoryMemory) ListAvailable() []item.Item {
	available := make([]item.Item, 0, len(r.order))
	for _, id := range r.order {
		it := r.items[id]
		if it.IsAvailable() {
			available = append(available, *it)
		}
	}
	return available
}
