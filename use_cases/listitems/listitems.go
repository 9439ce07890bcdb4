package listitems

import (
	"github.com/giovaniif/cart/domain/item"
)

type ListItems struct {
	catalog item.Catalog
}

func NewListItems(catalog item.Catalog) *ListItems {
	return &ListItems{
		catalog: catalog,
	}
}

// ListItems returns the items that still have stock, in catalog order.
func (l *ListItems) ListItems() []item.Item {
	return l.catalog.ListAvailable()
}
