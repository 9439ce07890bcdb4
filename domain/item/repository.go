package item

type Catalog interface {
	GetItem(itemId int64) (*Item, error)
	ListAvailable() []Item
}
