package item

type Item struct {
	Id          int64  `json:"id"`
	Description string `json:"description"`
	Stock       int32  `json:"stock"`
}

func (i *Item) IsAvailable() bool {
	return i.Stock > 0
}

// CanFulfil reports whether amount fits under the current stock ceiling.
// Stock is never decremented by carts.
func (i *Item) CanFulfil(amount int32) bool {
	return i.Stock >= amount
}

type Seed struct {
	Description string
	Stock       int32
}

// DefaultSeed is the synthetic catalog the service boots with when no
// database is configured: ten fruits, the n-th one with n*100 units.
func DefaultSeed() []Seed {
	names := []string{"Apple", "Banana", "Orange", "Mango", "Pineapple",
		"Watermelon", "Papaya", "Peach", "Kiwi", "Avocado"}
	seed := make([]Seed, 0, len(names))
	for i, name := range names {
		seed = append(seed, Seed{Description: name, Stock: int32(i+1) * 100})
	}
	return seed
}
