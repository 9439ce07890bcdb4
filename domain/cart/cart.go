package cart

import "time"

type Line struct {
	ItemId      int64
	Description string
	Amount      int32
}

type Cart struct {
	Id          int64
	Lines       map[int64]Line
	LastUpdated time.Time
}

func New(id int64, now time.Time) *Cart {
	return &Cart{
		Id:          id,
		Lines:       make(map[int64]Line),
		LastUpdated: now,
	}
}

// ApplyLine stores line keyed by its item. A zero amount removes the line
// instead; removing an absent line is a no-op.
func (c *Cart) ApplyLine(line Line) {
	if line.Amount == 0 {
		delete(c.Lines, line.ItemId)
		return
	}
	c.Lines[line.ItemId] = line
}

// Touch refreshes the last activity. It never moves the timestamp backwards.
func (c *Cart) Touch(now time.Time) {
	if now.After(c.LastUpdated) {
		c.LastUpdated = now
	}
}

func (c *Cart) IdleFor(now time.Time) time.Duration {
	return now.Sub(c.LastUpdated)
}

// IsIdle uses an inclusive boundary: a cart idle for exactly threshold is idle.
func (c *Cart) IsIdle(now time.Time, threshold time.Duration) bool {
	return c.IdleFor(now) >= threshold
}

func (c *Cart) Clone() *Cart {
	lines := make(map[int64]Line, len(c.Lines))
	for id, line := range c.Lines {
		lines[id] = line
	}
	return &Cart{
		Id:          c.Id,
		Lines:       lines,
		LastUpdated: c.LastUpdated,
	}
}
