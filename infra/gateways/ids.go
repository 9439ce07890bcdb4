package gateways

import "sync/atomic"

// SequenceGenerator hands out strictly increasing cart ids starting after start.
type SequenceGenerator struct {
	last atomic.Int64
}

func NewSequenceGenerator(start int64) *SequenceGenerator {
	g := &SequenceGenerator{}
	g.last.Store(start)
	return g
}

func (g *SequenceGenerator) NextId() int64 {
	return g.last.Add(1)
}
