package console

import "sync/atomic"

// generationGuard hands out monotonically increasing ids, one per fan-out
// batch. Every chunk or completion arriving from a translation stream is
// checked against the latest id before it may touch shared state; anything
// stale is dropped silently. This is the sole mechanism suppressing results
// from superseded generations.
type generationGuard struct {
	current atomic.Uint64
}

// begin issues the next generation id and makes it the latest.
func (g *generationGuard) begin() uint64 {
	return g.current.Add(1)
}

// isCurrent reports whether id is still the latest issued.
func (g *generationGuard) isCurrent(id uint64) bool {
	return g.current.Load() == id
}
