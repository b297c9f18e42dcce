package db

import "sync"

// Gate serializes mutating operations against the inventory store. Concurrent
// read-check-write sequences (two productions deducting overlapping
// components) must not interleave; a single process-wide lock around each
// mutation is the correctness bar at this scale.
type Gate struct {
	mu sync.Mutex
}

// Do runs fn while holding the gate.
func (g *Gate) Do(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}
