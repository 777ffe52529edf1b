package internal

import "sync"

// Cell is one persistent state slot on a node. It outlives the per-cycle
// descriptions: rebuilding a description at the same identity hands back
// the existing cell with its current value instead of the initializer.
type Cell struct {
	mu    sync.Mutex
	value any

	system *System
	path   string
}

func (c *Cell) Read() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Write stores a new value and marks the owning identity dirty, forcing
// the node's body through re-evaluation on the next Update. Safe to call
// from outside a cycle (e.g. an input event handler).
func (c *Cell) Write(v any) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()

	c.system.Invalidate(c.path)
}
