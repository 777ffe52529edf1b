package internal

import "sync"

// dirtySet collects identities needing forced re-evaluation on the next
// Update. Writers are cell setters and observable callbacks, which may run
// on arbitrary goroutines, so access is lock-protected.
type dirtySet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func (d *dirtySet) add(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ids == nil {
		d.ids = make(map[string]struct{})
	}
	d.ids[key] = struct{}{}
}

// drain removes and returns the current contents. Entries enqueued while
// the consuming Update is in flight land in the fresh map and survive to
// the next cycle.
func (d *dirtySet) drain() map[string]struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := d.ids
	d.ids = nil
	return ids
}
