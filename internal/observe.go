package internal

import "sync"

// Observable is an external mutable object the runtime can subscribe to.
// AddObserver registers a change callback and returns its remove func.
// Callbacks may fire from any goroutine; the runtime's observer only
// enqueues into the dirty set, it never touches the node table.
type Observable interface {
	AddObserver(fn func()) (remove func())
}

// Notifier is a ready-made Observable for embedding into external model
// objects. Call Notify after mutating the object.
type Notifier struct {
	mu        sync.Mutex
	next      int
	observers map[int]func()
}

func (n *Notifier) AddObserver(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.observers == nil {
		n.observers = make(map[int]func())
	}

	id := n.next
	n.next++
	n.observers[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.observers, id)
	}
}

// Notify invokes every registered observer. Observers are snapshotted
// under the lock to avoid mutation during iteration.
func (n *Notifier) Notify() {
	n.mu.Lock()
	observers := make([]func(), 0, len(n.observers))
	for _, fn := range n.observers {
		observers = append(observers, fn)
	}
	n.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}
