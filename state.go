package sprockets

import "github.com/schwa/sprockets/internal"

// State is a typed handle on one persistent cell of the node being built.
// The handle is cheap to copy; every copy addresses the same cell.
type State[T any] struct {
	cell *internal.Cell
}

// StateOf declares a state cell on the node under construction. The first
// build at an identity creates the cell with initial; every later build
// returns the existing cell and ignores initial. Cells are matched by
// declaration order within the node's body chain, so StateOf calls must
// not move between builds of an unchanged description.
func StateOf[T any](ctx *BuildContext, initial T) State[T] {
	return State[T]{cell: ctx.StateCell(initial)}
}

// Get returns the cell's current value.
func (s State[T]) Get() T {
	return as[T](s.cell.Read())
}

// Set stores a new value and marks the owning node dirty, forcing its
// body through re-evaluation on the next Update. Safe to call from any
// goroutine.
func (s State[T]) Set(v T) {
	s.cell.Write(v)
}

// Bind exposes the cell as a two-way accessor pair for descendants.
// Bindings produced from the same cell compare Equal across cycles.
func (s State[T]) Bind() Binding[T] {
	return Binding[T]{
		get:    s.Get,
		set:    s.Set,
		source: s.cell,
	}
}

// Binding is a value-type pair of accessors letting a node expose
// read/write access to a value it owns. Equality is identity-based: two
// bindings are equal iff they share the same underlying accessor, never
// by comparing values.
//
// Bindings hold funcs, which defeats the default DeepEqual description
// comparison; elements carrying a Binding field should implement
// Equatable using Binding.Equal to stay memoized.
type Binding[T any] struct {
	get    func() T
	set    func(T)
	source any
}

// BindingOf builds a binding from custom accessors. Each call mints a
// fresh identity; two BindingOf results never compare Equal.
func BindingOf[T any](get func() T, set func(T)) Binding[T] {
	return Binding[T]{
		get:    get,
		set:    set,
		source: new(int),
	}
}

func (b Binding[T]) Get() T {
	return b.get()
}

func (b Binding[T]) Set(v T) {
	b.set(v)
}

// Equal reports whether both bindings wrap the same underlying accessor.
func (b Binding[T]) Equal(other Binding[T]) bool {
	return b.source != nil && b.source == other.source
}
