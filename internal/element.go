package internal

import "reflect"

// Element is an immutable description of desired structure for one cycle.
// Concrete elements come in exactly two shapes: a Composite (carries a
// Body) or a bodyless leaf. Leaves opt into capabilities by implementing
// the optional interfaces below; a bare struct is a valid, inert leaf.
type Element any

// Composite is an element whose content is produced by a fallible Body.
// A composite does not add a path segment of its own: the chain of body
// results down to the first non-composite collapses into a single node.
type Composite interface {
	Body(ctx *BuildContext) (Element, error)
}

// SetupEntering is implemented by leaves that need one-time, expensive
// initialization. SetupEnter runs before any child's setup (pre-order) so
// results stashed into the node's environment are visible below.
type SetupEntering interface {
	SetupEnter(n *Node) error
}

// SetupExiting runs after all children finished their setup (post-order).
type SetupExiting interface {
	SetupExit(n *Node) error
}

// WorkloadEntering is implemented by leaves with per-cycle side effects.
// Enter/exit pairs are strictly nested along the tree structure.
type WorkloadEntering interface {
	WorkloadEnter(n *Node) error
}

// WorkloadExiting closes whatever WorkloadEnter opened.
type WorkloadExiting interface {
	WorkloadExit(n *Node) error
}

// ChildVisiting is implemented by leaves that wrap content of their own,
// e.g. a scope-opening element. Each visited child adds a path segment.
type ChildVisiting interface {
	VisitChildren(visit func(child Element) error) error
}

// EnvironmentModifying elements write values visible to their own node and
// all descendants. The returned layer must leave the input untouched.
type EnvironmentModifying interface {
	ModifyEnvironment(env *Env) *Env
}

// SetupComparable overrides the needs-setup predicate used during diff.
// When absent, a node needs setup whenever its description changed.
type SetupComparable interface {
	RequiresSetup(prev Element) bool
}

// Equatable overrides the default description comparison. Elements holding
// funcs or other DeepEqual-hostile fields implement this to stay memoized.
type Equatable interface {
	EqualElement(other Element) bool
}

// KeyedElement overrides the positional Atom of the child it wraps.
// Constructed through the root package's Keyed helper.
type KeyedElement struct {
	Key   any
	Child Element
}

func elementsEqual(a, b Element) bool {
	if eq, ok := a.(Equatable); ok {
		return eq.EqualElement(b)
	}
	if eq, ok := b.(Equatable); ok {
		return eq.EqualElement(a)
	}
	return reflect.DeepEqual(a, b)
}

func elementRequiresSetup(next, prev Element, changed bool) bool {
	if sc, ok := next.(SetupComparable); ok {
		return sc.RequiresSetup(prev)
	}
	return changed
}
