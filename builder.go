package sprockets

import "github.com/schwa/sprockets/internal"

// groupElement is the ordered-list description: an inert leaf exposing
// its children directly.
type groupElement struct {
	children []Element
}

func (g groupElement) VisitChildren(visit func(child Element) error) error {
	for _, child := range g.children {
		if child == nil {
			continue
		}
		if err := visit(child); err != nil {
			return err
		}
	}
	return nil
}

// Group composes ordered children. Each child adds a positional path
// segment (or a keyed one when wrapped with Keyed); nil children are
// dropped at construction, so prefer If over passing nil to keep sibling
// positions stable.
func Group(children ...Element) Element {
	kept := make([]Element, 0, len(children))
	for _, child := range children {
		if child != nil {
			kept = append(kept, child)
		}
	}
	return groupElement{children: kept}
}

// Keyed overrides the positional Atom of child with an explicit key. The
// key must be comparable and render stably; a node addressed by key keeps
// its identity — and its state — through sibling reorders.
func Keyed(key any, child Element) Element {
	return internal.KeyedElement{Key: key, Child: child}
}

// ForEach builds one keyed child per item. A nil key func falls back to
// positional identity, with the usual consequence that reordering items
// resets the children's state.
func ForEach[S ~[]E, E any](items S, key func(E) any, build func(E) Element) Element {
	children := make([]Element, 0, len(items))
	for _, item := range items {
		child := build(item)
		if child == nil {
			continue
		}
		if key != nil {
			child = Keyed(key(item), child)
		}
		children = append(children, child)
	}
	return groupElement{children: children}
}

// emptyElement occupies a sibling position without contributing any
// behavior, keeping positional identities of later siblings stable while
// a branch is switched off.
type emptyElement struct{}

// Empty returns the inert placeholder element.
func Empty() Element {
	return emptyElement{}
}

// If returns child when cond holds, and the placeholder otherwise.
func If(cond bool, child Element) Element {
	if cond {
		return child
	}
	return emptyElement{}
}

// IfElse picks between two children. Both occupy the same position, so
// toggling cond swaps the description under one identity and flags the
// node for setup.
func IfElse(cond bool, then, otherwise Element) Element {
	if cond {
		return then
	}
	return otherwise
}

// funcElement adapts a closure into a composite. Closures can't be
// compared, so a funcElement never equals its previous instance and its
// body re-evaluates every cycle; define a named element type when
// memoization matters.
type funcElement struct {
	body func(ctx *BuildContext) (Element, error)
}

func (f funcElement) Body(ctx *BuildContext) (Element, error) {
	return f.body(ctx)
}

func (f funcElement) EqualElement(other Element) bool {
	return false
}

// Func wraps a closure as a composite element.
func Func(body func(ctx *BuildContext) (Element, error)) Element {
	return funcElement{body: body}
}
