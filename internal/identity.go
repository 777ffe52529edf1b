package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// Atom is one segment of a structural identity: either a positional index
// among siblings or an explicit key assigned through the Keyed wrapper.
type Atom struct {
	index int
	key   any // non-nil means explicit key
}

func IndexAtom(i int) Atom {
	return Atom{index: i}
}

func KeyAtom(key any) Atom {
	return Atom{key: key}
}

// Explicit reports whether the atom is an explicit key rather than a
// sibling position.
func (a Atom) Explicit() bool {
	return a.key != nil
}

func (a Atom) Equal(b Atom) bool {
	if a.Explicit() || b.Explicit() {
		return a.key == b.key
	}
	return a.index == b.index
}

func (a Atom) String() string {
	if a.Explicit() {
		// the type is part of the rendering so 1 and "1" don't collide
		return fmt.Sprintf("k(%T:%v)", a.key, a.key)
	}
	return strconv.Itoa(a.index)
}

// Identity is the path of Atoms addressing one node from the root.
// Two identities are equal iff their Atom sequences are equal; the
// canonical string form keys the System's node table.
type Identity []Atom

func RootIdentity() Identity {
	return Identity{}
}

// Child returns a new identity extended by one Atom. The backing array is
// never shared with the receiver so sibling identities can't alias.
func (id Identity) Child(a Atom) Identity {
	child := make(Identity, len(id)+1)
	copy(child, id)
	child[len(id)] = a
	return child
}

func (id Identity) Equal(other Identity) bool {
	if len(id) != len(other) {
		return false
	}
	for i := range id {
		if !id[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (id Identity) String() string {
	if len(id) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, a := range id {
		b.WriteByte('/')
		b.WriteString(a.String())
	}
	return b.String()
}
