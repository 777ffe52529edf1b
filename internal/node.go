package internal

// Node is the persistent, mutable unit of identity. It survives across
// cycles for as long as its Identity keeps appearing in the description
// tree, and carries everything that must outlive a single cycle: state
// cells, the environment layer, subscriptions and the needs-setup flag.
//
// Nodes are owned exclusively by their System. Children are referenced by
// identity through the System's table, never by direct pointers, so tree
// navigation can't create ownership cycles.
type Node struct {
	id  Identity
	key string // cached id.String(), the table key

	// element is the outermost description cached for diffing; chain is
	// the resolved composite chain down to terminal (chain[0] == element).
	element  Element
	chain    []Element
	terminal Element

	// env is the node-owned environment layer. Hook writes land here and
	// stay visible to descendants, whose layers link through this one.
	env *Env

	children []Identity

	// states is the cell table, keyed by declaration order across the
	// node's body chain.
	states []*Cell

	// subs maps each observed dependency to its cancel func.
	subs map[Observable]func()

	needsSetup bool

	// cycle is the last Update traversal that visited this node,
	// surfaced through the snapshot for staleness debugging.
	cycle uint64

	system *System
}

func newNode(s *System, id Identity) *Node {
	return &Node{
		id:     id,
		key:    id.String(),
		system: s,
	}
}

func (n *Node) Identity() Identity { return n.id }

// Element returns the most recent description this node wraps.
func (n *Node) Element() Element { return n.element }

// NeedsSetup reports whether the node is flagged for the setup phase.
func (n *Node) NeedsSetup() bool { return n.needsSetup }

// Children resolves the ordered child identities through the owning
// System's table. Identities with no live node are skipped.
func (n *Node) Children() []*Node {
	children := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		if child, ok := n.system.nodes[id.String()]; ok {
			children = append(children, child)
		}
	}
	return children
}

// Environment returns the node's environment snapshot: its own layer over
// everything inherited from ancestors.
func (n *Node) Environment() *Env {
	return n.env
}

// SetEnv stashes a value into the node's own layer, visible to this node
// and all descendants. Typically called from SetupEnter to publish derived
// configuration for the subtree.
func (n *Node) SetEnv(name string, value any) {
	if n.env == nil {
		n.env = NewEnv(nil)
	}
	n.env.Set(name, value)
}

// LookupEnv resolves a key name through the node's environment chain.
func (n *Node) LookupEnv(name string) (any, bool) {
	if n.env == nil {
		return nil, false
	}
	return n.env.Lookup(name)
}

// Path returns the canonical string form of the node's identity.
func (n *Node) Path() string { return n.key }

// StateCells reports the number of live state cells.
func (n *Node) StateCells() int { return len(n.states) }

// destroy releases everything the node owns. No teardown hook runs here:
// a leaf needing teardown has already seen its workload/setup exit during
// the last cycle its description existed.
func (n *Node) destroy() {
	for _, cancel := range n.subs {
		cancel()
	}
	n.subs = nil
	n.states = nil
	n.children = nil
	n.chain = nil
	n.terminal = nil
	n.element = nil
	n.env = nil
}
