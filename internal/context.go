package internal

// BuildContext is passed explicitly to every Body invocation. It resolves
// "which node and environment am I running under" without any ambient
// global: the context's lifetime is exactly one node's chain resolution
// within one Update.
type BuildContext struct {
	walker *walker
	staged *stagedNode

	// env tracks the environment at the current chain position, including
	// any layers written by enclosing environment-modifying elements.
	env *Env

	// slot is the state-cell declaration counter, advancing in body
	// invocation order across the node's whole composite chain.
	slot int
}

// Environment returns the environment visible to the body being built.
func (c *BuildContext) Environment() *Env {
	return c.env
}

// Path returns the canonical identity of the node being built.
func (c *BuildContext) Path() string {
	return c.staged.node.key
}

// System returns the system driving this build.
func (c *BuildContext) System() *System {
	return c.walker.system
}

// StateCell returns the cell at the next declaration slot, creating it
// with the given initial value the first time this identity is built. On
// every later build the existing cell is returned and initial is ignored.
func (c *BuildContext) StateCell(initial any) *Cell {
	n := c.staged.node
	slot := c.slot
	c.slot++

	if slot < len(n.states) {
		return n.states[slot]
	}

	cell := &Cell{
		value:  initial,
		system: c.walker.system,
		path:   n.key,
	}
	n.states = append(n.states, cell)
	return cell
}

// ObserveDependency subscribes the node being built to an external
// observable, once per (observable, node) pair. The subscription's only
// effect is marking this node dirty; it is cancelled when the node is
// destroyed.
func (c *BuildContext) ObserveDependency(obj Observable) {
	n := c.staged.node
	if n.subs == nil {
		n.subs = make(map[Observable]func())
	}
	if _, ok := n.subs[obj]; ok {
		return
	}

	s := c.walker.system
	key := n.key
	n.subs[obj] = obj.AddObserver(func() {
		s.Invalidate(key)
	})
	c.staged.newSubs = append(c.staged.newSubs, obj)
}
