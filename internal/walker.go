package internal

// walker performs one Update traversal. All effects on reused nodes are
// staged and applied in commit, so a failing body aborts the whole Update
// and leaves the previous cycle's table as the last known-good state. The
// only in-place growth during the walk (new state cells, new
// subscriptions) is recorded per node and undone in rollback.
type walker struct {
	system *System

	// dirty is the snapshot drained from the system at Update start.
	dirty map[string]struct{}

	visited map[string]*stagedNode
	order   []*stagedNode

	created int
	reused  int
}

type stagedNode struct {
	node    *Node
	created bool

	element    Element
	chain      []Element
	terminal   Element
	env        *Env
	children   []Identity
	needsSetup bool

	// rollback bookkeeping
	baseStates int
	newSubs    []Observable
	envOuter   *Env
	rebased    bool
}

func newWalker(s *System, dirty map[string]struct{}) *walker {
	return &walker{
		system:  s,
		dirty:   dirty,
		visited: make(map[string]*stagedNode),
	}
}

// walk reconciles one identity. elem is the freshly supplied description,
// or nil when revisiting a persisted subtree whose parent skipped body
// re-evaluation.
func (w *walker) walk(elem Element, id Identity, inherited *Env) error {
	elem = unwrapKeys(elem)

	key := id.String()
	if _, dup := w.visited[key]; dup {
		return AmbiguousBindingError(key, "identity matched more than one sibling description")
	}

	prev, existed := w.system.nodes[key]
	persisted := elem == nil
	if persisted {
		if !existed {
			return nil
		}
		elem = prev.element
	}

	var node *Node
	created := !existed
	if existed {
		node = prev
	} else {
		node = newNode(w.system, id)
	}

	staged := &stagedNode{
		node:       node,
		created:    created,
		element:    elem,
		baseStates: len(node.states),
	}
	w.visited[key] = staged
	w.order = append(w.order, staged)
	if created {
		w.created++
	} else {
		w.reused++
	}

	changed := !persisted && !created && !elementsEqual(elem, node.element)
	_, isDirty := w.dirty[key]

	switch {
	case created:
		staged.needsSetup = true
	default:
		staged.needsSetup = node.needsSetup || isDirty ||
			elementRequiresSetup(elem, node.element, changed)
	}

	if created || isDirty || changed {
		return w.resolve(staged, inherited)
	}
	return w.revisit(staged, inherited)
}

// resolve re-evaluates the node's composite chain: body after body until
// the first non-composite element, applying environment modifiers along
// the way, then reconciles whatever children the terminal exposes.
func (w *walker) resolve(staged *stagedNode, inherited *Env) error {
	node := staged.node
	env := inherited

	ctx := &BuildContext{walker: w, staged: staged}

	cur := staged.element
	var chain []Element
	for {
		chain = append(chain, cur)

		if em, ok := cur.(EnvironmentModifying); ok {
			env = em.ModifyEnvironment(env)
		}

		comp, ok := cur.(Composite)
		if !ok {
			break
		}

		ctx.env = env
		next, err := comp.Body(ctx)
		if err != nil {
			return buildError(node.id, err)
		}
		if next == nil {
			break
		}
		cur = unwrapKeys(next)
	}

	staged.chain = chain
	staged.terminal = cur

	// the node-owned layer survives reuse so values stashed by an earlier
	// setup stay visible even when setup doesn't re-run this cycle. The
	// old inherited chain is kept for rollback: until commit, the table
	// still owns the previous cycle's snapshot.
	if !staged.created && node.env != nil {
		staged.envOuter = node.env.outer
		staged.rebased = true
		staged.env = node.env.rebase(env)
	} else {
		staged.env = NewEnv(env)
	}

	cv, ok := cur.(ChildVisiting)
	if !ok {
		return nil
	}

	pos := 0
	var children []Identity
	err := cv.VisitChildren(func(child Element) error {
		if child == nil {
			return nil
		}

		atom := IndexAtom(pos)
		pos++
		if k, ok := child.(KeyedElement); ok {
			atom = KeyAtom(k.Key)
		}

		cid := node.id.Child(atom)
		if err := w.walk(child, cid, staged.env); err != nil {
			return err
		}
		children = append(children, cid)
		return nil
	})
	if err != nil {
		if _, ok := AsError(err); ok {
			return err
		}
		return buildError(node.id, err)
	}

	staged.children = children
	return nil
}

// revisit handles the memoized path: the description didn't change and the
// node isn't dirty, so no body runs. The persisted children still get
// walked (a descendant may be dirty on its own) and the environment chain
// is relinked in case an ancestor's values changed.
func (w *walker) revisit(staged *stagedNode, inherited *Env) error {
	node := staged.node

	env := inherited
	for _, link := range node.chain {
		if em, ok := link.(EnvironmentModifying); ok {
			env = em.ModifyEnvironment(env)
		}
	}

	staged.chain = node.chain
	staged.terminal = node.terminal
	if node.env != nil {
		staged.envOuter = node.env.outer
		staged.rebased = true
	}
	staged.env = node.env.rebase(env)
	staged.children = node.children

	for _, cid := range node.children {
		if err := w.walk(nil, cid, staged.env); err != nil {
			return err
		}
	}
	return nil
}

// commit applies every staged node and sweeps the table: any node the
// traversal didn't visit has disappeared from the description tree and is
// destroyed. Returns the number of destroyed nodes.
func (w *walker) commit() int {
	s := w.system

	for _, staged := range w.order {
		n := staged.node
		n.element = staged.element
		n.chain = staged.chain
		n.terminal = staged.terminal
		n.env = staged.env
		n.children = staged.children
		n.needsSetup = staged.needsSetup
		n.cycle = s.cycle
		if staged.created {
			s.nodes[n.key] = n
		}
	}

	destroyed := 0
	for key, n := range s.nodes {
		if _, ok := w.visited[key]; !ok {
			n.destroy()
			delete(s.nodes, key)
			destroyed++
		}
	}
	return destroyed
}

// rollback undoes the walk's in-place mutations. Created nodes were never
// in the table and are simply dropped; reused nodes give back cells and
// subscriptions gained during the aborted traversal, and their node-owned
// environment layer is relinked to the previous cycle's inherited chain so
// lookups never resolve into the tree that failed to commit.
func (w *walker) rollback() {
	for _, staged := range w.order {
		n := staged.node
		n.states = n.states[:staged.baseStates]
		for _, obj := range staged.newSubs {
			if cancel, ok := n.subs[obj]; ok {
				cancel()
				delete(n.subs, obj)
			}
		}
		if staged.rebased {
			n.env.outer = staged.envOuter
		}
	}
}

func unwrapKeys(elem Element) Element {
	for {
		k, ok := elem.(KeyedElement)
		if !ok {
			return elem
		}
		elem = k.Child
	}
}
