// Package sprockets is a declarative tree-reconciliation runtime: it turns
// an immutable description tree, rebuilt wholesale every cycle, into a
// persistent node graph with stable identity, and drives a three-phase
// lifecycle over that graph.
//
// A driver builds a fresh Element tree each cycle and hands it to a
// System:
//
//	sys := sprockets.NewSystem(nil)
//	for range frames {
//		if err := sys.RunCycle(buildScene()); err != nil { ... }
//	}
//
// Update diffs the new tree against the persisted graph by structural
// identity (position among siblings, or an explicit key set with Keyed),
// reusing nodes — and their state cells, environment layers and
// subscriptions — wherever the identity survives. ProcessSetup runs
// expensive initialization for nodes whose description changed, in
// pre-order. ProcessWorkload walks the persisted tree invoking
// WorkloadEnter/WorkloadExit with strict scope nesting, which is what
// backends with "at most one open scope of a kind" constraints need.
//
// Elements come in two shapes. A Composite carries a Body producing its
// content; it owns state cells declared with StateOf and re-evaluates only
// when created, invalidated or changed. A bodyless leaf opts into
// lifecycle capabilities by implementing SetupEntering, WorkloadEntering
// and friends, and may wrap content of its own via ChildVisiting.
package sprockets
