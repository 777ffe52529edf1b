package sprockets

// Observe subscribes the node under construction to an external mutable
// object, once per (object, node) pair. When the object notifies, the
// node's identity is marked dirty and its body re-evaluates on the next
// Update; nothing else in the tree is touched. The subscription is
// cancelled when the node is destroyed.
func Observe(ctx *BuildContext, obj Observable) {
	ctx.ObserveDependency(obj)
}
