package internal

// Env is one layer of the inherited environment: a value map plus a link
// to the parent's layer. Lookups walk outward; writes land in the owning
// layer only, so a child never mutates what its parent sees. Layers are
// shared structurally between parent and descendants instead of copied.
type Env struct {
	values map[string]any
	outer  *Env
}

func NewEnv(outer *Env) *Env {
	return &Env{outer: outer}
}

// Lookup resolves a key name through the layer chain.
func (e *Env) Lookup(name string) (any, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set writes into this layer, shadowing any outer value for descendants.
func (e *Env) Set(name string, value any) {
	if e.values == nil {
		e.values = make(map[string]any)
	}
	e.values[name] = value
}

// With returns a fresh layer over e holding a single write. Used by
// environment-modifying elements during Update so the inherited snapshot
// stays untouched.
func (e *Env) With(name string, value any) *Env {
	env := NewEnv(e)
	env.Set(name, value)
	return env
}

// rebase repoints the outermost ancestor-facing link of the node-owned
// layer. Reused on the Update skip path: the layer's own writes survive,
// only the inherited chain changes.
func (e *Env) rebase(outer *Env) *Env {
	if e == nil {
		return NewEnv(outer)
	}
	e.outer = outer
	return e
}
