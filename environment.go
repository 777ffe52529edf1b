package sprockets

import "github.com/schwa/sprockets/internal"

// EnvironmentKey is a typed key into EnvironmentValues. Keys are resolved
// by Name; reading an unset key yields Default.
type EnvironmentKey[T any] struct {
	Name    string
	Default T
}

// EnvValue reads a key through the environment chain, falling back to the
// key's default when unset or when the stored value has another type.
func EnvValue[T any](env *EnvironmentValues, key EnvironmentKey[T]) T {
	if v, ok := env.Lookup(key.Name); ok {
		if t, ok := v.(T); ok {
			return t
		}
	}
	return key.Default
}

// RequiredEnvValue reads a key that must be present: a missing value is a
// missing_context error, and a value of another type under the same name
// is an ambiguous_binding error. Both are programmer errors, not
// transient failures.
func RequiredEnvValue[T any](env *EnvironmentValues, key EnvironmentKey[T]) (T, error) {
	var zero T

	v, ok := env.Lookup(key.Name)
	if !ok {
		return zero, internal.MissingContextError("", key.Name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, internal.AmbiguousBindingError("", "environment name "+key.Name+" resolves to a value of another type")
	}
	return t, nil
}

// SetEnvValue stashes a value into a node's own environment layer,
// visible to the node and its descendants. Setup hooks use this to
// publish derived configuration before their children run.
func SetEnvValue[T any](n *Node, key EnvironmentKey[T], value T) {
	n.SetEnv(key.Name, value)
}

// InjectEnvValue seeds the system's root environment layer. Drivers use
// this to thread backend capability handles (device handles, session
// objects) the core itself never constructs.
func InjectEnvValue[T any](s *System, key EnvironmentKey[T], value T) {
	s.SetBaseEnv(key.Name, value)
}

// environmentElement writes one value for its content subtree. It is a
// composite, so it adds no path segment of its own.
type environmentElement struct {
	name    string
	value   any
	content Element
}

func (e environmentElement) ModifyEnvironment(env *EnvironmentValues) *EnvironmentValues {
	return env.With(e.name, e.value)
}

func (e environmentElement) Body(ctx *BuildContext) (Element, error) {
	return e.content, nil
}

// Environment wraps content with a value visible to it and everything
// below it, shadowing any value an ancestor wrote under the same key.
func Environment[T any](key EnvironmentKey[T], value T, content Element) Element {
	return environmentElement{
		name:    key.Name,
		value:   value,
		content: content,
	}
}
