package sprockets

import (
	"log/slog"

	"github.com/schwa/sprockets/internal"
)

// The engine lives in internal; the aliases below are its public surface.
// Generic accessors (State, Binding, EnvironmentKey) stay in this package
// and convert at the boundary.
type (
	// Element is an immutable description of desired structure for one
	// cycle: either a Composite or a bodyless leaf.
	Element = internal.Element

	// Composite is an element producing its content through a fallible
	// Body. Composites don't add a path segment; the body chain collapses
	// into a single node.
	Composite = internal.Composite

	// Node is the persistent runtime record bound to one identity.
	Node = internal.Node

	// System orchestrates the Update, Setup and Workload phases.
	System = internal.System

	// BuildContext is passed to every Body invocation.
	BuildContext = internal.BuildContext

	// EnvironmentValues is the inherited, copy-on-write keyed value bag.
	EnvironmentValues = internal.Env

	// Identity and Atom form the path-based addressing scheme.
	Identity = internal.Identity
	Atom     = internal.Atom

	// Error is the runtime's typed error; see the Code consts.
	Error = internal.Error

	// NodeSnapshot mirrors one node for introspection.
	NodeSnapshot = internal.NodeSnapshot

	// Observable and Notifier form the external dirty-signal contract.
	Observable = internal.Observable
	Notifier   = internal.Notifier

	// Leaf capability interfaces.
	SetupEntering        = internal.SetupEntering
	SetupExiting         = internal.SetupExiting
	WorkloadEntering     = internal.WorkloadEntering
	WorkloadExiting      = internal.WorkloadExiting
	ChildVisiting        = internal.ChildVisiting
	EnvironmentModifying = internal.EnvironmentModifying
	SetupComparable      = internal.SetupComparable
	Equatable            = internal.Equatable
)

// Error codes surfaced by the runtime.
const (
	CodeTreeBuild        = internal.CodeTreeBuild
	CodeSetup            = internal.CodeSetup
	CodeWorkload         = internal.CodeWorkload
	CodeMissingContext   = internal.CodeMissingContext
	CodeAmbiguousBinding = internal.CodeAmbiguousBinding
)

// NewSystem creates a system driving an empty node graph. A nil logger
// defaults to slog.Default().
func NewSystem(logger *slog.Logger) *System {
	return internal.NewSystem(logger)
}

// AsError extracts a runtime *Error using errors.As internally.
func AsError(err error) (*Error, bool) {
	return internal.AsError(err)
}

// IsCode reports whether err carries the given runtime error code.
func IsCode(err error, code string) bool {
	return internal.IsCode(err, code)
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
