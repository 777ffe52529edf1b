package internal

import (
	"errors"
	"fmt"
)

// Error codes (exported consts for type safety by convention).
const (
	CodeTreeBuild        = "tree_build"
	CodeSetup            = "setup"
	CodeWorkload         = "workload"
	CodeMissingContext   = "missing_context"
	CodeAmbiguousBinding = "ambiguous_binding"
)

// Error is the single error shape surfaced by the runtime. Code is one of
// the consts above, Path is the canonical identity of the node the failure
// was observed at (empty when no node applies), Cause the underlying error.
type Error struct {
	Code  string
	Path  string
	Cause error
}

func (e *Error) Error() string {
	switch {
	case e.Path == "" && e.Cause == nil:
		return e.Code
	case e.Path == "":
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	case e.Cause == nil:
		return fmt.Sprintf("%s at %s", e.Code, e.Path)
	}
	return fmt.Sprintf("%s at %s: %v", e.Code, e.Path, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// AsError extracts a runtime *Error using errors.As internally.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err carries the given runtime error code,
// anywhere along the cause chain. A phase error wrapping a hook's
// missing_context is both a workload error and a missing_context error.
func IsCode(err error, code string) bool {
	for err != nil {
		e, ok := AsError(err)
		if !ok {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

func buildError(id Identity, cause error) error {
	return &Error{Code: CodeTreeBuild, Path: id.String(), Cause: cause}
}

func setupError(id Identity, cause error) error {
	return &Error{Code: CodeSetup, Path: id.String(), Cause: cause}
}

func workloadError(id Identity, cause error) error {
	return &Error{Code: CodeWorkload, Path: id.String(), Cause: cause}
}

// MissingContextError reports a required environment value or context that
// was not present. A programmer error, not a transient failure.
func MissingContextError(path, what string) error {
	return &Error{Code: CodeMissingContext, Path: path, Cause: fmt.Errorf("no value for %s", what)}
}

// AmbiguousBindingError reports a resolution that matched more than one
// candidate. A programmer error.
func AmbiguousBindingError(path, what string) error {
	return &Error{Code: CodeAmbiguousBinding, Path: path, Cause: errors.New(what)}
}
