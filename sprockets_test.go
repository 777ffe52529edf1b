package sprockets_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/schwa/sprockets"
)

// recorder collects an execution trace. It reaches elements through the
// environment instead of struct fields so descriptions stay comparable
// across cycles.
type recorder struct {
	mu  sync.Mutex
	log []string
}

func (r *recorder) record(entries ...string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, entries...)
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := r.log
	r.log = nil
	return log
}

var (
	traceKey = sprockets.EnvironmentKey[*recorder]{Name: "test.trace"}

	// cells lets tests reach State handles declared inside bodies.
	cellsKey = sprockets.EnvironmentKey[map[string]sprockets.State[string]]{Name: "test.cells"}
)

func trace(n *sprockets.Node) *recorder {
	return sprockets.EnvValue(n.Environment(), traceKey)
}

func newTestSystem(rec *recorder) *sprockets.System {
	sys := sprockets.NewSystem(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if rec != nil {
		sprockets.InjectEnvValue(sys, traceKey, rec)
	}
	return sys
}

var errBoom = errors.New("boom")

// probe is a leaf recording every lifecycle hook, with optional fault
// injection per hook.
type probe struct {
	Name string
	Fail string // "setup-enter", "setup-exit", "workload-enter", "workload-exit"
}

func (p probe) hook(n *sprockets.Node, which string) error {
	trace(n).record(which + ":" + p.Name)
	if p.Fail == which {
		return errBoom
	}
	return nil
}

func (p probe) SetupEnter(n *sprockets.Node) error    { return p.hook(n, "setup-enter") }
func (p probe) SetupExit(n *sprockets.Node) error     { return p.hook(n, "setup-exit") }
func (p probe) WorkloadEnter(n *sprockets.Node) error { return p.hook(n, "workload-enter") }
func (p probe) WorkloadExit(n *sprockets.Node) error  { return p.hook(n, "workload-exit") }

// scope is a leaf wrapping content of its own, the shape backends with
// nesting constraints use.
type scope struct {
	Name     string
	Children []sprockets.Element
}

func (s scope) VisitChildren(visit func(sprockets.Element) error) error {
	for _, child := range s.Children {
		if err := visit(child); err != nil {
			return err
		}
	}
	return nil
}

func (s scope) WorkloadEnter(n *sprockets.Node) error {
	trace(n).record("enter:" + s.Name)
	return nil
}

func (s scope) WorkloadExit(n *sprockets.Node) error {
	trace(n).record("exit:" + s.Name)
	return nil
}

// comp is a composite whose body records its run and yields Content.
type comp struct {
	Name    string
	Content sprockets.Element
}

func (c comp) Body(ctx *sprockets.BuildContext) (sprockets.Element, error) {
	sprockets.EnvValue(ctx.Environment(), traceKey).record("body:" + c.Name)
	return c.Content, nil
}

// failingComp aborts the Update from inside its body.
type failingComp struct {
	Name string
}

func (f failingComp) Body(ctx *sprockets.BuildContext) (sprockets.Element, error) {
	return nil, fmt.Errorf("%s: %w", f.Name, errBoom)
}

// stateful is a composite with one string cell seeded from Name. Its body
// publishes the cell handle and records the current value, so tests can
// see which cell a given description ended up bound to.
type stateful struct {
	Name string
}

func (s stateful) Body(ctx *sprockets.BuildContext) (sprockets.Element, error) {
	cell := sprockets.StateOf(ctx, s.Name)

	if cells := sprockets.EnvValue(ctx.Environment(), cellsKey); cells != nil {
		cells[s.Name] = cell
	}
	sprockets.EnvValue(ctx.Environment(), traceKey).record(
		"value:" + s.Name + "=" + cell.Get())
	return nil, nil
}
