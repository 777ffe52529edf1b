package internal

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// System owns the identity→node table and the dirty set, and drives the
// three phases of a cycle: Update (reconcile the fresh description tree
// against the persisted graph), ProcessSetup (expensive one-time
// initialization for flagged nodes) and ProcessWorkload (per-cycle
// enter/exit side effects in strict nesting order).
//
// A System must be driven from one goroutine at a time. Observable
// callbacks and cell writes may come from anywhere; they only enqueue into
// the dirty set.
type System struct {
	log *slog.Logger

	nodes   map[string]*Node
	rootKey string
	hasRoot bool

	// baseEnv is the outermost environment layer, holding capability
	// handles injected by the driver before the first cycle.
	baseEnv *Env

	dirty dirtySet
	cycle uint64

	// driving holds the goroutine id currently inside a phase, 0 when
	// idle. Guards against concurrent or reentrant driving.
	driving atomic.Int64
}

func NewSystem(logger *slog.Logger) *System {
	if logger == nil {
		logger = slog.Default()
	}
	return &System{
		log:     logger,
		nodes:   make(map[string]*Node),
		baseEnv: NewEnv(nil),
	}
}

// SetBaseEnv injects a value into the root environment layer, visible to
// every node. The driver uses this to thread backend capability handles
// the core itself never constructs.
func (s *System) SetBaseEnv(name string, value any) {
	s.baseEnv.Set(name, value)
}

// Invalidate marks an identity for forced re-evaluation on the next
// Update. Safe to call from any goroutine.
func (s *System) Invalidate(key string) {
	s.dirty.add(key)
}

// NodeCount reports the number of live nodes.
func (s *System) NodeCount() int {
	return len(s.nodes)
}

// NodeAt returns the live node at the given canonical path.
func (s *System) NodeAt(path string) (*Node, bool) {
	n, ok := s.nodes[path]
	return n, ok
}

// Root returns the root node of the persisted tree, if a successful
// Update has run.
func (s *System) Root() (*Node, bool) {
	if !s.hasRoot {
		return nil, false
	}
	n, ok := s.nodes[s.rootKey]
	return n, ok
}

// Update reconciles a freshly built description tree against the
// persisted node graph: assigns identities, reuses or creates nodes,
// re-evaluates bodies where forced, and destroys nodes whose identities
// disappeared. A body failure aborts the whole Update with a tree_build
// error and retains the previous graph untouched.
func (s *System) Update(root Element) error {
	s.begin("Update")
	defer s.end()

	s.cycle++
	dirty := s.dirty.drain()

	w := newWalker(s, dirty)
	if err := w.walk(root, RootIdentity(), s.baseEnv); err != nil {
		w.rollback()
		s.log.Error("update aborted",
			"cycle", s.cycle,
			"error", err)
		return err
	}

	destroyed := w.commit()
	s.rootKey = RootIdentity().String()
	s.hasRoot = true

	s.log.Debug("update committed",
		"cycle", s.cycle,
		"nodes", len(s.nodes),
		"created", w.created,
		"reused", w.reused,
		"destroyed", destroyed,
		"dirty", len(dirty))
	return nil
}

// ProcessSetup runs initialization for every node flagged needsSetup, in
// pre-order so values a parent stashes into its environment are visible to
// its children's setup. Unflagged nodes are skipped entirely. The first
// failing hook aborts the remainder with a setup error; flags of nodes not
// yet set up stay set for the next cycle.
func (s *System) ProcessSetup() error {
	s.begin("ProcessSetup")
	defer s.end()

	root, ok := s.Root()
	if !ok {
		return nil
	}

	if err := s.setupVisit(root); err != nil {
		s.log.Error("setup aborted", "cycle", s.cycle, "error", err)
		return err
	}
	return nil
}

func (s *System) setupVisit(n *Node) error {
	run := n.needsSetup

	if run {
		if h, ok := n.terminal.(SetupEntering); ok {
			if err := h.SetupEnter(n); err != nil {
				return setupError(n.id, err)
			}
		}
	}

	for _, child := range n.Children() {
		if err := s.setupVisit(child); err != nil {
			return err
		}
	}

	if run {
		if h, ok := n.terminal.(SetupExiting); ok {
			if err := h.SetupExit(n); err != nil {
				return setupError(n.id, err)
			}
		}
		n.needsSetup = false
	}
	return nil
}

// ProcessWorkload walks the persisted tree invoking WorkloadEnter on
// pre-visit and WorkloadExit on post-visit. For any ancestor/descendant
// pair the enters and exits nest properly, never interleave; sibling
// scopes never overlap. On a descendant failure the already-entered
// ancestors still close their scopes before the first error propagates.
func (s *System) ProcessWorkload() error {
	s.begin("ProcessWorkload")
	defer s.end()

	root, ok := s.Root()
	if !ok {
		return nil
	}

	if err := s.workloadVisit(root); err != nil {
		s.log.Error("workload aborted", "cycle", s.cycle, "error", err)
		return err
	}
	return nil
}

func (s *System) workloadVisit(n *Node) error {
	if h, ok := n.terminal.(WorkloadEntering); ok {
		if err := h.WorkloadEnter(n); err != nil {
			return workloadError(n.id, err)
		}
	}

	var firstErr error
	for _, child := range n.Children() {
		if err := s.workloadVisit(child); err != nil {
			firstErr = err
			break
		}
	}

	// the scope closes even when a descendant failed
	if h, ok := n.terminal.(WorkloadExiting); ok {
		if err := h.WorkloadExit(n); err != nil && firstErr == nil {
			firstErr = workloadError(n.id, err)
		}
	}
	return firstErr
}

// RunCycle drives one full Update→Setup→Workload pass and returns the
// first error.
func (s *System) RunCycle(root Element) error {
	if err := s.Update(root); err != nil {
		return err
	}
	if err := s.ProcessSetup(); err != nil {
		return err
	}
	return s.ProcessWorkload()
}

func (s *System) begin(phase string) {
	gid := goid.Get()
	if !s.driving.CompareAndSwap(0, gid) {
		panic(fmt.Sprintf(
			"sprockets: %s on goroutine %d while goroutine %d is driving the system",
			phase, gid, s.driving.Load()))
	}
}

func (s *System) end() {
	s.driving.Store(0)
}
