package sprockets_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/schwa/sprockets"
)

func TestSingleLeafCycle(t *testing.T) {
	rec := &recorder{}
	sys := newTestSystem(rec)

	assert.NoError(t, sys.RunCycle(probe{Name: "only"}))

	assert.Equal(t, 1, sys.NodeCount())
	assert.Equal(t, []string{
		"setup-enter:only",
		"setup-exit:only",
		"workload-enter:only",
		"workload-exit:only",
	}, rec.take())
}

func TestUpdateIdempotence(t *testing.T) {
	rec := &recorder{}
	sys := newTestSystem(rec)

	build := func() sprockets.Element {
		return scope{Name: "root", Children: []sprockets.Element{
			probe{Name: "a"},
			comp{Name: "b", Content: probe{Name: "b-leaf"}},
		}}
	}

	assert.NoError(t, sys.RunCycle(build()))
	nodes := sys.NodeCount()
	rec.take()

	// an unchanged tree with an empty dirty set must neither create nor
	// destroy nodes, re-run bodies, nor flag anything for setup
	assert.NoError(t, sys.RunCycle(build()))

	assert.Equal(t, nodes, sys.NodeCount())
	want := []string{
		"enter:root",
		"workload-enter:a",
		"workload-exit:a",
		"workload-enter:b-leaf",
		"workload-exit:b-leaf",
		"exit:root",
	}
	if diff := cmp.Diff(want, rec.take()); diff != "" {
		t.Errorf("second cycle trace mismatch (-want +got):\n%s", diff)
	}

	snap, ok := sys.Snapshot()
	assert.True(t, ok)
	assertNoSetupFlags(t, snap)
}

func assertNoSetupFlags(t *testing.T, snap sprockets.NodeSnapshot) {
	t.Helper()
	assert.False(t, snap.NeedsSetup, "node %s still flagged for setup", snap.Path)
	for _, child := range snap.Children {
		assertNoSetupFlags(t, child)
	}
}

func TestIdentityStability(t *testing.T) {
	rec := &recorder{}
	sys := newTestSystem(rec)

	build := func(angle string) sprockets.Element {
		return scope{Name: "root", Children: []sprockets.Element{
			spriteLeaf{Name: "player", Angle: angle},
		}}
	}

	assert.NoError(t, sys.RunCycle(build("0")))
	rec.take()

	// a non-structural field change reuses the node: workload reruns
	// with the new value, setup does not (RequiresSetup compares Name)
	assert.NoError(t, sys.RunCycle(build("45")))

	assert.Equal(t, []string{
		"enter:root",
		"draw:player@45",
		"exit:root",
	}, rec.take())
	assert.Equal(t, 2, sys.NodeCount())
}

// spriteLeaf needs setup only when Name changes; Angle is per-cycle data.
type spriteLeaf struct {
	Name  string
	Angle string
}

func (s spriteLeaf) RequiresSetup(prev sprockets.Element) bool {
	p, ok := prev.(spriteLeaf)
	return !ok || p.Name != s.Name
}

func (s spriteLeaf) SetupEnter(n *sprockets.Node) error {
	trace(n).record("compile:" + s.Name)
	return nil
}

func (s spriteLeaf) WorkloadEnter(n *sprockets.Node) error {
	trace(n).record("draw:" + s.Name + "@" + s.Angle)
	return nil
}

func TestCounterScenario(t *testing.T) {
	rec := &recorder{}
	sys := newTestSystem(rec)
	cells := map[string]sprockets.State[string]{}
	sprockets.InjectEnvValue(sys, cellsKey, cells)

	build := func() sprockets.Element {
		return scope{Name: "root", Children: []sprockets.Element{
			stateful{Name: "count"},
		}}
	}

	assert.NoError(t, sys.Update(build()))
	assert.Equal(t, []string{"value:count=count"}, rec.take())
	nodes := sys.NodeCount()

	// the setter marks only the owning identity dirty; the next Update
	// re-runs that body with the cell's new value on the same node
	cells["count"].Set("one")
	assert.NoError(t, sys.Update(build()))

	assert.Equal(t, []string{"value:count=one"}, rec.take())
	assert.Equal(t, nodes, sys.NodeCount())

	// and with nothing dirty, the body is memoized again
	assert.NoError(t, sys.Update(build()))
	assert.Empty(t, rec.take())
}

func TestUpdateFailureKeepsPreviousTree(t *testing.T) {
	rec := &recorder{}
	sys := newTestSystem(rec)

	good := func() sprockets.Element {
		return scope{Name: "root", Children: []sprockets.Element{
			probe{Name: "keeper"},
		}}
	}
	assert.NoError(t, sys.RunCycle(good()))
	nodes := sys.NodeCount()
	rec.take()

	bad := scope{Name: "root", Children: []sprockets.Element{
		failingComp{Name: "broken"},
	}}
	err := sys.Update(bad)

	assert.Error(t, err)
	assert.True(t, sprockets.IsCode(err, sprockets.CodeTreeBuild))
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, nodes, sys.NodeCount(), "aborted update must not change the table")

	// the retained tree still runs, and the keeper needs no new setup
	assert.NoError(t, sys.RunCycle(good()))
	assert.Equal(t, []string{
		"enter:root",
		"workload-enter:keeper",
		"workload-exit:keeper",
		"exit:root",
	}, rec.take())
}

func TestDuplicateSiblingIdentity(t *testing.T) {
	sys := newTestSystem(&recorder{})

	err := sys.Update(sprockets.Group(
		sprockets.Keyed("x", probe{Name: "first"}),
		sprockets.Keyed("x", probe{Name: "second"}),
	))

	assert.Error(t, err)
	assert.True(t, sprockets.IsCode(err, sprockets.CodeAmbiguousBinding))
}

func TestNodeDestruction(t *testing.T) {
	rec := &recorder{}
	sys := newTestSystem(rec)

	assert.NoError(t, sys.Update(scope{Name: "root", Children: []sprockets.Element{
		probe{Name: "a"},
		probe{Name: "b"},
	}}))
	assert.Equal(t, 3, sys.NodeCount())

	// dropping a child from the description removes its node on the
	// next Update
	assert.NoError(t, sys.Update(scope{Name: "root", Children: []sprockets.Element{
		probe{Name: "a"},
	}}))
	assert.Equal(t, 2, sys.NodeCount())
}
