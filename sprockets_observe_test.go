package sprockets_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schwa/sprockets"
)

// model is an external mutable object tests observe.
type model struct {
	sprockets.Notifier

	mu    sync.Mutex
	value string
}

func (m *model) Value() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

func (m *model) SetValue(v string) {
	m.mu.Lock()
	m.value = v
	m.mu.Unlock()
	m.Notify()
}

// watcher re-renders whenever its model changes.
type watcher struct {
	Name  string
	Model *model
}

func (w watcher) Body(ctx *sprockets.BuildContext) (sprockets.Element, error) {
	sprockets.Observe(ctx, w.Model)
	sprockets.EnvValue(ctx.Environment(), traceKey).record(
		"watch:" + w.Name + "=" + w.Model.Value())
	return nil, nil
}

func TestNotifier(t *testing.T) {
	var n sprockets.Notifier
	var got []string

	removeA := n.AddObserver(func() { got = append(got, "a") })
	n.AddObserver(func() { got = append(got, "b") })

	n.Notify()
	removeA()
	n.Notify()

	assert.ElementsMatch(t, []string{"a", "b", "b"}, got)
}

func TestObserveDirtiesOnlyTheObserver(t *testing.T) {
	rec := &recorder{}
	sys := newTestSystem(rec)
	m := &model{value: "v0"}

	build := sprockets.Group(
		watcher{Name: "left", Model: m},
		comp{Name: "right", Content: probe{Name: "right-leaf"}},
	)

	assert.NoError(t, sys.Update(build))
	assert.Equal(t, []string{"watch:left=v0", "body:right"}, rec.take())

	m.SetValue("v1")
	assert.NoError(t, sys.Update(build))

	// the sibling's body stayed memoized
	assert.Equal(t, []string{"watch:left=v1"}, rec.take())

	// quiet model, clean tree: nothing runs
	assert.NoError(t, sys.Update(build))
	assert.Empty(t, rec.take())
}

func TestObserveCancelledOnDestroy(t *testing.T) {
	rec := &recorder{}
	sys := newTestSystem(rec)
	m := &model{value: "v0"}

	assert.NoError(t, sys.Update(sprockets.Group(
		watcher{Name: "w", Model: m},
	)))
	rec.take()

	// drop the watcher, then poke the model: the dead subscription must
	// not dirty anything
	assert.NoError(t, sys.Update(sprockets.Group()))
	assert.Equal(t, 1, sys.NodeCount())

	m.SetValue("v1")
	assert.NoError(t, sys.Update(sprockets.Group()))

	assert.Empty(t, rec.take())
}
