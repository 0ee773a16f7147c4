package watcher

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/uri"

	"file-gateway/src/internal/types"
)

// Mock watch target recording every call
type mockTarget struct {
	mu        sync.Mutex
	watches   []string
	unwatches []string
}

func (m *mockTarget) Watch(resource uri.URI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watches = append(m.watches, string(resource))
}

func (m *mockTarget) Unwatch(resource uri.URI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unwatches = append(m.unwatches, string(resource))
}

func (m *mockTarget) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watches), len(m.unwatches)
}

// Mock workspace rooted at /ws
type mockWorkspace struct {
	open bool
}

func (w *mockWorkspace) HasWorkspace() bool { return w.open }
func (w *mockWorkspace) Root() uri.URI      { return uri.File("/ws") }

func (w *mockWorkspace) Contains(resource uri.URI) bool {
	if !w.open {
		return false
	}
	s := string(resource)
	root := string(uri.File("/ws"))
	return s == root || len(s) > len(root) && s[:len(root)+1] == root+"/"
}

// Mock editor groups with a settable visible set
type mockGroups struct {
	mu       sync.Mutex
	visible  []types.EditorInput
	handlers []func()
}

func (g *mockGroups) VisibleEditors() []types.EditorInput {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]types.EditorInput(nil), g.visible...)
}

func (g *mockGroups) OnEditorsChanged(handler func()) types.Disposable {
	g.mu.Lock()
	g.handlers = append(g.handlers, handler)
	g.mu.Unlock()
	return types.DisposableFunc(func() {})
}

func (g *mockGroups) setVisible(editors ...types.EditorInput) {
	g.mu.Lock()
	g.visible = editors
	handlers := append(([]func())(nil), g.handlers...)
	g.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

type fileInput struct {
	resource uri.URI
}

func (i fileInput) FileResource() (uri.URI, bool) { return i.resource, true }

type untitledInput struct{}

func (untitledInput) FileResource() (uri.URI, bool) { return "", false }

func newFixture(t *testing.T) (*mockTarget, *mockWorkspace, *mockGroups, *Coordinator) {
	t.Helper()
	target := &mockTarget{}
	workspace := &mockWorkspace{open: true}
	groups := &mockGroups{}
	coordinator := NewCoordinator(target, workspace, groups)
	return target, workspace, groups, coordinator
}

func TestReconcileTracksOutOfWorkspaceFiles(t *testing.T) {
	target, _, groups, coordinator := newFixture(t)

	outside := uri.File("/outside/notes.txt")
	inside := uri.File("/ws/main.go")

	groups.setVisible(fileInput{outside}, fileInput{inside}, untitledInput{})

	assert.ElementsMatch(t, []string{string(outside)}, coordinator.WatchedResources())
	assert.Equal(t, []string{string(outside)}, target.watches)
	assert.Empty(t, target.unwatches)
}

func TestReconcileRemovesNoLongerVisible(t *testing.T) {
	target, _, groups, coordinator := newFixture(t)

	first := uri.File("/outside/a.txt")
	second := uri.File("/outside/b.txt")

	groups.setVisible(fileInput{first}, fileInput{second})
	require.Len(t, coordinator.WatchedResources(), 2)

	groups.setVisible(fileInput{second})

	assert.ElementsMatch(t, []string{string(second)}, coordinator.WatchedResources())
	assert.Equal(t, []string{string(first)}, target.unwatches)
}

func TestReconcileIsIdempotent(t *testing.T) {
	target, _, groups, _ := newFixture(t)

	resource := uri.File("/outside/a.txt")
	groups.setVisible(fileInput{resource})

	watches, unwatches := target.counts()

	// Same visibility again: no additional engine calls
	groups.setVisible(fileInput{resource})

	watchesAfter, unwatchesAfter := target.counts()
	assert.Equal(t, watches, watchesAfter)
	assert.Equal(t, unwatches, unwatchesAfter)
}

func TestSetMatchesQualifyingVisibleExactly(t *testing.T) {
	_, _, groups, coordinator := newFixture(t)

	sequences := [][]types.EditorInput{
		{fileInput{uri.File("/outside/a.txt")}},
		{fileInput{uri.File("/outside/a.txt")}, fileInput{uri.File("/outside/b.txt")}},
		{fileInput{uri.File("/ws/in.go")}, untitledInput{}},
		{},
		{fileInput{uri.File("/outside/c.txt")}, fileInput{uri.File("/outside/c.txt")}},
	}
	expected := [][]string{
		{string(uri.File("/outside/a.txt"))},
		{string(uri.File("/outside/a.txt")), string(uri.File("/outside/b.txt"))},
		{},
		{},
		{string(uri.File("/outside/c.txt"))},
	}

	for i, visible := range sequences {
		groups.setVisible(visible...)

		got := coordinator.WatchedResources()
		sort.Strings(got)
		want := append([]string(nil), expected[i]...)
		sort.Strings(want)
		if len(want) == 0 {
			assert.Empty(t, got, "step %d", i)
		} else {
			assert.Equal(t, want, got, "step %d", i)
		}
	}
}

func TestWatchGuards(t *testing.T) {
	target, _, _, coordinator := newFixture(t)

	// Empty resource
	coordinator.Watch("")
	// Non-file scheme
	coordinator.Watch(uri.URI("untitled:Untitled-1"))
	// Inside the workspace: covered by the standing workspace watch
	coordinator.Watch(uri.File("/ws/covered.go"))

	watches, _ := target.counts()
	assert.Zero(t, watches)

	coordinator.Watch(uri.File("/outside/free.txt"))
	watches, _ = target.counts()
	assert.Equal(t, 1, watches)
}

func TestWatchQualifiesEverythingWithoutWorkspace(t *testing.T) {
	target := &mockTarget{}
	groups := &mockGroups{}
	coordinator := NewCoordinator(target, &mockWorkspace{open: false}, groups)

	coordinator.Watch(uri.File("/ws/anything.go"))

	watches, _ := target.counts()
	assert.Equal(t, 1, watches)
}

func TestUnwatchAcceptsBothForms(t *testing.T) {
	target, _, _, coordinator := newFixture(t)

	coordinator.Unwatch("/outside/a.txt")
	coordinator.Unwatch(string(uri.File("/outside/a.txt")))

	require.Len(t, target.unwatches, 2)
	assert.Equal(t, target.unwatches[0], target.unwatches[1])
}

func TestDisposeUnwatchesOnceAndClears(t *testing.T) {
	target, _, groups, coordinator := newFixture(t)

	groups.setVisible(
		fileInput{uri.File("/outside/a.txt")},
		fileInput{uri.File("/outside/b.txt")},
	)

	coordinator.Dispose()

	_, unwatches := target.counts()
	assert.Equal(t, 2, unwatches)
	assert.Empty(t, coordinator.WatchedResources())

	// Second disposal finds an empty set and issues nothing
	coordinator.Dispose()
	_, unwatchesAfter := target.counts()
	assert.Equal(t, unwatches, unwatchesAfter)
}
