package host

import (
	"sync"

	"go.lsp.dev/uri"

	"file-gateway/src/internal/types"
)

// FileEditor is an editor input backed by a concrete file resource.
type FileEditor struct {
	Resource uri.URI
}

// FileResource returns the backing file resource
func (e FileEditor) FileResource() (uri.URI, bool) {
	return e.Resource, e.Resource != ""
}

// UntitledEditor is an editor input without a backing file, e.g. a new
// unsaved buffer. It never resolves to a resource.
type UntitledEditor struct{}

// FileResource reports that no file resource backs this input
func (UntitledEditor) FileResource() (uri.URI, bool) {
	return "", false
}

// EditorRegistry tracks the visible editors and notifies subscribers when
// the set changes. It implements types.EditorGroups.
type EditorRegistry struct {
	mu       sync.Mutex
	visible  []types.EditorInput
	handlers map[int]func()
	nextID   int
}

// NewEditorRegistry creates an empty registry
func NewEditorRegistry() *EditorRegistry {
	return &EditorRegistry{handlers: make(map[int]func())}
}

// VisibleEditors returns the currently visible editors
func (r *EditorRegistry) VisibleEditors() []types.EditorInput {
	r.mu.Lock()
	defer r.mu.Unlock()

	visible := make([]types.EditorInput, len(r.visible))
	copy(visible, r.visible)
	return visible
}

// OnEditorsChanged registers a visibility-change handler
func (r *EditorRegistry) OnEditorsChanged(handler func()) types.Disposable {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.handlers[id] = handler
	r.mu.Unlock()

	return types.DisposableFunc(func() {
		r.mu.Lock()
		delete(r.handlers, id)
		r.mu.Unlock()
	})
}

// SetVisible replaces the visible editor set and fires the change event
func (r *EditorRegistry) SetVisible(editors ...types.EditorInput) {
	r.mu.Lock()
	r.visible = editors
	handlers := make([]func(), 0, len(r.handlers))
	for _, h := range r.handlers {
		handlers = append(handlers, h)
	}
	r.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

var _ types.EditorGroups = (*EditorRegistry)(nil)
