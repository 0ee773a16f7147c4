package host

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/uri"
)

func TestWorkspaceContains(t *testing.T) {
	w := NewWorkspace("/ws")

	assert.True(t, w.HasWorkspace())
	assert.True(t, w.Contains(uri.File("/ws/main.go")))
	assert.True(t, w.Contains(uri.File("/ws")))
	assert.False(t, w.Contains(uri.File("/ws-other/main.go")), "name prefix is not containment")
	assert.False(t, w.Contains(uri.File("/outside/a.txt")))
}

func TestEmptyWorkspace(t *testing.T) {
	w := NewEmptyWorkspace()

	assert.False(t, w.HasWorkspace())
	assert.False(t, w.Contains(uri.File("/anything")))
}

func TestWorkspaceRequiresAbsoluteRoot(t *testing.T) {
	assert.False(t, NewWorkspace("").HasWorkspace())
	assert.False(t, NewWorkspace(".").HasWorkspace())
	assert.False(t, NewWorkspace("relative/dir").HasWorkspace())
}

func TestEditorRegistryNotifies(t *testing.T) {
	r := NewEditorRegistry()

	fired := 0
	sub := r.OnEditorsChanged(func() { fired++ })

	r.SetVisible(FileEditor{Resource: uri.File("/a.txt")})
	require.Equal(t, 1, fired)
	require.Len(t, r.VisibleEditors(), 1)

	sub.Dispose()
	r.SetVisible()
	assert.Equal(t, 1, fired, "disposed handler must not fire")
}

func TestEditorInputs(t *testing.T) {
	resource, ok := FileEditor{Resource: uri.File("/a.txt")}.FileResource()
	require.True(t, ok)
	assert.Equal(t, uri.File("/a.txt"), resource)

	_, ok = UntitledEditor{}.FileResource()
	assert.False(t, ok)
}

func TestShutdownSignalFiresOnce(t *testing.T) {
	s := NewShutdownSignal()

	fired := 0
	s.OnShutdown(func() { fired++ })

	s.Shutdown()
	s.Shutdown()
	assert.Equal(t, 1, fired)

	// Late registration runs immediately
	late := 0
	s.OnShutdown(func() { late++ })
	assert.Equal(t, 1, late)
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "storage.json")

	s := NewFileStorage(path)
	assert.False(t, s.GetBool("seen", false))
	assert.True(t, s.GetBool("seen", true))

	s.SetBool("seen", true)

	reloaded := NewFileStorage(path)
	assert.True(t, reloaded.GetBool("seen", false))
}

func TestConsoleMessengerNeverChooses(t *testing.T) {
	m := NewConsoleMessenger()
	assert.Equal(t, -1, m.ShowWarning("careful", "Learn More", "Never Show Again"))
}
