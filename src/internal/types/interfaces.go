package types

import (
	"context"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// FileEngine defines the unified interface for the underlying file-access
// engine. This interface consolidates every engine operation the façade
// delegates to, including content resolution, mutation, watching, and
// lifecycle management.
type FileEngine interface {
	// ResolveMetadata resolves the metadata of a file or folder, including
	// children according to opts. A nil opts resolves the entry itself only.
	ResolveMetadata(ctx context.Context, resource uri.URI, opts *ResolveOptions) (*FileMetadata, error)

	// Exists reports whether the resource exists on disk.
	Exists(ctx context.Context, resource uri.URI) (bool, error)

	// ResolveContent resolves the full decoded content of a file.
	ResolveContent(ctx context.Context, resource uri.URI, opts *ContentOptions) (*FileContent, error)

	// ResolveStreamContent resolves file content as a stream. The caller
	// must close the returned reader.
	ResolveStreamContent(ctx context.Context, resource uri.URI, opts *ContentOptions) (*FileStreamContent, error)

	// ResolveContents resolves the content of multiple files. Individual
	// failures are skipped; the result holds the files that resolved.
	ResolveContents(ctx context.Context, resources []uri.URI) ([]*FileContent, error)

	// UpdateContent writes new text content to a file, creating it if needed.
	UpdateContent(ctx context.Context, resource uri.URI, value string, opts *ContentOptions) (*FileMetadata, error)

	// Move moves a file or folder to a new location. When overwrite is false
	// and the target exists, the operation fails.
	Move(ctx context.Context, source, target uri.URI, overwrite bool) (*FileMetadata, error)

	// Copy copies a file or folder to a new location.
	Copy(ctx context.Context, source, target uri.URI, overwrite bool) (*FileMetadata, error)

	// Create creates a new file with the given content.
	Create(ctx context.Context, resource uri.URI, content string) (*FileMetadata, error)

	// CreateFolder creates a new folder, including missing parents.
	CreateFolder(ctx context.Context, resource uri.URI) (*FileMetadata, error)

	// Touch updates the modification time of a file, creating it if needed.
	Touch(ctx context.Context, resource uri.URI) (*FileMetadata, error)

	// Rename renames a file or folder within its parent.
	Rename(ctx context.Context, resource uri.URI, newName string) (*FileMetadata, error)

	// Delete permanently deletes a file or folder.
	Delete(ctx context.Context, resource uri.URI) error

	// ImportFile copies an external file into the target folder. The result
	// reports whether a new entry was created.
	ImportFile(ctx context.Context, source, targetFolder uri.URI) (*ImportResult, error)

	// Watch starts watching a single resource for changes. Watching an
	// already-watched resource must not register a second native watch.
	Watch(resource uri.URI)

	// Unwatch stops watching a resource. Unwatching a resource that is not
	// watched is a no-op.
	Unwatch(resource uri.URI)

	// GetEncoding returns the effective encoding for a resource, considering
	// configured overrides and the preferred encoding.
	GetEncoding(resource uri.URI, preferred string) string

	// UpdateOptions applies a new file-related configuration subset. The
	// engine is responsible for validating the values.
	UpdateOptions(options FileOptions)

	// Events delivers batched file change events from active watches.
	Events() <-chan []protocol.FileEvent

	// Errors delivers asynchronous engine errors, e.g. watch failures.
	Errors() <-chan error

	// Dispose releases all engine resources, including active watches.
	Dispose()
}

// WorkspaceContext is a read-only view of the currently opened workspace.
type WorkspaceContext interface {
	// HasWorkspace reports whether a workspace is currently established.
	HasWorkspace() bool

	// Root returns the workspace root resource. Only valid when
	// HasWorkspace reports true.
	Root() uri.URI

	// Contains reports whether the resource lies inside the workspace root.
	Contains(resource uri.URI) bool
}

// EditorInput is one open editor as seen by the editor's group management.
type EditorInput interface {
	// FileResource returns the concrete file resource backing this editor.
	// It reports false for inputs without one (diff views, untitled buffers).
	FileResource() (uri.URI, bool)
}

// EditorGroups exposes the editor's visible-editor state and its change
// notification.
type EditorGroups interface {
	// VisibleEditors returns the currently visible editors across all groups.
	VisibleEditors() []EditorInput

	// OnEditorsChanged registers a handler fired whenever the set of visible
	// editors changes. The returned handle cancels the registration.
	OnEditorsChanged(handler func()) Disposable
}

// ConfigurationSource exposes the file-related configuration and its change
// notification.
type ConfigurationSource interface {
	// Configuration returns the current file configuration values.
	Configuration() FileConfiguration

	// OnDidChange registers a handler fired with the new values whenever the
	// configuration changes. The returned handle cancels the registration.
	OnDidChange(handler func(FileConfiguration)) Disposable
}

// FileConfiguration is the raw file-related configuration surface the façade
// consumes.
type FileConfiguration struct {
	// Encoding is the configured default text encoding
	Encoding string

	// WatcherExclude holds the enabled watcher-exclude glob patterns
	WatcherExclude []string

	// VerboseLogging enables debug-level logging
	VerboseLogging bool
}

// Lifecycle exposes the host's shutdown signal.
type Lifecycle interface {
	// OnShutdown registers a handler invoked once during orderly shutdown.
	OnShutdown(handler func()) Disposable
}

// Storage persists small user-scoped values across sessions.
type Storage interface {
	// GetBool returns the stored value for key, or fallback when absent.
	GetBool(key string, fallback bool) bool

	// SetBool stores a value under key.
	SetBool(key string, value bool)
}

// Messenger presents user-facing notifications.
type Messenger interface {
	// ShowWarning presents a warning with optional action choices and
	// returns the index of the chosen action, or -1 when dismissed.
	ShowWarning(message string, actions ...string) int

	// OpenExternal opens a URL in the user's external browser.
	OpenExternal(url string)
}

// Trasher moves an absolute path to the OS trash and reports success.
type Trasher interface {
	MoveToTrash(path string) bool
}

// Disposable is a cancellation handle returned by event registrations.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a plain function to the Disposable interface.
type DisposableFunc func()

func (f DisposableFunc) Dispose() { f() }
