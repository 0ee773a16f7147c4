// Package host provides concrete implementations of the façade's
// collaborator interfaces for running the service outside a full editor:
// a folder workspace, an editor registry, lifecycle signaling, file-backed
// storage, and console notifications.
package host

import (
	"path/filepath"
	"strings"

	"go.lsp.dev/uri"

	"file-gateway/src/internal/types"
	"file-gateway/src/utils"
)

// Workspace is a single-folder workspace context.
type Workspace struct {
	root string // absolute path, empty when no workspace is open
}

// NewWorkspace creates a workspace rooted at the given path. The root must
// be absolute; relative or empty roots yield a context with no workspace
// open (callers normalize via common.ValidateAndGetWorkspaceRoot).
func NewWorkspace(root string) *Workspace {
	if !filepath.IsAbs(root) {
		return &Workspace{}
	}
	return &Workspace{root: filepath.Clean(root)}
}

// NewEmptyWorkspace creates a context with no workspace open.
func NewEmptyWorkspace() *Workspace {
	return &Workspace{}
}

// HasWorkspace reports whether a workspace is currently established
func (w *Workspace) HasWorkspace() bool {
	return w.root != ""
}

// Root returns the workspace root resource
func (w *Workspace) Root() uri.URI {
	return uri.File(w.root)
}

// Contains reports whether the resource lies inside the workspace root
func (w *Workspace) Contains(resource uri.URI) bool {
	if !w.HasWorkspace() {
		return false
	}

	path := utils.URIToFilePath(string(resource))
	if path == w.root {
		return true
	}
	return strings.HasPrefix(path, w.root+string(filepath.Separator))
}

var _ types.WorkspaceContext = (*Workspace)(nil)
