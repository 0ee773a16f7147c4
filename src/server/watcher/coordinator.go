// Package watcher keeps filesystem watches in sync with which
// out-of-workspace files are currently visible in the editor.
package watcher

import (
	"sync"

	"go.lsp.dev/uri"

	"file-gateway/src/internal/common"
	"file-gateway/src/internal/types"
	"file-gateway/src/utils"
)

// WatchTarget is the subset of the engine the coordinator drives.
type WatchTarget interface {
	Watch(resource uri.URI)
	Unwatch(resource uri.URI)
}

// Coordinator tracks the set of out-of-workspace resources currently visible
// in the editor and keeps exactly one active watch per such resource. The
// workspace itself has a standing recursive watch, so only resources outside
// of it are watched individually here.
//
// The watched set is owned exclusively by the coordinator and guarded by a
// mutex: visibility events may arrive on any goroutine and reconciliation
// must not interleave with itself or with disposal.
type Coordinator struct {
	mu      sync.Mutex
	watched map[string]bool // canonical URI string -> active

	engine    WatchTarget
	workspace types.WorkspaceContext
	groups    types.EditorGroups
	logger    *common.SafeLogger

	subscription types.Disposable
}

// NewCoordinator creates a coordinator and subscribes it to visible-editor
// changes. Dispose cancels the subscription and releases all watches.
func NewCoordinator(engine WatchTarget, workspace types.WorkspaceContext, groups types.EditorGroups) *Coordinator {
	c := &Coordinator{
		watched:   make(map[string]bool),
		engine:    engine,
		workspace: workspace,
		groups:    groups,
		logger:    common.WatcherLogger,
	}
	c.subscription = groups.OnEditorsChanged(c.Reconcile)
	return c
}

// Reconcile brings the watched set in line with the currently visible
// editors. It runs to completion under the coordinator lock, so concurrent
// visibility events serialize.
func (c *Coordinator) Reconcile() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Resources qualify when they are backed by a concrete file resource and
	// lie outside the workspace. Everything else (diff views, untitled
	// buffers, in-workspace files) is skipped.
	visible := make(map[string]uri.URI)
	for _, editor := range c.groups.VisibleEditors() {
		resource, ok := editor.FileResource()
		if !ok {
			continue
		}
		if !c.qualifies(resource) {
			continue
		}
		visible[string(resource)] = resource
	}

	// Unwatch no-longer-visible resources before adding new watches to bound
	// the number of concurrently open OS watch handles.
	for key := range c.watched {
		if _, stillVisible := visible[key]; !stillVisible {
			c.engine.Unwatch(uri.URI(key))
			delete(c.watched, key)
			c.logger.Debug("stopped watching %s", key)
		}
	}

	for key, resource := range visible {
		if !c.watched[key] {
			c.engine.Watch(resource)
			c.watched[key] = true
			c.logger.Debug("watching %s", key)
		}
	}
}

// Watch starts watching a single resource. It is a no-op for empty
// resources, non-file schemes, and resources inside the workspace, which are
// covered by the workspace's standing watch already.
func (c *Coordinator) Watch(resource uri.URI) {
	if !c.qualifies(resource) {
		return
	}
	c.engine.Watch(resource)
}

// Unwatch stops watching a resource. It accepts either a canonical URI
// string or a raw filesystem path; both forms resolve to the same watch
// handle. Unwatching an unknown resource is tolerated by the engine.
func (c *Coordinator) Unwatch(resourceOrPath string) {
	if resourceOrPath == "" {
		return
	}
	c.engine.Unwatch(normalize(resourceOrPath))
}

// WatchedResources returns the canonical URI strings currently tracked.
func (c *Coordinator) WatchedResources() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	resources := make([]string, 0, len(c.watched))
	for key := range c.watched {
		resources = append(resources, key)
	}
	return resources
}

// Dispose unwatches every tracked resource and cancels the visibility
// subscription. A second disposal finds an empty set and does nothing.
func (c *Coordinator) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.watched {
		c.engine.Unwatch(uri.URI(key))
		delete(c.watched, key)
	}

	if c.subscription != nil {
		c.subscription.Dispose()
		c.subscription = nil
	}
}

func (c *Coordinator) qualifies(resource uri.URI) bool {
	if string(resource) == "" {
		return false
	}
	if !utils.IsFileURI(string(resource)) {
		// Only local files are watchable
		return false
	}
	if c.workspace != nil && c.workspace.HasWorkspace() && c.workspace.Contains(resource) {
		return false
	}
	return true
}

func normalize(resourceOrPath string) uri.URI {
	if utils.IsFileURI(resourceOrPath) {
		return uri.URI(resourceOrPath)
	}
	return uri.File(resourceOrPath)
}
