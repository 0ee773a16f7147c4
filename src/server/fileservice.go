// Package server hosts the file service façade mediating between the
// editor's UI state and the underlying file-access engine.
package server

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"file-gateway/src/internal/common"
	fgerrors "file-gateway/src/internal/errors"
	"file-gateway/src/internal/types"
	"file-gateway/src/server/encoding"
	"file-gateway/src/server/telemetry"
	"file-gateway/src/server/watcher"
	"file-gateway/src/utils"
)

const (
	// watchErrorSignature marks engine errors caused by exhausted OS watch
	// handles (inotify limit on Linux)
	watchErrorSignature = "ENOSPC"

	// watchErrorNotifiedKey persists the user's "never show again" choice
	watchErrorNotifiedKey = "fileservice.watchError.neverShowAgain"

	// watchErrorHelpURL explains how to raise the OS watch handle limit
	watchErrorHelpURL = "https://man7.org/linux/man-pages/man7/inotify.7.html"

	actionLearnMore      = "Learn More"
	actionNeverShowAgain = "Never Show Again"

	timerTopicResolve = "resolveFile"
	timerTopicSave    = "saveFile"
)

// FileService is the façade over the file-access engine. It adds
// visibility-driven watching for out-of-workspace files, encoding overrides,
// load/save timing, and a trash-aware delete; everything else delegates to
// the engine unchanged.
type FileService struct {
	engine    types.FileEngine
	workspace types.WorkspaceContext
	storage   types.Storage
	messenger types.Messenger
	trasher   types.Trasher

	coordinator *watcher.Coordinator
	tracker     *telemetry.Tracker
	overrides   []types.EncodingOverride
	logger      *common.SafeLogger

	subscriptions []types.Disposable
	closed        chan struct{}
	disposeOnce   sync.Once

	notifiedMu         sync.Mutex
	watchErrorNotified bool
}

// NewFileService wires the façade to its collaborators, assembles the
// engine's startup options from configuration, and subscribes to visibility,
// configuration, and shutdown events.
func NewFileService(
	engine types.FileEngine,
	workspace types.WorkspaceContext,
	groups types.EditorGroups,
	configuration types.ConfigurationSource,
	lifecycle types.Lifecycle,
	storage types.Storage,
	messenger types.Messenger,
	trasher types.Trasher,
) *FileService {
	f := &FileService{
		engine:    engine,
		workspace: workspace,
		storage:   storage,
		messenger: messenger,
		trasher:   trasher,
		tracker:   telemetry.NewTracker(),
		logger:    common.FileLogger,
		closed:    make(chan struct{}),
	}

	// The override list is computed once; configuration changes only
	// re-deliver the default encoding.
	workspaceRoot := ""
	if workspace != nil && workspace.HasWorkspace() {
		workspaceRoot = utils.URIToFilePath(string(workspace.Root()))
	}
	f.overrides = encoding.ComputeOverrides(common.SettingsHome(), workspaceRoot)

	f.UpdateOptions(configuration.Configuration())

	f.coordinator = watcher.NewCoordinator(engine, workspace, groups)

	f.subscriptions = append(f.subscriptions,
		configuration.OnDidChange(f.UpdateOptions),
		lifecycle.OnShutdown(f.Dispose),
	)

	go f.errorLoop()

	return f
}

// Coordinator exposes the visibility-driven watch coordinator.
func (f *FileService) Coordinator() *watcher.Coordinator {
	return f.coordinator
}

// Tracker exposes the operation duration tracker.
func (f *FileService) Tracker() *telemetry.Tracker {
	return f.tracker
}

// ResolveMetadata delegates metadata resolution to the engine
func (f *FileService) ResolveMetadata(ctx context.Context, resource uri.URI, opts *types.ResolveOptions) (*types.FileMetadata, error) {
	return f.engine.ResolveMetadata(ctx, resource, opts)
}

// Exists delegates the existence check to the engine
func (f *FileService) Exists(ctx context.Context, resource uri.URI) (bool, error) {
	return f.engine.Exists(ctx, resource)
}

// ResolveContent resolves file content, timing the operation. The timer is
// stopped on success and on failure; the engine's result or error passes
// through unchanged.
func (f *FileService) ResolveContent(ctx context.Context, resource uri.URI, opts *types.ContentOptions) (*types.FileContent, error) {
	op := f.tracker.Start(timerTopicResolve, string(resource))
	content, err := f.engine.ResolveContent(ctx, resource, opts)
	op.Stop()
	return content, err
}

// ResolveStreamContent delegates streamed content resolution to the engine
func (f *FileService) ResolveStreamContent(ctx context.Context, resource uri.URI, opts *types.ContentOptions) (*types.FileStreamContent, error) {
	return f.engine.ResolveStreamContent(ctx, resource, opts)
}

// ResolveContents delegates multi-file resolution to the engine
func (f *FileService) ResolveContents(ctx context.Context, resources []uri.URI) ([]*types.FileContent, error) {
	return f.engine.ResolveContents(ctx, resources)
}

// UpdateContent writes file content, timing the operation on both the
// success and the failure path.
func (f *FileService) UpdateContent(ctx context.Context, resource uri.URI, value string, opts *types.ContentOptions) (*types.FileMetadata, error) {
	op := f.tracker.Start(timerTopicSave, string(resource))
	stat, err := f.engine.UpdateContent(ctx, resource, value, opts)
	op.Stop()
	return stat, err
}

// Move delegates to the engine
func (f *FileService) Move(ctx context.Context, source, target uri.URI, overwrite bool) (*types.FileMetadata, error) {
	return f.engine.Move(ctx, source, target, overwrite)
}

// Copy delegates to the engine
func (f *FileService) Copy(ctx context.Context, source, target uri.URI, overwrite bool) (*types.FileMetadata, error) {
	return f.engine.Copy(ctx, source, target, overwrite)
}

// Create delegates to the engine
func (f *FileService) Create(ctx context.Context, resource uri.URI, content string) (*types.FileMetadata, error) {
	return f.engine.Create(ctx, resource, content)
}

// CreateFolder delegates to the engine
func (f *FileService) CreateFolder(ctx context.Context, resource uri.URI) (*types.FileMetadata, error) {
	return f.engine.CreateFolder(ctx, resource)
}

// Touch delegates to the engine
func (f *FileService) Touch(ctx context.Context, resource uri.URI) (*types.FileMetadata, error) {
	return f.engine.Touch(ctx, resource)
}

// Rename delegates to the engine
func (f *FileService) Rename(ctx context.Context, resource uri.URI, newName string) (*types.FileMetadata, error) {
	return f.engine.Rename(ctx, resource, newName)
}

// Delete removes a resource. With useTrash the resource is moved to the OS
// trash instead, which requires an opened workspace; a failed trash move
// surfaces as an IOError naming the file, and the resource stays in place.
func (f *FileService) Delete(ctx context.Context, resource uri.URI, useTrash bool) error {
	if !useTrash {
		return f.engine.Delete(ctx, resource)
	}

	if f.workspace == nil || !f.workspace.HasWorkspace() {
		return fgerrors.NewPreconditionError("delete", "moving to trash requires an opened workspace")
	}

	absPath := utils.URIToFilePath(string(resource))
	if !f.trasher.MoveToTrash(absPath) {
		return fgerrors.NewIOError(filepath.Base(absPath), "failed to move to trash", nil)
	}
	return nil
}

// ImportFile imports an external file, normalizing the engine's result into
// a stable two-field shape.
func (f *FileService) ImportFile(ctx context.Context, source, targetFolder uri.URI) (*types.ImportResult, error) {
	result, err := f.engine.ImportFile(ctx, source, targetFolder)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return &types.ImportResult{}, nil
	}
	return result, nil
}

// GetEncoding delegates encoding resolution to the engine
func (f *FileService) GetEncoding(resource uri.URI, preferred string) string {
	return f.engine.GetEncoding(resource, preferred)
}

// Watch starts watching a single resource through the coordinator's guards
func (f *FileService) Watch(resource uri.URI) {
	f.coordinator.Watch(resource)
}

// Unwatch stops watching a resource; accepts a URI string or a raw path
func (f *FileService) Unwatch(resourceOrPath string) {
	f.coordinator.Unwatch(resourceOrPath)
}

// Events delivers batched file change events from the engine
func (f *FileService) Events() <-chan []protocol.FileEvent {
	return f.engine.Events()
}

// UpdateOptions forwards the file-related configuration subset to the
// engine, attaching the static encoding overrides. Validation is the
// engine's responsibility.
func (f *FileService) UpdateOptions(cfg types.FileConfiguration) {
	f.engine.UpdateOptions(types.FileOptions{
		Encoding:         cfg.Encoding,
		EncodingOverride: f.overrides,
		WatcherExclude:   cfg.WatcherExclude,
		VerboseLogging:   cfg.VerboseLogging,
	})
}

// Dispose tears down the coordinator, event subscriptions, and the engine.
// It runs exactly once; repeated calls are no-ops.
func (f *FileService) Dispose() {
	f.disposeOnce.Do(func() {
		for _, sub := range f.subscriptions {
			sub.Dispose()
		}
		f.subscriptions = nil

		f.coordinator.Dispose()
		close(f.closed)
		f.engine.Dispose()
	})
}

// errorLoop surfaces engine errors: every error is logged, and the first
// ENOSPC-signature error raises a one-time actionable notification unless
// the user previously dismissed it for good.
func (f *FileService) errorLoop() {
	for {
		select {
		case <-f.closed:
			return
		case err, ok := <-f.engine.Errors():
			if !ok {
				return
			}
			f.handleEngineError(err)
		}
	}
}

func (f *FileService) handleEngineError(err error) {
	f.logger.Error("file engine error: %v", err)

	if !strings.Contains(err.Error(), watchErrorSignature) {
		return
	}

	f.notifiedMu.Lock()
	alreadyNotified := f.watchErrorNotified
	f.watchErrorNotified = true
	f.notifiedMu.Unlock()

	if alreadyNotified || f.messenger == nil {
		return
	}
	if f.storage != nil && f.storage.GetBool(watchErrorNotifiedKey, false) {
		return
	}

	choice := f.messenger.ShowWarning(
		"Unable to watch for file changes. The OS limit of file watch handles has been reached.",
		actionLearnMore, actionNeverShowAgain,
	)
	switch choice {
	case 0:
		f.messenger.OpenExternal(watchErrorHelpURL)
	case 1:
		if f.storage != nil {
			f.storage.SetBool(watchErrorNotifiedKey, true)
		}
	}
}
