package engine

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"file-gateway/src/utils"
)

// debounceDelay batches rapid change bursts into one event delivery
const debounceDelay = 500 * time.Millisecond

// Watch starts watching a single resource. Watching an already-watched
// resource or one matching an exclude pattern is a no-op.
func (e *DiskEngine) Watch(resource uri.URI) {
	path := utils.URIToFilePath(string(resource))
	if path == "" {
		return
	}

	if e.isExcluded(path) {
		e.logger.Debug("not watching excluded path %s", path)
		return
	}

	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if e.watches[path] {
		// Guard against duplicate native registrations
		return
	}

	if err := e.notifier.Add(path); err != nil {
		e.reportError(err)
		return
	}
	e.watches[path] = true
	e.logger.Debug("added watch for %s", path)
}

// Unwatch stops watching a resource; unknown resources are tolerated
func (e *DiskEngine) Unwatch(resource uri.URI) {
	path := utils.URIToFilePath(string(resource))

	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if !e.watches[path] {
		return
	}

	if err := e.notifier.Remove(path); err != nil {
		e.logger.Debug("failed to remove watch for %s: %v", path, err)
	}
	delete(e.watches, path)
	e.logger.Debug("removed watch for %s", path)
}

// Events delivers batched file change events from active watches
func (e *DiskEngine) Events() <-chan []protocol.FileEvent {
	return e.events
}

// Errors delivers asynchronous engine errors
func (e *DiskEngine) Errors() <-chan error {
	return e.errs
}

// Dispose releases all watches, stops the event loop, and closes the event
// stream so consumers ranging over Events drain and exit. Subsequent calls
// are no-ops.
func (e *DiskEngine) Dispose() {
	e.disposeOnce.Do(func() {
		e.cancel()

		e.watchMu.Lock()
		e.watches = make(map[string]bool)
		e.watchMu.Unlock()

		if err := e.notifier.Close(); err != nil {
			e.logger.Warn("failed to close watcher: %v", err)
		}

		<-e.done

		e.pendingMu.Lock()
		e.stopped = true
		if e.debounceTimer != nil {
			e.debounceTimer.Stop()
		}
		e.pending = nil
		e.pendingMu.Unlock()

		close(e.events)
	})
}

// watchLoop is the main event processing loop
func (e *DiskEngine) watchLoop() {
	defer close(e.done)

	for {
		select {
		case <-e.ctx.Done():
			return

		case event, ok := <-e.notifier.Events:
			if !ok {
				return
			}
			e.handleEvent(event)

		case err, ok := <-e.notifier.Errors:
			if !ok {
				return
			}
			e.reportError(err)
		}
	}
}

// handleEvent records a file system event with debouncing
func (e *DiskEngine) handleEvent(event fsnotify.Event) {
	var changeType protocol.FileChangeType
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		changeType = protocol.FileChangeTypeCreated
	case event.Op&fsnotify.Write == fsnotify.Write:
		changeType = protocol.FileChangeTypeChanged
	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		changeType = protocol.FileChangeTypeDeleted
	default:
		return // Ignore other operations
	}

	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()

	if e.stopped {
		return
	}

	e.pending[event.Name] = protocol.FileEvent{
		URI:  uri.File(event.Name),
		Type: changeType,
	}

	// Reset debounce timer
	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
	}
	e.debounceTimer = time.AfterFunc(debounceDelay, e.flushEvents)
}

// flushEvents delivers all pending events in one batch. The send happens
// under the pending lock so it cannot race a disposal closing the channel;
// cancellation unblocks it.
func (e *DiskEngine) flushEvents() {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()

	if e.stopped || len(e.pending) == 0 {
		return
	}

	batch := make([]protocol.FileEvent, 0, len(e.pending))
	for _, event := range e.pending {
		batch = append(batch, event)
	}
	e.pending = make(map[string]protocol.FileEvent)

	select {
	case e.events <- batch:
	case <-e.ctx.Done():
	}
}

func (e *DiskEngine) reportError(err error) {
	e.logger.Error("engine error: %v", err)

	// Never block the loop on a slow or absent consumer
	select {
	case e.errs <- err:
	default:
	}
}

func (e *DiskEngine) isExcluded(path string) bool {
	slashed := filepath.ToSlash(path)

	e.optionsMu.Lock()
	defer e.optionsMu.Unlock()

	for _, pattern := range e.excludes {
		if pattern.Match(slashed) {
			return true
		}
	}
	return false
}
