// Package engine provides the disk-backed file-access engine behind the
// façade: metadata and content resolution, mutation, and per-resource
// filesystem watches.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"file-gateway/src/internal/common"
	"file-gateway/src/internal/types"
	serverencoding "file-gateway/src/server/encoding"
	"file-gateway/src/utils"
)

// ErrNotModified is returned by content resolution when the caller's ETag
// still matches the current state of the file.
var ErrNotModified = errors.New("content not modified")

// DiskEngine implements types.FileEngine on the local filesystem.
type DiskEngine struct {
	optionsMu sync.Mutex
	options   types.FileOptions
	excludes  []glob.Glob

	watchMu  sync.Mutex
	watches  map[string]bool // absolute path -> active
	notifier *fsnotify.Watcher

	events chan []protocol.FileEvent
	errs   chan error

	pendingMu     sync.Mutex
	pending       map[string]protocol.FileEvent
	debounceTimer *time.Timer
	stopped       bool

	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
	disposeOnce sync.Once

	logger *common.SafeLogger
}

// NewDiskEngine creates an engine with the given startup options and begins
// processing watch events.
func NewDiskEngine(options types.FileOptions) (*DiskEngine, error) {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	e := &DiskEngine{
		options:  options,
		excludes: compileExcludes(options.WatcherExclude),
		watches:  make(map[string]bool),
		notifier: notifier,
		events:   make(chan []protocol.FileEvent, 16),
		errs:     make(chan error, 16),
		pending:  make(map[string]protocol.FileEvent),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		logger:   common.FileLogger,
	}
	e.applyVerbosity(options.VerboseLogging)

	go e.watchLoop()

	return e, nil
}

// ResolveMetadata resolves a file or folder. Folder children are resolved
// one level deep; opts can request deeper resolution along specific paths.
func (e *DiskEngine) ResolveMetadata(ctx context.Context, resource uri.URI, opts *types.ResolveOptions) (*types.FileMetadata, error) {
	path := utils.URIToFilePath(string(resource))
	stat, err := e.statFor(path)
	if err != nil {
		return nil, err
	}

	if stat.IsDirectory {
		if err := e.resolveChildren(stat, path, opts); err != nil {
			return nil, err
		}
	}

	return stat, nil
}

// Exists reports whether the resource exists on disk
func (e *DiskEngine) Exists(ctx context.Context, resource uri.URI) (bool, error) {
	_, err := os.Stat(utils.URIToFilePath(string(resource)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ResolveContent resolves the full decoded content of a file
func (e *DiskEngine) ResolveContent(ctx context.Context, resource uri.URI, opts *types.ContentOptions) (*types.FileContent, error) {
	path := utils.URIToFilePath(string(resource))

	stat, err := e.statFor(path)
	if err != nil {
		return nil, err
	}
	if stat.IsDirectory {
		return nil, fmt.Errorf("cannot resolve content of folder %s", stat.Name)
	}
	if opts != nil && opts.ETag != "" && opts.ETag == stat.ETag {
		return nil, ErrNotModified
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &types.FileContent{
		FileMetadata: *stat,
		Encoding:     e.encodingFor(resource, preferredEncoding(opts)),
		Value:        string(data),
	}, nil
}

// ResolveStreamContent resolves file content as a stream; the caller owns
// the reader.
func (e *DiskEngine) ResolveStreamContent(ctx context.Context, resource uri.URI, opts *types.ContentOptions) (*types.FileStreamContent, error) {
	path := utils.URIToFilePath(string(resource))

	stat, err := e.statFor(path)
	if err != nil {
		return nil, err
	}
	if stat.IsDirectory {
		return nil, fmt.Errorf("cannot resolve content of folder %s", stat.Name)
	}
	if opts != nil && opts.ETag != "" && opts.ETag == stat.ETag {
		return nil, ErrNotModified
	}

	reader, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return &types.FileStreamContent{
		FileMetadata: *stat,
		Encoding:     e.encodingFor(resource, preferredEncoding(opts)),
		Reader:       reader,
	}, nil
}

// ResolveContents resolves multiple files, skipping the ones that fail
func (e *DiskEngine) ResolveContents(ctx context.Context, resources []uri.URI) ([]*types.FileContent, error) {
	contents := make([]*types.FileContent, 0, len(resources))
	for _, resource := range resources {
		content, err := e.ResolveContent(ctx, resource, nil)
		if err != nil {
			e.logger.Warn("skipping %s: %v", resource, err)
			continue
		}
		contents = append(contents, content)
	}
	return contents, nil
}

// UpdateContent writes new text content, creating the file and missing
// parent folders as needed.
func (e *DiskEngine) UpdateContent(ctx context.Context, resource uri.URI, value string, opts *types.ContentOptions) (*types.FileMetadata, error) {
	path := utils.URIToFilePath(string(resource))

	if opts != nil && opts.ETag != "" {
		if stat, err := e.statFor(path); err == nil && stat.ETag != opts.ETag {
			return nil, fmt.Errorf("content of %s changed on disk", stat.Name)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return nil, err
	}

	return e.statFor(path)
}

// Move moves a file or folder to a new location
func (e *DiskEngine) Move(ctx context.Context, source, target uri.URI, overwrite bool) (*types.FileMetadata, error) {
	sourcePath := utils.URIToFilePath(string(source))
	targetPath := utils.URIToFilePath(string(target))

	if err := e.checkTarget(targetPath, overwrite); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return nil, err
	}
	if err := os.Rename(sourcePath, targetPath); err != nil {
		return nil, err
	}

	return e.statFor(targetPath)
}

// Copy copies a file or folder to a new location
func (e *DiskEngine) Copy(ctx context.Context, source, target uri.URI, overwrite bool) (*types.FileMetadata, error) {
	sourcePath := utils.URIToFilePath(string(source))
	targetPath := utils.URIToFilePath(string(target))

	if err := e.checkTarget(targetPath, overwrite); err != nil {
		return nil, err
	}
	if err := copyRecursive(sourcePath, targetPath); err != nil {
		return nil, err
	}

	return e.statFor(targetPath)
}

// Create creates a new file with the given content; it fails when the file
// already exists.
func (e *DiskEngine) Create(ctx context.Context, resource uri.URI, content string) (*types.FileMetadata, error) {
	path := utils.URIToFilePath(string(resource))

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("file %s already exists", filepath.Base(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, err
	}

	return e.statFor(path)
}

// CreateFolder creates a folder including missing parents
func (e *DiskEngine) CreateFolder(ctx context.Context, resource uri.URI) (*types.FileMetadata, error) {
	path := utils.URIToFilePath(string(resource))
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, err
	}
	return e.statFor(path)
}

// Touch updates the modification time of a file, creating it when missing
func (e *DiskEngine) Touch(ctx context.Context, resource uri.URI) (*types.FileMetadata, error) {
	path := utils.URIToFilePath(string(resource))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return nil, err
		}
	} else if err := touchNow(path); err != nil {
		return nil, err
	}

	return e.statFor(path)
}

// Rename renames a file or folder within its parent
func (e *DiskEngine) Rename(ctx context.Context, resource uri.URI, newName string) (*types.FileMetadata, error) {
	path := utils.URIToFilePath(string(resource))
	newPath := filepath.Join(filepath.Dir(path), newName)

	if newPath != path {
		if _, err := os.Stat(newPath); err == nil {
			return nil, fmt.Errorf("file %s already exists", newName)
		}
		if err := os.Rename(path, newPath); err != nil {
			return nil, err
		}
	}

	return e.statFor(newPath)
}

// Delete permanently deletes a file or folder
func (e *DiskEngine) Delete(ctx context.Context, resource uri.URI) error {
	return os.RemoveAll(utils.URIToFilePath(string(resource)))
}

// ImportFile copies an external file into the target folder, overwriting an
// existing entry of the same name.
func (e *DiskEngine) ImportFile(ctx context.Context, source, targetFolder uri.URI) (*types.ImportResult, error) {
	sourcePath := utils.URIToFilePath(string(source))
	targetPath := filepath.Join(utils.URIToFilePath(string(targetFolder)), filepath.Base(sourcePath))

	_, statErr := os.Stat(targetPath)
	isNew := os.IsNotExist(statErr)

	if err := copyRecursive(sourcePath, targetPath); err != nil {
		return nil, err
	}

	stat, err := e.statFor(targetPath)
	if err != nil {
		return nil, err
	}

	return &types.ImportResult{IsNew: isNew, Stat: stat}, nil
}

// GetEncoding returns the effective encoding for a resource: a configured
// override wins, then the preferred encoding, then the default.
func (e *DiskEngine) GetEncoding(resource uri.URI, preferred string) string {
	return e.encodingFor(resource, preferred)
}

// UpdateOptions applies a new configuration subset. Encoding overrides are
// replaced wholesale; exclude patterns are recompiled.
func (e *DiskEngine) UpdateOptions(options types.FileOptions) {
	e.optionsMu.Lock()
	e.options = options
	e.excludes = compileExcludes(options.WatcherExclude)
	e.optionsMu.Unlock()

	e.applyVerbosity(options.VerboseLogging)
}

func (e *DiskEngine) encodingFor(resource uri.URI, preferred string) string {
	e.optionsMu.Lock()
	overrides := e.options.EncodingOverride
	fallback := e.options.Encoding
	e.optionsMu.Unlock()

	if override := serverencoding.Resolve(overrides, resource); override != "" {
		return override
	}
	if preferred != "" {
		return preferred
	}
	return fallback
}

func (e *DiskEngine) applyVerbosity(verbose bool) {
	if verbose {
		e.logger.SetLevel(common.LogDebug)
	} else {
		e.logger.SetLevel(common.LogInfo)
	}
}

func (e *DiskEngine) statFor(path string) (*types.FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	stat := &types.FileMetadata{
		Resource:    uri.File(path),
		Name:        filepath.Base(path),
		IsDirectory: info.IsDir(),
		MTime:       info.ModTime(),
	}
	if !info.IsDir() {
		stat.Size = info.Size()
		stat.ETag = fmt.Sprintf("%x-%x", info.ModTime().UnixNano(), info.Size())
	}
	return stat, nil
}

func (e *DiskEngine) resolveChildren(stat *types.FileMetadata, path string, opts *types.ResolveOptions) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())
		child, err := e.statFor(childPath)
		if err != nil {
			// Entries can disappear between ReadDir and Stat
			continue
		}

		if child.IsDirectory && descendInto(childPath, len(entries) == 1, opts) {
			if err := e.resolveChildren(child, childPath, opts); err != nil {
				e.logger.Warn("failed to resolve children of %s: %v", childPath, err)
			}
		}

		stat.Children = append(stat.Children, child)
	}

	return nil
}

// descendInto decides whether child folders are resolved beyond the first
// level, per the resolve options.
func descendInto(childPath string, onlyChild bool, opts *types.ResolveOptions) bool {
	if opts == nil {
		return false
	}
	if opts.ResolveSingleChildDescendants && onlyChild {
		return true
	}
	for _, target := range opts.ResolveTo {
		targetPath := utils.URIToFilePath(string(target))
		if targetPath == childPath || isParentOf(childPath, targetPath) {
			return true
		}
	}
	return false
}

func isParentOf(parent, descendant string) bool {
	rel, err := filepath.Rel(parent, descendant)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && rel != "." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}

func (e *DiskEngine) checkTarget(targetPath string, overwrite bool) error {
	if _, err := os.Stat(targetPath); err == nil && !overwrite {
		return fmt.Errorf("file %s already exists", filepath.Base(targetPath))
	}
	return nil
}

func touchNow(path string) error {
	now := time.Now()
	return os.Chtimes(path, now, now)
}

func preferredEncoding(opts *types.ContentOptions) string {
	if opts == nil {
		return ""
	}
	return opts.Encoding
}

func copyRecursive(source, target string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}

	if info.IsDir() {
		if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := os.ReadDir(source)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := copyRecursive(filepath.Join(source, entry.Name()), filepath.Join(target, entry.Name())); err != nil {
				return err
			}
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func compileExcludes(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			common.FileLogger.Warn("ignoring invalid watcher exclude pattern %q: %v", pattern, err)
			continue
		}
		globs = append(globs, compiled)
	}
	return globs
}

var _ types.FileEngine = (*DiskEngine)(nil)
