package types

import (
	"io"
	"time"

	"go.lsp.dev/uri"
)

// FileMetadata describes a resolved file or folder.
type FileMetadata struct {
	// Resource is the canonical file URI of the entry
	Resource uri.URI `json:"resource"`

	// Name is the base name of the entry
	Name string `json:"name"`

	// IsDirectory indicates a folder rather than a file
	IsDirectory bool `json:"isDirectory"`

	// Size is the file size in bytes, zero for folders
	Size int64 `json:"size"`

	// MTime is the last modification time
	MTime time.Time `json:"mtime"`

	// ETag is an opaque version marker derived from size and mtime
	ETag string `json:"etag,omitempty"`

	// Children holds resolved child entries for folders, when requested
	Children []*FileMetadata `json:"children,omitempty"`
}

// FileContent is a fully buffered file resolution result.
type FileContent struct {
	FileMetadata

	// Encoding is the encoding the content was decoded with
	Encoding string `json:"encoding"`

	// Value is the decoded text content
	Value string `json:"value"`
}

// FileStreamContent is a streamed file resolution result. The caller owns
// the reader and must close it.
type FileStreamContent struct {
	FileMetadata

	Encoding string
	Reader   io.ReadCloser
}

// ImportResult is the normalized shape of an import operation.
type ImportResult struct {
	// IsNew is true when the import created a new entry rather than
	// overwriting an existing one
	IsNew bool `json:"isNew"`

	// Stat describes the resulting entry
	Stat *FileMetadata `json:"stat,omitempty"`
}

// ResolveOptions controls metadata resolution depth.
type ResolveOptions struct {
	// ResolveTo lists descendant resources whose parent chain should be
	// resolved as part of the request
	ResolveTo []uri.URI

	// ResolveSingleChildDescendants resolves chains of single-child folders
	ResolveSingleChildDescendants bool
}

// ContentOptions controls content resolution and updates.
type ContentOptions struct {
	// Encoding overrides the detected encoding when non-empty
	Encoding string

	// ETag makes resolution conditional; resolution fails when the current
	// state still matches
	ETag string
}

// EncodingOverride maps every resource under Resource to Encoding,
// regardless of the configured default.
type EncodingOverride struct {
	Resource uri.URI
	Encoding string
}

// FileOptions is the file-related configuration subset handed to the engine
// at startup and on every configuration change.
type FileOptions struct {
	// Encoding is the default text encoding
	Encoding string

	// EncodingOverride lists per-root encoding overrides, longest prefix wins
	EncodingOverride []EncodingOverride

	// WatcherExclude lists glob patterns excluded from file watching
	WatcherExclude []string

	// VerboseLogging enables debug-level engine logging
	VerboseLogging bool
}
