// Package utils converts between file:// URIs and filesystem paths.
package utils

import (
	"strings"

	"go.lsp.dev/uri"
)

// URIToFilePath converts a file:// URI to a filesystem path, decoding
// percent-escapes. Strings that are not file URIs pass through unchanged,
// so callers can hand over either form.
func URIToFilePath(s string) string {
	if !IsFileURI(s) {
		return s
	}
	return uri.URI(s).Filename()
}

// FilePathToURI converts a filesystem path to its canonical file:// URI
func FilePathToURI(path string) string {
	return string(uri.File(path))
}

// IsFileURI reports whether the given string is a file:// URI
func IsFileURI(s string) bool {
	return strings.HasPrefix(s, "file://")
}
