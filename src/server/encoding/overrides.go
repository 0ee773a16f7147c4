// Package encoding computes per-resource text-encoding overrides from the
// environment and workspace configuration directories.
package encoding

import (
	"path/filepath"
	"strings"

	"go.lsp.dev/uri"

	"file-gateway/src/internal/types"
	"file-gateway/src/utils"
)

const (
	// UTF8 is the encoding forced for configuration directories
	UTF8 = "utf8"

	// WorkspaceConfigFolder is the fixed configuration subdirectory inside a
	// workspace root
	WorkspaceConfigFolder = ".filegateway"
)

// ComputeOverrides builds the static override list applied for the lifetime
// of the service. The environment settings home is always present; the
// workspace configuration folder is appended when a workspace is open
// (workspaceRoot non-empty). Configuration changes do not recompute this
// list, only the default encoding is live.
func ComputeOverrides(settingsHome, workspaceRoot string) []types.EncodingOverride {
	overrides := []types.EncodingOverride{
		{Resource: uri.File(settingsHome), Encoding: UTF8},
	}

	if workspaceRoot != "" {
		overrides = append(overrides, types.EncodingOverride{
			Resource: uri.File(filepath.Join(workspaceRoot, WorkspaceConfigFolder)),
			Encoding: UTF8,
		})
	}

	return overrides
}

// Resolve returns the override encoding for a resource, longest matching
// root wins. It returns the empty string when no override applies.
func Resolve(overrides []types.EncodingOverride, resource uri.URI) string {
	resourcePath := utils.URIToFilePath(string(resource))

	best := ""
	bestLen := -1
	for _, override := range overrides {
		root := utils.URIToFilePath(string(override.Resource))
		if isUnder(resourcePath, root) && len(root) > bestLen {
			best = override.Encoding
			bestLen = len(root)
		}
	}
	return best
}

func isUnder(path, root string) bool {
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}
