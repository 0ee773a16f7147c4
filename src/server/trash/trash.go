// Package trash moves files to the OS-provided trash location so deletions
// stay reversible. Platform behavior lives in per-GOOS files; platforms
// without a trash implementation report failure and leave the file in place.
package trash

import (
	"file-gateway/src/internal/common"
)

// OSTrash implements types.Trasher on top of the platform trash mechanism.
type OSTrash struct {
	logger *common.SafeLogger
}

// New creates a trash mover using the platform implementation
func New() *OSTrash {
	return &OSTrash{logger: common.FileLogger}
}

// MoveToTrash moves the file at the given absolute path to the trash. It
// reports false when the platform call fails; the file is untouched in that
// case.
func (t *OSTrash) MoveToTrash(path string) bool {
	ok := moveToTrash(path)
	if !ok {
		t.logger.Warn("failed to move %s to trash", path)
	}
	return ok
}
