//go:build !linux && !darwin

package trash

// moveToTrash reports failure on platforms without a trash implementation;
// callers fall back to surfacing an error instead of deleting.
func moveToTrash(path string) bool {
	return false
}
