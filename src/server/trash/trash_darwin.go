//go:build darwin

package trash

import (
	"fmt"
	"os"
	"path/filepath"
)

// moveToTrash renames the file into the user's ~/.Trash folder, appending a
// counter on name collision.
func moveToTrash(path string) bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}

	trashDir := filepath.Join(home, ".Trash")
	if info, err := os.Stat(trashDir); err != nil || !info.IsDir() {
		return false
	}

	if _, err := os.Lstat(path); err != nil {
		return false
	}

	name := filepath.Base(path)
	target := filepath.Join(trashDir, name)
	for counter := 1; ; counter++ {
		if _, err := os.Lstat(target); os.IsNotExist(err) {
			break
		}
		target = filepath.Join(trashDir, fmt.Sprintf("%s %d", name, counter))
	}

	return os.Rename(path, target) == nil
}
