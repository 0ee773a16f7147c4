//go:build linux

package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// moveToTrash implements the freedesktop.org trash specification: the file
// is renamed into Trash/files and a matching .trashinfo record is written
// under Trash/info.
func moveToTrash(path string) bool {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return false
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	filesDir := filepath.Join(dataHome, "Trash", "files")
	infoDir := filepath.Join(dataHome, "Trash", "info")
	if err := os.MkdirAll(filesDir, 0700); err != nil {
		return false
	}
	if err := os.MkdirAll(infoDir, 0700); err != nil {
		return false
	}

	if _, err := os.Lstat(path); err != nil {
		return false
	}

	// Pick a free name in Trash/files, appending a counter on collision
	name := filepath.Base(path)
	target := filepath.Join(filesDir, name)
	for counter := 1; ; counter++ {
		if _, err := os.Lstat(target); os.IsNotExist(err) {
			break
		}
		target = filepath.Join(filesDir, fmt.Sprintf("%s.%d", name, counter))
	}

	infoPath := filepath.Join(infoDir, filepath.Base(target)+".trashinfo")
	escaped := (&url.URL{Path: path}).EscapedPath()
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escaped, time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(infoPath, []byte(info), 0600); err != nil {
		return false
	}

	if err := os.Rename(path, target); err != nil {
		os.Remove(infoPath)
		return false
	}
	return true
}
