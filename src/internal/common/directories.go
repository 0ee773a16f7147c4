package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SettingsHome returns the directory holding the user-level settings for
// file-gateway, ~/.filegateway by default. The FILEGATEWAY_HOME environment
// variable overrides it.
func SettingsHome() string {
	if custom := os.Getenv("FILEGATEWAY_HOME"); custom != "" {
		return custom
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home directory cannot be determined
		return filepath.Join(".", ".filegateway")
	}
	return filepath.Join(homeDir, ".filegateway")
}

// ValidateAndGetWorkspaceRoot validates and normalizes a workspace root path.
// If root is empty, it returns the current working directory.
func ValidateAndGetWorkspaceRoot(root string) (string, error) {
	if root != "" {
		expandedPath, err := ExpandPath(root)
		if err != nil {
			return "", fmt.Errorf("failed to expand workspace path '%s': %w", root, err)
		}

		absPath, err := filepath.Abs(expandedPath)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path for workspace '%s': %w", expandedPath, err)
		}

		if info, err := os.Stat(absPath); err != nil {
			return "", fmt.Errorf("workspace '%s' does not exist: %w", absPath, err)
		} else if !info.IsDir() {
			return "", fmt.Errorf("workspace '%s' is not a directory", absPath)
		}

		return absPath, nil
	}

	if wd, err := os.Getwd(); err == nil {
		return wd, nil
	}

	return "/tmp", nil
}

// ExpandPath expands ~ to the user's home directory in file paths.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("failed to get user home directory: %w", err)
	}

	if path == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}
