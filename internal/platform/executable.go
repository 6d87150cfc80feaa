package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExecutablePath returns the absolute, symlink-free path of the running
// executable.
func ExecutablePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return exe, nil
	}
	return resolved, nil
}

// IsUNCPath reports whether path names a network share (\\server\share or
// //server/share). Setup never extracts onto such paths.
func IsUNCPath(path string) bool {
	return strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
}

// ResolveLink follows path if it is a symlink (or junction on Windows) and
// returns the final target. A plain directory resolves to itself.
func ResolveLink(path string) (string, error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return target, nil
}
