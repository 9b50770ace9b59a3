package fsutil

import (
	"fmt"
	"os"
)

// CreateTemp creates an empty temp file and returns its path. The file is
// closed before returning; callers that need a handle reopen it. Callers own
// the file and must Remove it when the binding that created it changes.
func CreateTemp(pattern string) (string, error) {
	if pattern == "" {
		pattern = "diffprep-*"
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

// Remove deletes the named file. A missing file is not an error: temp
// cleanup must be idempotent.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
