// Package fsutil holds small filesystem helpers shared by the writers.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes content to path atomically: it creates missing parent
// directories, writes a temp file next to the target and renames it into
// place. On failure the temp file is removed and the target is untouched.
func WriteFile(path string, content []byte, perm os.FileMode) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(abs)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", abs, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp %s: %w", abs, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp %s: %w", abs, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", abs, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", abs, err)
	}
	return nil
}
