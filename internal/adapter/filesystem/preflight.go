package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// ErrNotDirectory is returned when an output path exists but is not a directory
var ErrNotDirectory = errors.New("not a directory")

// CheckOutputDir verifies that dir is, or can become, a writable directory.
// Nothing is created. For a missing dir the nearest existing ancestor is checked.
func (m *Manager) CheckOutputDir(dir string) error {
	path := filepath.Clean(dir)
	for {
		info, err := os.Stat(path)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s: %w", path, ErrNotDirectory)
			}
			if err := checkWritable(path); err != nil {
				return fmt.Errorf("%s is not writable: %w", path, err)
			}
			return nil
		}
		if errors.Is(err, syscall.ENOTDIR) {
			// Some ancestor is a regular file
			return fmt.Errorf("%s: %w", dir, ErrNotDirectory)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		parent := filepath.Dir(path)
		if parent == path {
			return fmt.Errorf("failed to stat %s: %w", dir, err)
		}
		path = parent
	}
}
