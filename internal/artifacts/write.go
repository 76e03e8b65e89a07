package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteDir writes files below dir. Files are private to the current user
// because they carry the cluster password; bootstrap scripts are executable.
func WriteDir(dir string, files []File) error {
	for _, f := range files {
		target := filepath.Join(dir, filepath.FromSlash(f.Path()))
		if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.Path(), err)
		}
		mode := os.FileMode(0o600)
		if f.Name == BootstrapFile {
			mode = 0o700
		}
		if err := os.WriteFile(target, f.Data, mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path(), err)
		}
	}
	return nil
}
