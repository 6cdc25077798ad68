package site

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists rendered documents under the site root, creating
// directories as needed. Existing files are overwritten unconditionally, the
// generator is idempotent and the output tree is fully owned by it.
type Writer struct {
	root string
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Write stores content at the given path relative to the site root
func (w *Writer) Write(relPath, content string) error {
	path := filepath.Join(w.root, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", relPath, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // generated pages are public
		return fmt.Errorf("write %s: %w", relPath, err)
	}
	return nil
}

// Path resolves a site-relative path to its absolute location
func (w *Writer) Path(relPath string) string {
	return filepath.Join(w.root, relPath)
}
