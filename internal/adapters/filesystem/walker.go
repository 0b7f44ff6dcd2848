package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mediagraph/internal/domain"
	"mediagraph/internal/log"
)

// Walker implements ports.MediaWalker over the local file system
type Walker struct {
	log *log.Logger
}

// NewWalker creates a new Walker
func NewWalker(logger *log.Logger) *Walker {
	return &Walker{log: logger}
}

// Walk visits root depth first in lexical order. Hidden entries are
// skipped, and a save-data directory is reported once without descending.
func (w *Walker) Walk(ctx context.Context, root string, fn func(domain.ScanEntry) error) error {
	root = filepath.Clean(root)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.log.Warn("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !IsSaveData(path) {
				return nil
			}
			if err := fn(domain.ScanEntry{Path: path, Category: domain.CategorySaveData}); err != nil {
				return err
			}
			return filepath.SkipDir
		}

		if !d.Type().IsRegular() {
			return nil
		}
		category, ok := domain.ClassifyPath(path)
		if !ok {
			w.log.Debug("ignoring %s", path)
			return nil
		}
		return fn(domain.ScanEntry{Path: path, Category: category})
	})
}

// IsSaveData reports whether dir holds a save-data descriptor
func IsSaveData(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, domain.SaveDescriptorName))
	return err == nil && info.Mode().IsRegular()
}
