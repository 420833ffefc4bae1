package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tristendillon/ruml/core/logger"
)

type SourceWalker interface {
	Walk(root string) ([]string, error)
}

// SourceWalkerImpl discovers source files below a root directory in
// lexical order.
type SourceWalkerImpl struct {
	Extensions []string
	Exclude    []string
}

func NewSourceWalker(extensions, exclude []string) *SourceWalkerImpl {
	return &SourceWalkerImpl{
		Extensions: extensions,
		Exclude:    exclude,
	}
}

// Walk returns the matching files below root. When root is a file it is
// returned as-is regardless of its extension.
func (w *SourceWalkerImpl) Walk(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && w.IsExcluded(d.Name()) {
				logger.Debug("Excluding directory: %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() && w.Matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	logger.Debug("Discovered %d source files under %s", len(files), root)
	return files, nil
}

// Matches reports whether path ends with one of the configured extensions.
func (w *SourceWalkerImpl) Matches(path string) bool {
	for _, ext := range w.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (w *SourceWalkerImpl) IsExcluded(name string) bool {
	for _, ex := range w.Exclude {
		if name == ex {
			return true
		}
	}
	return false
}
