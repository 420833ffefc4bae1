package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	cacheModels "github.com/tristendillon/ruml/core/cache/models"
	"github.com/tristendillon/ruml/core/logger"
	"github.com/tristendillon/ruml/core/models"
	"github.com/tristendillon/ruml/core/walker"
)

type FileWatcher interface {
	Watch(ctx context.Context) error
	Close() error
}

// FileWatcherImpl regenerates the diagram when a matching source file under
// the root directory changes.
type FileWatcherImpl struct {
	FileWatcher *models.FileWatcher
	Walker      *walker.SourceWalkerImpl
	Cache       cacheModels.CacheManagerInterface
}

// NewFileWatcher creates a watcher for rootDir. cache may be nil, in which
// case every matching event triggers regeneration.
func NewFileWatcher(rootDir string, w *walker.SourceWalkerImpl, cache cacheModels.CacheManagerInterface) (*FileWatcherImpl, error) {
	fw, err := models.NewFileWatcher(rootDir, w.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &FileWatcherImpl{
		FileWatcher: fw,
		Walker:      w,
		Cache:       cache,
	}, nil
}

// Watch blocks until ctx is done or the underlying watcher fails.
func (fw *FileWatcherImpl) Watch(ctx context.Context) error {
	if err := fw.addWatchersRecursively(fw.FileWatcher.RootDir); err != nil {
		return fmt.Errorf("failed to add watchers: %w", err)
	}

	if err := fw.FileWatcher.OnStart(); err != nil {
		logger.Error("Watcher.OnStart failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.FileWatcher.Watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if fw.shouldExcludePath(event.Name) {
				continue
			}

			logger.Debug("File event: %s %s", event.Op, event.Name)

			if event.Has(fsnotify.Create) {
				if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
					if err := fw.addWatchersRecursively(event.Name); err != nil {
						logger.Error("Failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			if fw.handleEvent(event) {
				fw.debounceGenerate()
			}

		case err, ok := <-fw.FileWatcher.Watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

// handleEvent reports whether event should trigger a regeneration.
func (fw *FileWatcherImpl) handleEvent(event fsnotify.Event) bool {
	if !fw.Walker.Matches(event.Name) {
		return false
	}

	eventType := eventType(event)
	if eventType == "" {
		return false
	}
	if fw.Cache == nil {
		return true
	}

	regenerate, err := fw.Cache.HandleFileChange(cacheModels.NewChangeEvent(event.Name, eventType))
	if err != nil {
		logger.Warn("Failed to update cache for %s: %v", event.Name, err)
		fw.Cache.Invalidate(event.Name)
		return true
	}
	if !regenerate {
		logger.Debug("Content unchanged for %s", event.Name)
	}
	return regenerate
}

func eventType(event fsnotify.Event) string {
	switch {
	case event.Has(fsnotify.Remove):
		return "delete"
	case event.Has(fsnotify.Rename):
		return "rename"
	case event.Has(fsnotify.Create):
		return "create"
	case event.Has(fsnotify.Write):
		return "write"
	default:
		return ""
	}
}

func (fw *FileWatcherImpl) debounceGenerate() {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	fw.FileWatcher.DebounceTimer = time.AfterFunc(fw.FileWatcher.Debounce, func() {
		logger.Debug("File changes detected, regenerating...")
		if err := fw.FileWatcher.OnChange(); err != nil {
			logger.Error("Watcher.OnChange failed: %v", err)
		}
	})
}

func (fw *FileWatcherImpl) Close() error {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	if err := fw.FileWatcher.OnClose(); err != nil {
		logger.Error("Watcher.OnClose failed: %v", err)
	}

	return fw.FileWatcher.Watcher.Close()
}

// shouldExcludePath reports whether any directory of path below the root
// has an excluded name.
func (fw *FileWatcherImpl) shouldExcludePath(path string) bool {
	relPath, err := filepath.Rel(fw.FileWatcher.RootDir, path)
	if err != nil || relPath == "." {
		return false
	}

	for _, part := range strings.Split(filepath.Clean(relPath), string(filepath.Separator)) {
		for _, name := range fw.FileWatcher.ExcludeNames {
			if part == name {
				return true
			}
		}
	}
	return false
}

func (fw *FileWatcherImpl) addWatchersRecursively(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		if fw.shouldExcludePath(path) {
			logger.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}

		logger.Debug("Adding watcher for: %s", path)
		if err := fw.FileWatcher.Watcher.Add(path); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", path, err)
		}
		return nil
	})
}
