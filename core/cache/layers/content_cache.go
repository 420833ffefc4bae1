package layers

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/tristendillon/ruml/core/cache/models"
	"github.com/tristendillon/ruml/core/logger"
	coreModels "github.com/tristendillon/ruml/core/models"
)

// ContentCache implements Layer 1: it remembers the hash, size and mtime of
// every source file it has seen and reports when the content moved on.
type ContentCache struct {
	entries map[string]*models.ContentEntry
	mutex   sync.RWMutex
	hits    atomic.Int64
	misses  atomic.Int64
}

func NewContentCache() *ContentCache {
	return &ContentCache{
		entries: make(map[string]*models.ContentEntry),
	}
}

// UpdateContent refreshes the entry for filePath and reports whether the
// file differs from what was last recorded. A deleted file returns its last
// entry with Exists unset.
func (cc *ContentCache) UpdateContent(filePath string) (*models.ContentEntry, bool, error) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	previous, known := cc.entries[filePath]

	stat, err := os.Stat(filePath)
	switch {
	case os.IsNotExist(err):
		if !known {
			return nil, false, nil
		}
		delete(cc.entries, filePath)
		gone := *previous
		gone.Exists = false
		logger.Debug("ContentCache: %s was deleted", filePath)
		return &gone, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}

	if known && sameMetadata(previous, stat) {
		cc.hits.Add(1)
		return previous, false, nil
	}

	hash, err := coreModels.HashFile(filePath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to calculate hash for %s: %w", filePath, err)
	}

	current := &models.ContentEntry{
		FilePath:    filePath,
		ContentHash: hash,
		ModTime:     stat.ModTime(),
		Size:        stat.Size(),
		Exists:      true,
	}
	cc.entries[filePath] = current

	if known && previous.ContentHash == hash {
		// Touched, not edited.
		cc.hits.Add(1)
		return current, false, nil
	}

	cc.misses.Add(1)
	if known {
		logger.Debug("ContentCache: %s changed (%s -> %s)", filePath, short(previous.ContentHash), short(hash))
	} else {
		logger.Debug("ContentCache: tracking %s", filePath)
	}
	return current, true, nil
}

func sameMetadata(entry *models.ContentEntry, stat os.FileInfo) bool {
	return entry.Size == stat.Size() && entry.ModTime.Equal(stat.ModTime())
}

func (cc *ContentCache) GetContent(filePath string) (*models.ContentEntry, bool) {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()

	entry, exists := cc.entries[filePath]
	return entry, exists
}

// SetContent records entry as-is. Tests use it to seed stale state.
func (cc *ContentCache) SetContent(filePath string, entry *models.ContentEntry) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	cc.entries[filePath] = entry
}

func (cc *ContentCache) RemoveContent(filePath string) error {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	delete(cc.entries, filePath)
	return nil
}

func (cc *ContentCache) GetStats() *models.CacheStats {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()

	return models.NewCacheStats(len(cc.entries), cc.hits.Load(), cc.misses.Load())
}

func (cc *ContentCache) Clear() error {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	clear(cc.entries)
	cc.hits.Store(0)
	cc.misses.Store(0)
	return nil
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
