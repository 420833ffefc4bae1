package layers

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tristendillon/ruml/core/cache/models"
	"github.com/tristendillon/ruml/core/logger"
	coreModels "github.com/tristendillon/ruml/core/models"
)

// ParseCache implements Layer 2: entities built per file, kept in memory
type ParseCache struct {
	entries map[string]*coreModels.CacheEntry
	mutex   sync.RWMutex
	hits    atomic.Int64
	misses  atomic.Int64
}

func NewParseCache() *ParseCache {
	return &ParseCache{
		entries: make(map[string]*coreModels.CacheEntry),
	}
}

func (pc *ParseCache) SetEntry(entry *coreModels.CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	pc.mutex.Lock()
	defer pc.mutex.Unlock()

	pc.entries[entry.FilePath] = entry
	logger.Debug("ParseCache: Stored %d entities for %s", len(entry.Entities), entry.FilePath)
	return nil
}

func (pc *ParseCache) GetEntry(filePath string) (*coreModels.CacheEntry, bool) {
	pc.mutex.RLock()
	defer pc.mutex.RUnlock()

	entry, exists := pc.entries[filePath]
	if exists {
		pc.hits.Add(1)
		logger.Debug("ParseCache: Hit for %s", filePath)
	} else {
		pc.misses.Add(1)
		logger.Debug("ParseCache: Miss for %s", filePath)
	}
	return entry, exists
}

func (pc *ParseCache) InvalidateParse(filePath string) error {
	pc.mutex.Lock()
	defer pc.mutex.Unlock()

	if _, exists := pc.entries[filePath]; exists {
		delete(pc.entries, filePath)
		logger.Debug("ParseCache: Invalidated entities for %s", filePath)
	}
	return nil
}

func (pc *ParseCache) GetStats() *models.CacheStats {
	pc.mutex.RLock()
	defer pc.mutex.RUnlock()

	return models.NewCacheStats(len(pc.entries), pc.hits.Load(), pc.misses.Load())
}

func (pc *ParseCache) Clear() error {
	pc.mutex.Lock()
	defer pc.mutex.Unlock()

	pc.entries = make(map[string]*coreModels.CacheEntry)
	pc.hits.Store(0)
	pc.misses.Store(0)
	logger.Debug("ParseCache: Cleared all entries")
	return nil
}

func (pc *ParseCache) GetFilesCount() int {
	pc.mutex.RLock()
	defer pc.mutex.RUnlock()
	return len(pc.entries)
}
