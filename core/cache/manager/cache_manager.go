package manager

import (
	"fmt"

	"github.com/tristendillon/ruml/core/cache/layers"
	"github.com/tristendillon/ruml/core/cache/models"
	"github.com/tristendillon/ruml/core/logger"
	coreModels "github.com/tristendillon/ruml/core/models"
)

// CacheManager coordinates all cache layers and provides unified interface
type CacheManager struct {
	content models.ContentCacheInterface
	parse   models.ParseCacheInterface
	store   models.StoreInterface
}

// NewCacheManager creates an in-memory cache manager.
func NewCacheManager() *CacheManager {
	return &CacheManager{
		content: layers.NewContentCache(),
		parse:   layers.NewParseCache(),
	}
}

// NewPersistentCacheManager creates a cache manager backed by a bbolt file.
func NewPersistentCacheManager(path string) (*CacheManager, error) {
	store, err := layers.OpenBoltStore(path)
	if err != nil {
		return nil, err
	}
	return NewCacheManagerWithLayers(layers.NewContentCache(), layers.NewParseCache(), store), nil
}

// NewCacheManagerWithLayers creates a cache manager with custom layer
// implementations. store may be nil.
func NewCacheManagerWithLayers(
	content models.ContentCacheInterface,
	parse models.ParseCacheInterface,
	store models.StoreInterface,
) *CacheManager {
	return &CacheManager{
		content: content,
		parse:   parse,
		store:   store,
	}
}

// Lookup returns a copy of the entities last stored for filePath if the
// file's content has not changed since.
func (cm *CacheManager) Lookup(filePath string) ([]*coreModels.Entity, bool, error) {
	contentEntry, contentChanged, err := cm.content.UpdateContent(filePath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check content for %s: %w", filePath, err)
	}

	if contentEntry == nil || !contentEntry.Exists {
		cm.Invalidate(filePath)
		return nil, false, nil
	}

	if contentChanged {
		cm.parse.InvalidateParse(filePath)
	}

	if entry, ok := cm.parse.GetEntry(filePath); ok && entry.IsValidFor(contentEntry.ContentHash) {
		return coreModels.CloneEntities(entry.Entities), true, nil
	}

	if cm.store == nil {
		return nil, false, nil
	}

	entry, ok, err := cm.store.Get(filePath)
	if err != nil {
		return nil, false, err
	}
	if !ok || !entry.IsValidFor(contentEntry.ContentHash) {
		return nil, false, nil
	}

	logger.Debug("CacheManager: Restored %s from persistent cache", filePath)
	if err := cm.parse.SetEntry(entry); err != nil {
		return nil, false, err
	}
	return coreModels.CloneEntities(entry.Entities), true, nil
}

// Store records entities as the build result of filePath's current content.
func (cm *CacheManager) Store(filePath string, entities []*coreModels.Entity) error {
	contentEntry, exists := cm.content.GetContent(filePath)
	if !exists {
		var err error
		contentEntry, _, err = cm.content.UpdateContent(filePath)
		if err != nil {
			return fmt.Errorf("failed to check content for %s: %w", filePath, err)
		}
		if contentEntry == nil {
			return fmt.Errorf("no content entry found for %s", filePath)
		}
	}

	entry := coreModels.NewCacheEntry(filePath, contentEntry.ContentHash, entities)
	if err := cm.parse.SetEntry(entry); err != nil {
		return fmt.Errorf("failed to store entities: %w", err)
	}

	if cm.store != nil {
		if err := cm.store.Put(entry); err != nil {
			return fmt.Errorf("failed to persist entities for %s: %w", filePath, err)
		}
	}
	return nil
}

// Invalidate drops everything known about filePath.
func (cm *CacheManager) Invalidate(filePath string) {
	cm.content.RemoveContent(filePath)
	cm.parse.InvalidateParse(filePath)
	if cm.store != nil {
		if err := cm.store.Delete(filePath); err != nil {
			logger.Debug("CacheManager: Failed to delete %s from persistent cache: %v", filePath, err)
		}
	}
}

// HandleFileChange processes a file system change event and reports whether
// the diagram has to be regenerated.
func (cm *CacheManager) HandleFileChange(event *models.ChangeEvent) (bool, error) {
	logger.Debug("CacheManager: Handling file change: %s (%s)", event.FilePath, event.EventType)

	switch event.EventType {
	case "delete", "rename":
		_, known := cm.content.GetContent(event.FilePath)
		cm.Invalidate(event.FilePath)
		return known, nil
	case "write", "create":
		_, changed, err := cm.content.UpdateContent(event.FilePath)
		if err != nil {
			return false, fmt.Errorf("failed to update content cache: %w", err)
		}
		if changed {
			cm.parse.InvalidateParse(event.FilePath)
		}
		return changed, nil
	default:
		return false, fmt.Errorf("unknown event type: %s", event.EventType)
	}
}

func (cm *CacheManager) GetStats() map[string]*models.CacheStats {
	stats := map[string]*models.CacheStats{
		"content": cm.content.GetStats(),
		"parse":   cm.parse.GetStats(),
	}
	if cm.store != nil {
		stats["store"] = cm.store.GetStats()
	}
	return stats
}

// Clear resets the in-memory layers.
func (cm *CacheManager) Clear() error {
	if err := cm.content.Clear(); err != nil {
		return fmt.Errorf("failed to clear content cache: %w", err)
	}
	if err := cm.parse.Clear(); err != nil {
		return fmt.Errorf("failed to clear parse cache: %w", err)
	}

	logger.Debug("CacheManager: Cleared all cache layers")
	return nil
}

func (cm *CacheManager) Close() error {
	if cm.store == nil {
		return nil
	}
	return cm.store.Close()
}
