package models

import (
	"github.com/tristendillon/ruml/core/models"
)

// ContentCacheInterface manages file content tracking (Layer 1)
type ContentCacheInterface interface {
	// UpdateContent checks if file content has changed and updates entry
	UpdateContent(filePath string) (*ContentEntry, bool, error) // entry, changed, error

	// GetContent retrieves current content entry
	GetContent(filePath string) (*ContentEntry, bool) // entry, exists

	// RemoveContent removes entry for deleted files
	RemoveContent(filePath string) error

	GetStats() *CacheStats

	Clear() error
}

// ParseCacheInterface manages entities built per file (Layer 2)
type ParseCacheInterface interface {
	SetEntry(entry *models.CacheEntry) error

	GetEntry(filePath string) (*models.CacheEntry, bool)

	InvalidateParse(filePath string) error

	GetStats() *CacheStats

	Clear() error
}

// StoreInterface persists parse entries across runs (Layer 3)
type StoreInterface interface {
	Get(filePath string) (*models.CacheEntry, bool, error)

	Put(entry *models.CacheEntry) error

	Delete(filePath string) error

	GetStats() *CacheStats

	Close() error
}

// CacheManagerInterface provides unified cache coordination
type CacheManagerInterface interface {
	// Lookup returns the entities for a file if its current content was
	// already built.
	Lookup(filePath string) ([]*models.Entity, bool, error)

	// Store records the entities built from a file's current content.
	Store(filePath string, entities []*models.Entity) error

	// Invalidate drops everything known about a file.
	Invalidate(filePath string)

	// HandleFileChange reports whether a change event requires regeneration.
	HandleFileChange(event *ChangeEvent) (bool, error)

	GetStats() map[string]*CacheStats

	Close() error
}
