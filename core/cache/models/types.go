package models

import (
	"time"
)

// ContentEntry tracks file content state (Layer 1)
type ContentEntry struct {
	FilePath    string    `json:"file_path"`
	ContentHash string    `json:"content_hash"`
	ModTime     time.Time `json:"mod_time"`
	Size        int64     `json:"size"`
	Exists      bool      `json:"exists"`
}

// CacheStats provides metrics about cache performance
type CacheStats struct {
	TotalFiles  int       `json:"total_files"`
	CacheHits   int64     `json:"cache_hits"`
	CacheMisses int64     `json:"cache_misses"`
	HitRate     float64   `json:"hit_rate"`
	LastUpdate  time.Time `json:"last_update"`
}

func NewCacheStats(total int, hits, misses int64) *CacheStats {
	hitRate := 0.0
	if sum := hits + misses; sum > 0 {
		hitRate = float64(hits) / float64(sum) * 100
	}
	return &CacheStats{
		TotalFiles:  total,
		CacheHits:   hits,
		CacheMisses: misses,
		HitRate:     hitRate,
		LastUpdate:  time.Now(),
	}
}

// ChangeEvent represents a file system change observed by the watcher
type ChangeEvent struct {
	FilePath  string    `json:"file_path"`
	EventType string    `json:"event_type"` // "write", "create", "delete", "rename"
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeEvent(filePath, eventType string) *ChangeEvent {
	return &ChangeEvent{
		FilePath:  filePath,
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
