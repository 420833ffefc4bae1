package layers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tristendillon/ruml/core/cache/models"
	"github.com/tristendillon/ruml/core/logger"
	coreModels "github.com/tristendillon/ruml/core/models"
)

const entriesBucket = "entries"

// BoltStore implements Layer 3: cache entries persisted in a bbolt file,
// keyed by source path.
type BoltStore struct {
	db     *bolt.DB
	hits   atomic.Int64
	misses atomic.Int64
}

// OpenBoltStore opens (or creates) the store at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(entriesBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	logger.Debug("BoltStore: Opened %s", path)
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(filePath string) (*coreModels.CacheEntry, bool, error) {
	var entry *coreModels.CacheEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(entriesBucket)).Get([]byte(filePath))
		if data == nil {
			return nil
		}
		entry = &coreModels.CacheEntry{}
		return json.Unmarshal(data, entry)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry for %s: %w", filePath, err)
	}

	if entry == nil {
		s.misses.Add(1)
		return nil, false, nil
	}
	s.hits.Add(1)
	return entry, true, nil
}

func (s *BoltStore) Put(entry *coreModels.CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry for %s: %w", entry.FilePath, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(entriesBucket)).Put([]byte(entry.FilePath), data)
	})
}

func (s *BoltStore) Delete(filePath string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(entriesBucket)).Delete([]byte(filePath))
	})
}

func (s *BoltStore) GetStats() *models.CacheStats {
	total := 0
	_ = s.db.View(func(tx *bolt.Tx) error {
		total = tx.Bucket([]byte(entriesBucket)).Stats().KeyN
		return nil
	})
	return models.NewCacheStats(total, s.hits.Load(), s.misses.Load())
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
