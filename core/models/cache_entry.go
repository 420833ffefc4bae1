package models

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"time"
)

// CacheEntry holds the entities built from one file at a given content hash.
type CacheEntry struct {
	FilePath  string    `json:"file_path"`
	FileHash  string    `json:"file_hash"`
	Entities  []*Entity `json:"entities"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCacheEntry(filePath, fileHash string, entities []*Entity) *CacheEntry {
	return &CacheEntry{
		FilePath:  filePath,
		FileHash:  fileHash,
		Entities:  CloneEntities(entities),
		CreatedAt: time.Now(),
	}
}

// IsValidFor reports whether the entry was built from content with hash.
func (ce *CacheEntry) IsValidFor(hash string) bool {
	return ce != nil && hash != "" && ce.FileHash == hash
}

// HashFile computes the MD5 hash of a file's content.
func HashFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
