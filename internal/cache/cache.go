// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides a content-addressed, JSON-backed key/value store
// that makes repeated enrichment runs incremental. The whole mapping is
// loaded at construction and rewritten on Flush; there are no background
// writes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Key returns the cache key for the given input parts. Parts are
// lowercased and whitespace-collapsed before hashing, so semantically
// identical inputs (case or spacing differences) address the same record.
func Key(parts ...string) string {
	norm := make([]string, len(parts))
	for i, p := range parts {
		norm[i] = strings.Join(strings.Fields(strings.ToLower(p)), " ")
	}
	sum := sha256.Sum256([]byte(strings.Join(norm, "|")))
	return hex.EncodeToString(sum[:16])
}

// Cache is an on-disk mapping from Key to a JSON-serializable record.
// It owns its records for the process lifetime; Get returns copies.
// A Cache is not safe for concurrent use; the pipeline is single-threaded
// per publication and each worker must own its own instance.
type Cache[T any] struct {
	path    string
	records map[string]T
	dirty   bool
}

// Load opens the cache at path. A missing or unparsable backing file is
// not an error: the cache starts empty and a warning is written to w.
func Load[T any](path string, w io.Writer) *Cache[T] {
	c := &Cache[T]{path: path, records: make(map[string]T)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(w, "warning: could not read cache %s: %v\n", path, err)
		}
		return c
	}
	if err := json.Unmarshal(data, &c.records); err != nil {
		fmt.Fprintf(w, "warning: cache %s is corrupt, starting empty: %v\n", path, err)
		c.records = make(map[string]T)
	}
	return c
}

// Get returns the record for key and whether it was present.
func (c *Cache[T]) Get(key string) (T, bool) {
	rec, ok := c.records[key]
	return rec, ok
}

// Put stores rec under key, replacing any previous record.
func (c *Cache[T]) Put(key string, rec T) {
	c.records[key] = rec
	c.dirty = true
}

// Len returns the number of cached records.
func (c *Cache[T]) Len() int {
	return len(c.records)
}

// Keys returns all cache keys in unspecified order.
func (c *Cache[T]) Keys() []string {
	keys := make([]string, 0, len(c.records))
	for k := range c.records {
		keys = append(keys, k)
	}
	return keys
}

// Flush writes the mapping back to disk. The write goes to a temporary
// file in the same directory and is renamed into place, so a crash
// mid-write cannot corrupt previously-good data. Flush is a no-op when
// nothing changed since the last write.
func (c *Cache[T]) Flush() error {
	if !c.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing cache: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	c.dirty = false
	return nil
}
