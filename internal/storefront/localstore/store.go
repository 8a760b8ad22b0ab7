// Package localstore is the session-local analog of browser localStorage: a
// small key-value store of independently serialized collections persisted to
// a single JSON file.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Well-known collection keys.
const (
	KeyCart           = "cart"
	KeyWishlist       = "wishlist"
	KeyCustomProducts = "customProducts"
)

// Store persists named collections as raw JSON under a single file. Reads of
// missing or malformed data degrade to an empty collection, never an error;
// writes happen synchronously after every mutation.
type Store struct {
	path   string
	logger *zap.Logger

	mu     sync.Mutex
	values map[string]json.RawMessage
}

// Open loads the store file at path, starting empty when the file is absent
// or unreadable.
func Open(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := &Store{
		path:   path,
		logger: logger,
		values: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("local store unreadable; starting empty", zap.String("path", path), zap.Error(err))
		}
		return store
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		logger.Warn("local store corrupted; starting empty", zap.String("path", path), zap.Error(err))
		return store
	}
	store.values = values
	return store
}

// Load decodes the collection stored under key into out. Missing or malformed
// entries leave out untouched and report false.
func (s *Store) Load(key string, out any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("local store entry malformed; treating as empty", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Save serializes value under key and rewrites the backing file.
func (s *Store) Save(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return s.flushLocked()
}

// Delete removes the collection stored under key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flushLocked()
}

// flushLocked writes the store atomically via a temp-file rename.
func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: encode store: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".warli-state-*")
	if err != nil {
		return fmt.Errorf("localstore: write %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("localstore: write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: write %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: write %s: %w", s.path, err)
	}
	return nil
}
