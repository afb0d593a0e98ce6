// Package collection persists ordered slices as JSON under string keys.
// Storage failures never reach the caller: loads fall back to an empty
// slice and saves are dropped, with the failure logged and published.
package collection

import (
	"encoding/json"
	"fmt"

	"fashionhub/internal/client/events"
	"fashionhub/internal/client/logger"
	"fashionhub/internal/client/storage"
)

// Store reads and writes []T values in a KV.
type Store[T any] struct {
	kv  storage.KV
	bus *events.Bus
}

// New returns a Store over kv. bus may be nil.
func New[T any](kv storage.KV, bus *events.Bus) *Store[T] {
	return &Store[T]{kv: kv, bus: bus}
}

// Load returns the collection stored under key. An absent key yields an
// empty collection; so does any read or parse failure.
func (s *Store[T]) Load(key string) []T {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		s.loadFailed(key, err)
		return []T{}
	}
	if !ok || raw == "" {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.loadFailed(key, fmt.Errorf("decode: %w", err))
		return []T{}
	}
	if items == nil {
		// "null" decodes to a nil slice
		return []T{}
	}
	return items
}

// Save writes items under key, replacing what was there.
func (s *Store[T]) Save(key string, items []T) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.saveFailed(key, fmt.Errorf("encode: %w", err))
		return
	}
	if err := s.kv.Set(key, string(data)); err != nil {
		s.saveFailed(key, err)
	}
}

func (s *Store[T]) loadFailed(key string, err error) {
	logger.Warn("Failed to load %s, starting empty: %v", key, err)
	s.bus.PublishStorageError(events.EventStorageLoadFailed, key, err)
}

func (s *Store[T]) saveFailed(key string, err error) {
	logger.Error("Failed to save %s: %v", key, err)
	s.bus.PublishStorageError(events.EventStorageSaveFailed, key, err)
}
