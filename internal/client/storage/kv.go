// Package storage provides the string key-value stores that back the
// client's persisted collections.
package storage

import (
	"errors"
)

// DefaultQuota mirrors the per-origin budget browsers give local storage.
const DefaultQuota = 5 << 20

var (
	// ErrQuotaExceeded is returned by Set when the write would exceed the store's byte quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KV is a persistent string key-value store.
// Get reports ok=false for a key that was never set.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// usage counts key and value bytes, the way browsers account local storage.
func usage(entries map[string]string) int {
	n := 0
	for k, v := range entries {
		n += len(k) + len(v)
	}
	return n
}

// fits reports whether setting key to value keeps entries within quota.
// A quota <= 0 means unlimited.
func fits(entries map[string]string, key, value string, quota int) bool {
	if quota <= 0 {
		return true
	}
	n := usage(entries) + len(key) + len(value)
	if old, ok := entries[key]; ok {
		n -= len(key) + len(old)
	}
	return n <= quota
}
