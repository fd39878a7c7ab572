// Package storage provides durable client-side key/value storage.
//
// Each value is stored as its own JSON file wrapped with an optional expiry
// timestamp; an expired value is treated as absent and removed on read.
// Writes are atomic (temp file + rename) so a crashed process never leaves
// a half-written value behind.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound indicates the key has no stored value (or it expired).
var ErrNotFound = errors.New("storage: key not found")

// item wraps a stored value with its optional expiry.
type item struct {
	Value   json.RawMessage `json:"value"`
	Expires *time.Time      `json:"expires,omitempty"`
}

// Store persists JSON values under named keys in a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source. Used by tests to exercise expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	s := &Store{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the directory backing this store.
func (s *Store) Dir() string {
	return s.dir
}

// Set stores value under key. A ttl of zero means the value never expires.
func (s *Store) Set(key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}

	it := item{Value: raw}
	if ttl > 0 {
		exp := s.now().Add(ttl)
		it.Expires = &exp
	}

	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("failed to marshal storage item: %w", err)
	}

	path := s.path(key)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp storage file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename storage file: %w", err)
	}

	return nil
}

// Get reads the value stored under key into dest. Returns ErrNotFound when
// the key is absent, expired, or its wrapper is malformed; malformed and
// expired entries are removed rather than retried.
func (s *Store) Get(key string, dest interface{}) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read storage file: %w", err)
	}

	var it item
	if err := json.Unmarshal(data, &it); err != nil {
		// Corrupt entry: clear it, don't retry.
		s.Remove(key)
		return ErrNotFound
	}

	if it.Expires != nil && s.now().After(*it.Expires) {
		s.Remove(key)
		return ErrNotFound
	}

	if err := json.Unmarshal(it.Value, dest); err != nil {
		s.Remove(key)
		return ErrNotFound
	}

	return nil
}

// Has reports whether key holds a live (non-expired) value.
func (s *Store) Has(key string) bool {
	var raw json.RawMessage
	return s.Get(key, &raw) == nil
}

// Remove deletes the value stored under key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) {
	os.Remove(s.path(key))
}

// Clear removes every stored value.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read storage dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		os.Remove(filepath.Join(s.dir, entry.Name()))
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
