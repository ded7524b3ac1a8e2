// Package store is the local key/value persistence capability.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketState = []byte("state")

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("store closed")

// Store implements domain.KeyValueStore on BoltDB. Reads are promoted into
// an in-memory cache; an empty path gives a memory-only store.
type Store struct {
	db     *bolt.DB
	mu     sync.RWMutex
	cache  map[string][]byte
	closed bool
}

// Open opens (or creates) the database file at path.
// An empty path returns a memory-only store.
func Open(path string) (*Store, error) {
	if path == "" {
		return NewMemory(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

// NewMemory returns a store without persistence
func NewMemory() *Store {
	return &Store{cache: make(map[string][]byte)}
}

// ScopedKey namespaces key by a hash of scope (e.g. a remote base URL) so
// snapshots from different accounts never mix.
func ScopedKey(key, scope string) string {
	normalized := strings.TrimRight(strings.ToLower(strings.TrimSpace(scope)), "/")
	if normalized == "" {
		return key
	}
	hash := sha256.Sum256([]byte(normalized))
	return key + ":" + hex.EncodeToString(hash[:6])
}

func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the value stored under key; found is false when absent
func (s *Store) Load(key string) ([]byte, bool, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, false, ErrClosed
	}
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return clone(data), true, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if data == nil {
		return nil, false, nil
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return clone(data), true, nil
}

// Save writes value under key
func (s *Store) Save(key string, value []byte) error {
	data := clone(value)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(key), data)
	})
}

// Delete removes key
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Delete([]byte(key))
	})
}

// Keys returns every stored key with the given prefix
func (s *Store) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrClosed
	}
	seen := make(map[string]struct{})
	var keys []string
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()

	if s.db == nil {
		return keys, nil
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketState).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			if _, ok := seen[string(k)]; !ok {
				keys = append(keys, string(k))
			}
		}
		return nil
	})
	return keys, err
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
