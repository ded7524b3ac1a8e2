// Package favorites is the locally persisted wishlist. It is independent of
// the library's favorite flag; the two collections may diverge.
package favorites

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/goccy/go-json"

	"github.com/mmcdole/arcade/internal/domain"
)

// StorageKey is the key the collection is persisted under
const StorageKey = "favorites"

// Cache is an insertion-ordered set of favorites keyed by game id.
// Every mutation writes the full collection before returning.
type Cache struct {
	mu       sync.RWMutex
	items    []domain.FavoriteEntry
	store    domain.KeyValueStore
	observer domain.ChangeObserver
	logger   *slog.Logger
}

// Load creates a cache seeded from the store. A missing, unreadable or
// corrupt collection starts empty; it is logged and never fatal.
func Load(store domain.KeyValueStore, observer domain.ChangeObserver, logger *slog.Logger) *Cache {
	if observer == nil {
		observer = domain.NoOpObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{store: store, observer: observer, logger: logger}

	if store == nil {
		return c
	}
	data, found, err := store.Load(StorageKey)
	if err != nil {
		logger.Warn("failed to load favorites, starting empty", "error", err)
		return c
	}
	if !found {
		return c
	}
	if err := json.Unmarshal(data, &c.items); err != nil {
		logger.Warn("corrupt favorites snapshot, starting empty", "error", err)
		c.items = nil
	}
	return c
}

// Add appends the entry unless its id is already present
func (c *Cache) Add(entry domain.FavoriteEntry) error {
	return c.mutate(func() bool {
		if c.indexOf(entry.ID) >= 0 {
			return false
		}
		c.items = append(c.items, entry)
		return true
	})
}

// Remove deletes the entry with the given id if present
func (c *Cache) Remove(id int) error {
	return c.mutate(func() bool {
		i := c.indexOf(id)
		if i < 0 {
			return false
		}
		c.items = slices.Delete(c.items, i, i+1)
		return true
	})
}

// Clear empties the collection
func (c *Cache) Clear() error {
	return c.mutate(func() bool {
		c.items = nil
		return true
	})
}

// Toggle adds the entry when absent and removes it when present.
// It reports whether the entry is a favorite afterwards.
func (c *Cache) Toggle(entry domain.FavoriteEntry) (bool, error) {
	var added bool
	err := c.mutate(func() bool {
		if i := c.indexOf(entry.ID); i >= 0 {
			c.items = slices.Delete(c.items, i, i+1)
			return true
		}
		c.items = append(c.items, entry)
		added = true
		return true
	})
	return added, err
}

// Contains reports whether id is a favorite
func (c *Cache) Contains(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(id) >= 0
}

// Items returns the favorites in insertion order
func (c *Cache) Items() []domain.FavoriteEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Len returns the number of favorites
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) indexOf(id int) int {
	return slices.IndexFunc(c.items, func(e domain.FavoriteEntry) bool { return e.ID == id })
}

// mutate applies fn under the lock and persists when it reports a change.
// Observers are notified after the lock is released.
func (c *Cache) mutate(fn func() bool) error {
	c.mu.Lock()
	changed := fn()
	var err error
	if changed {
		err = c.persist()
	}
	c.mu.Unlock()

	if changed {
		c.observer.OnChange(domain.Change{Slice: domain.SliceFavorites, Status: domain.StatusSuccess})
	}
	return err
}

func (c *Cache) persist() error {
	if c.store == nil {
		return nil
	}
	items := c.items
	if items == nil {
		items = []domain.FavoriteEntry{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Error("failed to encode favorites", "error", err)
		return err
	}
	if err := c.store.Save(StorageKey, data); err != nil {
		c.logger.Error("failed to persist favorites", "error", err, "count", len(items))
		return err
	}
	return nil
}
