// Package library owns the user's library entries and drives fetch, add and
// toggle requests against the remote library, including the local-only
// fallback used when adding a game fails.
package library

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/mmcdole/arcade/internal/domain"
)

const (
	// DefaultFallbackDelay is the pause before a local-only toggle is applied
	DefaultFallbackDelay = 100 * time.Millisecond

	// StorageKey is the store key of the library snapshot
	StorageKey = "library"
)

// Options configures a Service
type Options struct {
	FallbackDelay time.Duration
	StorageKey    string // Defaults to StorageKey
}

// Service orchestrates library repository + store operations.
type Service struct {
	repo          domain.LibraryRepository
	store         domain.KeyValueStore
	session       domain.Session
	observer      domain.ChangeObserver
	logger        *slog.Logger
	fallbackDelay time.Duration
	storageKey    string
	now           func() time.Time

	mu        sync.Mutex
	entries   []domain.LibraryEntry
	fetch     domain.RequestState[int] // Data is the fetched entry count
	lastErr   *domain.ErrorInfo
	mutations map[int]Mutation
}

// NewService creates a library service. A nil repo or a session that denies
// mutation makes every remote operation fail with domain.ErrNotPermitted.
func NewService(
	repo domain.LibraryRepository,
	store domain.KeyValueStore,
	session domain.Session,
	opts Options,
	observer domain.ChangeObserver,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = domain.NoOpObserver{}
	}
	if session == nil {
		session = domain.StaticSession(repo != nil)
	}
	if opts.FallbackDelay < 0 {
		opts.FallbackDelay = 0
	} else if opts.FallbackDelay == 0 {
		opts.FallbackDelay = DefaultFallbackDelay
	}
	if opts.StorageKey == "" {
		opts.StorageKey = StorageKey
	}
	return &Service{
		repo:          repo,
		store:         store,
		session:       session,
		observer:      observer,
		logger:        logger,
		fallbackDelay: opts.FallbackDelay,
		storageKey:    opts.StorageKey,
		now:           time.Now,
		mutations:     make(map[int]Mutation),
	}
}

// LoadCached seeds the entries from the persisted snapshot. Storage
// failures are logged and leave the library empty.
func (s *Service) LoadCached() int {
	if s.store == nil {
		return 0
	}
	data, found, err := s.store.Load(s.storageKey)
	if err != nil {
		s.logger.Warn("failed to load library snapshot", "error", err)
		return 0
	}
	if !found {
		return 0
	}

	var entries []domain.LibraryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("corrupt library snapshot, ignoring", "error", err)
		return 0
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.logger.Debug("loaded library snapshot", "count", len(entries))
	s.notify(domain.StatusSuccess, 0)
	return len(entries)
}

// persist writes the snapshot. Caller must not hold the lock.
func (s *Service) persist() {
	if s.store == nil {
		return
	}
	s.mu.Lock()
	entries := slices.Clone(s.entries)
	s.mu.Unlock()
	if entries == nil {
		entries = []domain.LibraryEntry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		s.logger.Error("failed to encode library snapshot", "error", err)
		return
	}
	if err := s.store.Save(s.storageKey, data); err != nil {
		s.logger.Error("failed to save library snapshot", "error", err, "count", len(entries))
	}
}

func (s *Service) notify(status domain.RequestStatus, gameID int) {
	s.observer.OnChange(domain.Change{Slice: domain.SliceLibrary, Status: status, GameID: gameID})
}

// CanMutate reports whether remote library operations are permitted
func (s *Service) CanMutate() bool {
	return s.repo != nil && s.session.CanMutate()
}

func (s *Service) canMutate() error {
	if !s.CanMutate() {
		return domain.ErrNotPermitted
	}
	return nil
}

// indexOf returns the index of the entry for id. Caller holds the lock.
func (s *Service) indexOf(id int) int {
	return slices.IndexFunc(s.entries, func(e domain.LibraryEntry) bool { return e.ID == id })
}

// insertIfAbsent appends entry unless one with the same id exists.
// Caller holds the lock.
func (s *Service) insertIfAbsent(entry domain.LibraryEntry) bool {
	if s.indexOf(entry.ID) >= 0 {
		return false
	}
	s.entries = append(s.entries, entry)
	return true
}

// update applies fn to the entry for id if present. Caller holds the lock.
func (s *Service) update(id int, fn func(*domain.LibraryEntry)) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	fn(&s.entries[i])
	return true
}

func (s *Service) setError(info domain.ErrorInfo) {
	s.mu.Lock()
	s.lastErr = &info
	s.mu.Unlock()
}
