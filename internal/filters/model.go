// Package filters owns the active catalog filter state.
package filters

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/query"
)

// Model holds the FilterState. It is mutated only through its setters;
// readers get copies via Snapshot.
type Model struct {
	mu       sync.RWMutex
	state    domain.FilterState
	observer domain.ChangeObserver
	logger   *slog.Logger
}

// New creates an empty filter model
func New(observer domain.ChangeObserver, logger *slog.Logger) *Model {
	if observer == nil {
		observer = domain.NoOpObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{observer: observer, logger: logger}
}

// SetCategories replaces the genre id set. Duplicates are dropped.
func (m *Model) SetCategories(ids []int) {
	m.update(func(s *domain.FilterState) { s.Categories = dedupe(ids) })
}

// SetTags replaces the tag id set. Duplicates are dropped.
func (m *Model) SetTags(ids []int) {
	m.update(func(s *domain.FilterState) { s.Tags = dedupe(ids) })
}

// SetYear sets a single year ("2020") or a range ("2015-2019"); "" clears it
func (m *Model) SetYear(year string) {
	m.update(func(s *domain.FilterState) { s.Year = strings.TrimSpace(year) })
}

// SetMinRating sets the metacritic floor; 0 removes the constraint
func (m *Model) SetMinRating(rating int) {
	m.update(func(s *domain.FilterState) { s.MinRating = rating })
}

// SetSearchQuery sets the free-text search term
func (m *Model) SetSearchQuery(q string) {
	m.update(func(s *domain.FilterState) { s.SearchQuery = q })
}

// Clear resets every constraint at once
func (m *Model) Clear() {
	m.update(func(s *domain.FilterState) { *s = domain.FilterState{} })
}

// Snapshot returns a copy of the current state
func (m *Model) Snapshot() domain.FilterState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Validate checks the current state
func (m *Model) Validate() error {
	err := query.ValidateFilter(m.Snapshot())
	if err != nil {
		m.logger.Warn("invalid filter state", "error", err)
	}
	return err
}

func (m *Model) update(fn func(*domain.FilterState)) {
	m.mu.Lock()
	fn(&m.state)
	m.mu.Unlock()

	m.observer.OnChange(domain.Change{Slice: domain.SliceFilters, Status: domain.StatusSuccess})
}

func dedupe(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
