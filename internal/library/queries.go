package library

import (
	"slices"

	"github.com/mmcdole/arcade/internal/domain"
)

// View selects a subset of the library
type View string

const (
	ViewAll       View = "all"
	ViewInstalled View = "installed"
	ViewFavorites View = "favorites"
	ViewRecent    View = "recent"
)

// RecentLimit caps the recent view
const RecentLimit = 10

// Views lists every view in display order
var Views = []View{ViewAll, ViewInstalled, ViewFavorites, ViewRecent}

// Entries returns the library in insertion order
func (s *Service) Entries() []domain.LibraryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Entry returns the entry for a game
func (s *Service) Entry(id int) (domain.LibraryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.entries[i], true
	}
	return domain.LibraryEntry{}, false
}

// Contains reports whether a game is in the library
func (s *Service) Contains(id int) bool {
	_, ok := s.Entry(id)
	return ok
}

// View returns the entries of a view. Recent holds entries with a
// last-played time, newest first, capped at RecentLimit.
func (s *Service) View(v View) []domain.LibraryEntry {
	return Filter(s.Entries(), v)
}

// Filter applies a view to entries
func Filter(entries []domain.LibraryEntry, v View) []domain.LibraryEntry {
	out := make([]domain.LibraryEntry, 0, len(entries))
	switch v {
	case ViewInstalled:
		for _, e := range entries {
			if e.Installed {
				out = append(out, e)
			}
		}
	case ViewFavorites:
		for _, e := range entries {
			if e.Favorite {
				out = append(out, e)
			}
		}
	case ViewRecent:
		for _, e := range entries {
			if e.LastPlayed != nil {
				out = append(out, e)
			}
		}
		slices.SortStableFunc(out, func(a, b domain.LibraryEntry) int {
			return b.LastPlayed.Compare(*a.LastPlayed)
		})
		if len(out) > RecentLimit {
			out = out[:RecentLimit]
		}
	default:
		out = append(out, entries...)
	}
	return out
}

// FetchState returns the state of the library fetch; Data is the entry count
func (s *Service) FetchState() domain.RequestState[int] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetch
}

// LastError returns the most recent surfaced library error
func (s *Service) LastError() *domain.ErrorInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return nil
	}
	info := *s.lastErr
	return &info
}

// ResetError clears the surfaced library error
func (s *Service) ResetError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
	s.notify(domain.StatusIdle, 0)
}

// MutationState returns the latest mutation state of a game
func (s *Service) MutationState(id int) Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutations[id]
}

// Pending reports whether a mutation on the game is in flight
func (s *Service) Pending(id int) bool {
	return s.MutationState(id).Phase == PhasePending
}
