package library

import (
	"context"
	"time"

	"github.com/mmcdole/arcade/internal/domain"
)

const (
	msgFetchFailed      = "Failed to fetch library"
	msgAddFailed        = "Failed to add game to library"
	msgLastPlayedFailed = "Failed to update last played time"
	msgNotInLibrary     = "Game not found in library"
)

// Fetch replaces the local entries with the remote library. Entries that
// exist only locally (from a failed add) are kept.
func (s *Service) Fetch(ctx context.Context) ([]domain.LibraryEntry, error) {
	if err := s.canMutate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	token := s.fetch.Begin()
	s.lastErr = nil
	s.mu.Unlock()
	s.notify(domain.StatusPending, 0)

	remote, err := s.repo.GetLibrary(ctx)
	if err != nil {
		s.logger.Error("failed to fetch library", "error", err)
		info := domain.Normalize(err, msgFetchFailed)
		s.mu.Lock()
		applied := s.fetch.Reject(token, info)
		if applied {
			s.lastErr = &info
		}
		s.mu.Unlock()
		if applied {
			s.notify(domain.StatusFailure, 0)
		}
		return nil, err
	}

	s.mu.Lock()
	applied := s.fetch.Resolve(token, len(remote))
	if applied {
		merged := make([]domain.LibraryEntry, 0, len(remote))
		seen := make(map[int]bool, len(remote))
		for _, e := range remote {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			merged = append(merged, e)
		}
		for _, e := range s.entries {
			if e.LocalOnly && !seen[e.ID] {
				merged = append(merged, e)
			}
		}
		s.entries = merged
	}
	s.mu.Unlock()

	if !applied {
		s.logger.Debug("dropping stale library completion", "token", token)
		return remote, nil
	}
	s.logger.Debug("fetched library", "count", len(remote))
	s.persist()
	s.notify(domain.StatusSuccess, 0)
	return s.Entries(), nil
}

// Add puts a game in the library with default flags. A game already in the
// library is returned as is without a request.
func (s *Service) Add(ctx context.Context, game domain.Game) (domain.LibraryEntry, error) {
	if err := s.canMutate(); err != nil {
		return domain.LibraryEntry{}, err
	}
	if e, ok := s.Entry(game.ID); ok {
		return e, nil
	}

	created, err := s.repo.AddGame(ctx, domain.NewLibraryEntry(game))
	if err != nil {
		s.logger.Error("failed to add game to library", "error", err, "gameID", game.ID)
		s.setError(domain.Normalize(err, msgAddFailed))
		s.notify(domain.StatusFailure, game.ID)
		return domain.LibraryEntry{}, err
	}

	s.mu.Lock()
	s.insertIfAbsent(created)
	s.mu.Unlock()

	s.logger.Info("added game to library", "gameID", game.ID)
	s.persist()
	s.notify(domain.StatusSuccess, game.ID)
	return created, nil
}

// ToggleFavorite flips the favorite flag of a game, adding the game first
// when it is not in the library. See toggle.
func (s *Service) ToggleFavorite(ctx context.Context, game domain.Game) (Outcome, error) {
	return s.toggle(ctx, game, FieldFavorite)
}

// ToggleInstalled flips the installed flag of a game, adding the game first
// when it is not in the library. See toggle.
func (s *Service) ToggleInstalled(ctx context.Context, game domain.Game) (Outcome, error) {
	return s.toggle(ctx, game, FieldInstalled)
}

// toggle runs the add-then-mutate protocol for one field:
//
//   - member: PATCH the negated value; failures surface as PhaseFailed.
//   - not a member: POST the game with default flags, then PATCH the field
//     to true.
//   - POST failed: insert a local-only entry, wait the fallback delay and
//     set the field locally. The failure is logged, not returned, and the
//     outcome is OutcomeLocalOnly.
//
// Either way exactly one entry exists for the game afterwards. Rapid
// repeated toggles on one game are not serialized here; callers disable the
// control while a mutation is pending.
func (s *Service) toggle(ctx context.Context, game domain.Game, field Field) (Outcome, error) {
	if err := s.canMutate(); err != nil {
		return OutcomeNone, err
	}

	id := game.ID
	s.setPhase(id, field, PhasePending, nil)
	s.notify(domain.StatusPending, id)

	if current, ok := s.Entry(id); ok {
		return s.patchField(ctx, id, field, !field.get(current))
	}

	created, err := s.repo.AddGame(ctx, domain.NewLibraryEntry(game))
	if err != nil {
		return s.fallback(ctx, game, field, err)
	}

	s.mu.Lock()
	s.insertIfAbsent(created)
	s.mu.Unlock()
	s.persist()

	// New entries start false, so the intended value is true
	return s.patchField(ctx, id, field, true)
}

// patchField sends the PATCH and applies it locally on success
func (s *Service) patchField(ctx context.Context, id int, field Field, value bool) (Outcome, error) {
	if err := s.repo.UpdateEntry(ctx, id, field.patch(value)); err != nil {
		s.logger.Error("failed to update library entry", "error", err, "gameID", id, "field", field)
		info := domain.Normalize(err, field.failureMessage())
		s.setPhase(id, field, PhaseFailed, &info)
		s.notify(domain.StatusFailure, id)
		return OutcomeNone, err
	}

	s.mu.Lock()
	applied := s.update(id, func(e *domain.LibraryEntry) { field.set(e, value) })
	s.mu.Unlock()

	if !applied {
		err := domain.NotFoundError("library "+string(field), msgNotInLibrary)
		s.logger.Error("library entry missing after update", "gameID", id, "field", field)
		info := domain.Normalize(err, msgNotInLibrary)
		s.setPhase(id, field, PhaseFailed, &info)
		s.notify(domain.StatusFailure, id)
		return OutcomeNone, err
	}

	s.setPhase(id, field, PhaseCommittedRemote, nil)
	s.persist()
	s.notify(domain.StatusSuccess, id)
	return OutcomeRemote, nil
}

// fallback is the compensating path after a failed add. The entry and the
// toggle are local only: the remote library never learns about either.
func (s *Service) fallback(ctx context.Context, game domain.Game, field Field, addErr error) (Outcome, error) {
	id := game.ID
	s.logger.Warn("add to library failed, applying change locally only",
		"error", addErr, "gameID", id, "field", field)

	entry := domain.NewLibraryEntry(game)
	entry.LocalOnly = true

	s.mu.Lock()
	s.insertIfAbsent(entry)
	s.mu.Unlock()
	s.persist()
	s.notify(domain.StatusPending, id)

	if s.fallbackDelay > 0 {
		timer := time.NewTimer(s.fallbackDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			// The visible effect is kept even when the caller gives up
			timer.Stop()
		}
	}

	s.mu.Lock()
	s.update(id, func(e *domain.LibraryEntry) { field.set(e, !field.get(*e)) })
	s.mu.Unlock()

	s.setPhase(id, field, PhaseCommittedLocalOnly, nil)
	s.persist()
	s.notify(domain.StatusSuccess, id)
	return OutcomeLocalOnly, nil
}

// SetFavorite sends an explicit favorite value for a game in the library
func (s *Service) SetFavorite(ctx context.Context, id int, favorite bool) error {
	return s.set(ctx, id, FieldFavorite, favorite)
}

// SetInstalled sends an explicit installed value for a game in the library
func (s *Service) SetInstalled(ctx context.Context, id int, installed bool) error {
	return s.set(ctx, id, FieldInstalled, installed)
}

func (s *Service) set(ctx context.Context, id int, field Field, value bool) error {
	if err := s.canMutate(); err != nil {
		return err
	}
	if !s.Contains(id) {
		err := domain.NotFoundError("library "+string(field), msgNotInLibrary)
		info := domain.Normalize(err, msgNotInLibrary)
		s.setPhase(id, field, PhaseFailed, &info)
		s.notify(domain.StatusFailure, id)
		return err
	}

	s.setPhase(id, field, PhasePending, nil)
	s.notify(domain.StatusPending, id)
	_, err := s.patchField(ctx, id, field, value)
	return err
}

// UpdateLastPlayed records now as the last-played time. The game is
// expected to be in the library; this is not checked before the request,
// and the local entry is updated only if present.
func (s *Service) UpdateLastPlayed(ctx context.Context, id int) (time.Time, error) {
	if err := s.canMutate(); err != nil {
		return time.Time{}, err
	}

	ts := s.now().UTC()
	if err := s.repo.UpdateEntry(ctx, id, domain.LibraryPatch{LastPlayed: &ts}); err != nil {
		s.logger.Error("failed to update last played time", "error", err, "gameID", id)
		s.setError(domain.Normalize(err, msgLastPlayedFailed))
		s.notify(domain.StatusFailure, id)
		return time.Time{}, err
	}

	s.mu.Lock()
	found := s.update(id, func(e *domain.LibraryEntry) { e.LastPlayed = &ts })
	s.mu.Unlock()

	if found {
		s.persist()
	}
	s.notify(domain.StatusSuccess, id)
	return ts, nil
}
