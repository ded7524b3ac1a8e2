package library

import "github.com/mmcdole/arcade/internal/domain"

// Phase is the state of one mutation intent on a game
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseCommittedRemote
	PhaseCommittedLocalOnly
	PhaseFailed
)

// String returns a human-readable representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseCommittedRemote:
		return "committed"
	case PhaseCommittedLocalOnly:
		return "committed_local_only"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a toggle
type Outcome int

const (
	// OutcomeNone means the toggle did not complete
	OutcomeNone Outcome = iota

	// OutcomeRemote means the remote library acknowledged the change
	OutcomeRemote

	// OutcomeLocalOnly means the add failed and the change exists only in
	// local state. The remote library has never seen this entry, so client
	// and server now disagree until the user re-adds the game.
	OutcomeLocalOnly
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRemote:
		return "remote"
	case OutcomeLocalOnly:
		return "local_only"
	default:
		return "none"
	}
}

// Field names a toggleable library flag
type Field string

const (
	FieldFavorite  Field = "favorite"
	FieldInstalled Field = "installed"
)

func (f Field) get(e domain.LibraryEntry) bool {
	if f == FieldInstalled {
		return e.Installed
	}
	return e.Favorite
}

func (f Field) set(e *domain.LibraryEntry, v bool) {
	if f == FieldInstalled {
		e.Installed = v
		return
	}
	e.Favorite = v
}

func (f Field) patch(v bool) domain.LibraryPatch {
	if f == FieldInstalled {
		return domain.LibraryPatch{Installed: &v}
	}
	return domain.LibraryPatch{Favorite: &v}
}

func (f Field) failureMessage() string {
	if f == FieldInstalled {
		return "Failed to update installation status"
	}
	return "Failed to update favorite status"
}

// Mutation is the latest mutation state of one game
type Mutation struct {
	Phase Phase
	Field Field
	Err   *domain.ErrorInfo
}

func (s *Service) setPhase(id int, field Field, phase Phase, info *domain.ErrorInfo) {
	s.mu.Lock()
	s.mutations[id] = Mutation{Phase: phase, Field: field, Err: info}
	if info != nil {
		s.lastErr = info
	}
	s.mu.Unlock()
}
