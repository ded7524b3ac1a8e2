package tui

import (
	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/library"
)

// Message types for the TUI

// ChangedMsg reports a state transition from one of the services
type ChangedMsg domain.Change

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StartedMsg signals that the initial load finished
type StartedMsg struct {
	Err error
}

// ToggledMsg reports the outcome of a library toggle
type ToggledMsg struct {
	Game    string
	Field   library.Field
	Outcome library.Outcome
	Err     error
}

// WishlistMsg reports a wishlist toggle
type WishlistMsg struct {
	Game  string
	Added bool
	Err   error
}

// PlayedMsg reports a last-played update
type PlayedMsg struct {
	Game string
	Err  error
}

// OpenedMsg reports that a game page was opened
type OpenedMsg struct {
	URL string
	Err error
}

// searchTickMsg fires after the debounce window for keystroke seq
type searchTickMsg struct {
	seq int
}

// TickMsg drives the spinner
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
