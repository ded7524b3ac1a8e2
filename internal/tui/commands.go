package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/app"
	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/library"
)

// Command factories for async operations. Results land in service state and
// arrive through the observer; the returned messages only carry status text.

const requestTimeout = 30 * time.Second

// StartCmd restores local state and loads the first page
func StartCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return StartedMsg{Err: a.Start(ctx)}
	}
}

// GoToPageCmd loads a page of the catalog list
func GoToPageCmd(a *app.App, page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := a.Games.GoToPage(ctx, page); err != nil {
			return ErrMsg{Err: err, Context: "loading games"}
		}
		return nil
	}
}

// ApplyFiltersCmd reloads page 1 with the current filters
func ApplyFiltersCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := a.Games.ApplyFilters(ctx); err != nil {
			return ErrMsg{Err: err, Context: "applying filters"}
		}
		return nil
	}
}

// ClearFiltersCmd clears every filter and reloads page 1
func ClearFiltersCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := a.Games.ClearFilters(ctx); err != nil {
			return ErrMsg{Err: err, Context: "clearing filters"}
		}
		return StatusMsg{Message: "Filters cleared"}
	}
}

// LoadDetailCmd loads a game's detail and screenshots
func LoadDetailCmd(a *app.App, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := a.Games.Detail(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "loading details"}
		}
		return nil
	}
}

// SearchCmd runs a catalog search
func SearchCmd(a *app.App, params domain.SearchParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := a.Games.Search(ctx, params); err != nil {
			return ErrMsg{Err: err, Context: "searching"}
		}
		return nil
	}
}

// DebounceCmd fires a searchTickMsg for seq after the debounce window
func DebounceCmd(seq int, window time.Duration) tea.Cmd {
	return tea.Tick(window, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
}

// FetchLibraryCmd refreshes the library from the remote
func FetchLibraryCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := a.Library.Fetch(ctx); err != nil {
			return ErrMsg{Err: err, Context: "refreshing library"}
		}
		return StatusMsg{Message: "Library refreshed"}
	}
}

// ToggleCmd toggles a library flag on a game
func ToggleCmd(a *app.App, game domain.Game, field library.Field) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var outcome library.Outcome
		var err error
		if field == library.FieldInstalled {
			outcome, err = a.Library.ToggleInstalled(ctx, game)
		} else {
			outcome, err = a.Library.ToggleFavorite(ctx, game)
		}
		return ToggledMsg{Game: game.Name, Field: field, Outcome: outcome, Err: err}
	}
}

// MarkPlayedCmd records now as the game's last-played time
func MarkPlayedCmd(a *app.App, game domain.Game) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := a.Library.UpdateLastPlayed(ctx, game.ID)
		return PlayedMsg{Game: game.Name, Err: err}
	}
}

// WishlistCmd toggles a game in the local wishlist
func WishlistCmd(a *app.App, game domain.Game) tea.Cmd {
	return func() tea.Msg {
		added, err := a.ToggleWishlist(game)
		return WishlistMsg{Game: game.Name, Added: added, Err: err}
	}
}

// OpenGameCmd opens the game's page in the browser
func OpenGameCmd(a *app.App, game domain.Game) tea.Cmd {
	return func() tea.Msg {
		return OpenedMsg{URL: adapter.GamePageURL(game.Slug, game.ID), Err: a.OpenGame(game)}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

func toggledStatus(msg ToggledMsg) StatusMsg {
	if msg.Err != nil {
		return StatusMsg{Message: domain.Normalize(msg.Err, "Update failed").Message, IsError: true}
	}
	label := "favorite"
	if msg.Field == library.FieldInstalled {
		label = "installed"
	}
	if msg.Outcome == library.OutcomeLocalOnly {
		return StatusMsg{Message: fmt.Sprintf("Updated %s on %s (saved locally only)", label, msg.Game), IsError: true}
	}
	return StatusMsg{Message: fmt.Sprintf("Updated %s on %s", label, msg.Game)}
}
