package tui

import (
	"fmt"
	"strings"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/filters"
	"github.com/mmcdole/arcade/internal/library"
	"github.com/mmcdole/arcade/internal/search"
	"github.com/mmcdole/arcade/internal/tui/components"
)

// syncState copies the services' state into the components
func (m *Model) syncState() {
	a := m.App

	list := a.Games.ListState()
	m.Games.SetGames(list.Data.Games)
	m.Games.SetStatus(list.IsPending(), errInfoText(list.Err))
	m.Games.SetTitle(m.listTitle(list.Data.Count))
	m.Games.SetFooter(components.RenderPager(a.Games.Pagination()))
	m.Games.SetMarks(m.marksFor(list.Data.Games))

	detail := a.Games.DetailState()
	if detail.Succeeded() && detail.Data.GameID == m.detailID {
		g := detail.Data.Game
		m.Inspector.SetGame(&g)
	}
	m.Inspector.SetStatus(detail.IsPending(), errInfoText(detail.Err))
	m.Inspector.SetMarks(m.marks(m.detailID))

	results := a.Games.SearchState()
	m.Omnibar.SetResults(results.Data.Games)
	m.Omnibar.SetStatus(results.IsPending(), errInfoText(results.Err))

	m.syncLibrary()
}

func (m *Model) syncLibrary() {
	a := m.App
	fetch := a.Library.FetchState()

	notice := ""
	if !a.HasLibrary() {
		notice = "No remote library configured; run 'arcade setup'"
	}
	m.Library.SetStatus(fetch.IsPending(), errInfoText(a.Library.LastError()), notice)
	m.Library.SetRows(m.libraryRows())
}

func (m Model) listTitle(count int) string {
	state := m.App.Filters.Snapshot()
	title := fmt.Sprintf("Games · %d", count)

	var active []string
	active = append(active, filters.Names(filters.Categories, state.Categories)...)
	active = append(active, filters.Names(filters.Tags, state.Tags)...)
	if state.Year != "" {
		active = append(active, state.Year)
	}
	if state.MinRating > 0 {
		active = append(active, fmt.Sprintf("≥%d", state.MinRating))
	}
	if len(active) > 0 {
		title += " · " + strings.Join(active, ", ")
	}
	return title
}

func (m Model) marks(id int) components.Marks {
	a := m.App
	var mk components.Marks
	if e, ok := a.Library.Entry(id); ok {
		mk.Favorite = e.Favorite
		mk.Installed = e.Installed
		mk.LocalOnly = e.LocalOnly
	}
	mk.Wishlist = a.Favorites.Contains(id)
	mk.Pending = a.Library.Pending(id)
	return mk
}

func (m Model) marksFor(games []domain.Game) map[int]components.Marks {
	out := make(map[int]components.Marks, len(games))
	for _, g := range games {
		out[g.ID] = m.marks(g.ID)
	}
	return out
}

// libraryRows builds the active tab's rows, narrowed and ordered by the
// filter query when one is set
func (m Model) libraryRows() []components.LibraryRow {
	a := m.App
	tab := m.Library.Tab()

	var rows []components.LibraryRow
	kind := search.KindLibrary
	if tab < len(library.Views) {
		for _, e := range a.Library.View(library.Views[tab]) {
			rows = append(rows, components.LibraryRow{
				ID:         e.ID,
				Name:       e.Name,
				Metacritic: e.Metacritic,
				Marks:      m.marks(e.ID),
				LastPlayed: e.LastPlayed,
			})
		}
	} else {
		kind = search.KindFavorite
		for _, f := range a.Favorites.Items() {
			rows = append(rows, components.LibraryRow{
				ID:         f.ID,
				Name:       f.Name,
				Metacritic: f.Metacritic,
				Marks:      m.marks(f.ID),
			})
		}
	}

	q := m.Library.FilterQuery()
	if q == "" {
		return rows
	}

	byID := make(map[int]components.LibraryRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	var out []components.LibraryRow
	for _, res := range a.Index.Filter(q) {
		if res.Kind != kind {
			continue
		}
		if r, ok := byID[res.ID]; ok {
			r.Matched = res.MatchedIndexes
			out = append(out, r)
		}
	}
	return out
}

// selectedGame returns the game the current screen acts on
func (m Model) selectedGame() (domain.Game, bool) {
	a := m.App
	switch m.Screen {
	case ScreenDetail:
		if d := a.Games.DetailState(); d.Succeeded() && d.Data.GameID == m.detailID {
			return d.Data.Game, true
		}
		return m.gameByID(m.detailID)
	case ScreenLibrary:
		row, ok := m.Library.Selected()
		if !ok {
			return domain.Game{}, false
		}
		return m.gameByID(row.ID)
	default:
		return m.Games.Selected()
	}
}

// gameByID rebuilds a game from whatever local copy exists
func (m Model) gameByID(id int) (domain.Game, bool) {
	a := m.App
	if e, ok := a.Library.Entry(id); ok {
		return domain.Game{
			ID:              e.ID,
			Name:            e.Name,
			BackgroundImage: e.BackgroundImage,
			Genres:          e.Genres,
			Metacritic:      e.Metacritic,
		}, true
	}
	for _, f := range a.Favorites.Items() {
		if f.ID == id {
			return domain.Game{ID: f.ID, Name: f.Name, BackgroundImage: f.BackgroundImage, Metacritic: f.Metacritic}, true
		}
	}
	for _, g := range a.Games.ListState().Data.Games {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Game{}, false
}

func errInfoText(info *domain.ErrorInfo) string {
	if info == nil {
		return ""
	}
	return info.Message
}

func errorText(err error, fallback string) string {
	return domain.Normalize(err, fallback).Message
}
