package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/library"
	"github.com/mmcdole/arcade/internal/tui/components"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Modal input owns the keyboard
	if m.Omnibar.IsVisible() {
		return m.handleOmnibarKey(msg)
	}
	if m.Screen == ScreenLibrary && m.Library.IsFiltering() {
		return m.handleLibraryFilterKey(msg)
	}
	if m.Screen == ScreenHelp {
		m.Screen = m.prevScreen
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.prevScreen = m.Screen
		m.Screen = ScreenHelp
		return m, nil
	case key.Matches(msg, Keys.Search):
		return m, m.Omnibar.Show()
	case key.Matches(msg, Keys.Tab):
		if m.Screen == ScreenLibrary {
			m.Screen = ScreenBrowse
		} else {
			m.Screen = ScreenLibrary
			m.syncLibrary()
		}
		return m, nil
	}

	switch m.Screen {
	case ScreenDetail:
		return m.handleDetailKey(msg)
	case ScreenLibrary:
		return m.handleLibraryKey(msg)
	default:
		if m.Focus == FocusSidebar {
			return m.handleSidebarKey(msg)
		}
		return m.handleBrowseKey(msg)
	}
}

func (m Model) handleOmnibarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Omnibar.Hide()
		return m, nil
	case tea.KeyEnter:
		g, ok := m.Omnibar.Selected()
		if !ok {
			return m, nil
		}
		m.Omnibar.Hide()
		return m.openDetail(g.ID)
	}

	changed, cmd := m.Omnibar.Update(msg)
	if !changed {
		return m, cmd
	}

	// Every change restarts the quiet window; a blank query clears results
	m.searchSeq++
	if m.Omnibar.Params().Query == "" {
		m.App.Games.ClearSearchResults()
		return m, cmd
	}
	return m, tea.Batch(cmd, DebounceCmd(m.searchSeq, m.debounce))
}

func (m Model) handleLibraryFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Library.StopFilter(true)
	case tea.KeyEnter:
		m.Library.StopFilter(false)
	default:
		cmd := m.Library.UpdateFilter(msg)
		m.syncLibrary()
		return m, cmd
	}
	m.syncLibrary()
	return m, nil
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Up):
		m.Sidebar.MoveUp()
	case key.Matches(msg, Keys.Down):
		m.Sidebar.MoveDown()
	case key.Matches(msg, Keys.Toggle):
		m.Sidebar.Toggle()
	case key.Matches(msg, Keys.Left):
		m.Sidebar.Adjust(-components.RatingStep)
	case key.Matches(msg, Keys.Right):
		m.Sidebar.Adjust(components.RatingStep)
	case key.Matches(msg, Keys.Enter):
		return m.applyFilters()
	case key.Matches(msg, Keys.ClearFilters):
		return m.clearFilters()
	case key.Matches(msg, Keys.Filters), key.Matches(msg, Keys.Escape):
		m.Focus = FocusList
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.App
	switch {
	case key.Matches(msg, Keys.Up):
		m.Games.MoveUp()
	case key.Matches(msg, Keys.Down):
		m.Games.MoveDown()
	case key.Matches(msg, Keys.Home):
		m.Games.Top()
	case key.Matches(msg, Keys.End):
		m.Games.Bottom()
	case key.Matches(msg, Keys.PrevPage):
		if c := a.Games.Pagination(); c.PrevEnabled {
			m.Games.Reset()
			return m, GoToPageCmd(a, c.Current-1)
		}
	case key.Matches(msg, Keys.NextPage):
		if c := a.Games.Pagination(); c.NextEnabled {
			m.Games.Reset()
			return m, GoToPageCmd(a, c.Current+1)
		}
	case key.Matches(msg, Keys.Refresh):
		return m, GoToPageCmd(a, a.Games.Page().CurrentPage)
	case key.Matches(msg, Keys.Filters):
		if !m.ShowSidebar {
			m.ShowSidebar = true
			m.updateLayout()
		}
		m.Focus = FocusSidebar
	case key.Matches(msg, Keys.ClearFilters):
		return m.clearFilters()
	case key.Matches(msg, Keys.Enter), key.Matches(msg, Keys.Right):
		if g, ok := m.Games.Selected(); ok {
			return m.openDetail(g.ID)
		}
	default:
		return m.handleGameAction(msg)
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Left):
		m.Screen = m.prevScreen
		return m, nil
	case key.Matches(msg, Keys.Up):
		m.Inspector.ScrollUp()
		return m, nil
	case key.Matches(msg, Keys.Down):
		m.Inspector.ScrollDown()
		return m, nil
	case key.Matches(msg, Keys.Refresh):
		return m.openDetail(m.detailID)
	}
	return m.handleGameAction(msg)
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Up):
		m.Library.MoveUp()
	case key.Matches(msg, Keys.Down):
		m.Library.MoveDown()
	case key.Matches(msg, Keys.Home):
		m.Library.Top()
	case key.Matches(msg, Keys.End):
		m.Library.Bottom()
	case key.Matches(msg, Keys.CycleView):
		m.Library.NextTab()
		m.syncLibrary()
	case key.Matches(msg, Keys.Filter):
		return m, m.Library.StartFilter()
	case key.Matches(msg, Keys.Escape):
		if m.Library.FilterQuery() != "" {
			m.Library.StopFilter(true)
			m.syncLibrary()
		}
	case key.Matches(msg, Keys.Refresh):
		m.App.Library.ResetError()
		return m, FetchLibraryCmd(m.App)
	case key.Matches(msg, Keys.Enter), key.Matches(msg, Keys.Right):
		if row, ok := m.Library.Selected(); ok {
			return m.openDetail(row.ID)
		}
	default:
		return m.handleGameAction(msg)
	}
	return m, nil
}

// handleGameAction runs the per-game actions shared by every screen
func (m Model) handleGameAction(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.App
	g, ok := m.selectedGame()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.ToggleFavorite), key.Matches(msg, Keys.ToggleInstalled):
		if !a.HasLibrary() {
			return m.setStatus(StatusMsg{Message: "No remote library configured", IsError: true})
		}
		if a.Library.Pending(g.ID) {
			return m, nil
		}
		field := library.FieldFavorite
		if key.Matches(msg, Keys.ToggleInstalled) {
			field = library.FieldInstalled
		}
		return m, ToggleCmd(a, g, field)
	case key.Matches(msg, Keys.MarkPlayed):
		if !a.HasLibrary() {
			return m.setStatus(StatusMsg{Message: "No remote library configured", IsError: true})
		}
		return m, MarkPlayedCmd(a, g)
	case key.Matches(msg, Keys.ToggleWishlist):
		return m, WishlistCmd(a, g)
	case key.Matches(msg, Keys.Open):
		return m, OpenGameCmd(a, g)
	}
	return m, nil
}

func (m Model) openDetail(id int) (tea.Model, tea.Cmd) {
	if m.Screen != ScreenDetail {
		m.prevScreen = m.Screen
	}
	m.Screen = ScreenDetail
	m.detailID = id
	m.Inspector.SetGame(nil)
	if g, ok := m.gameByID(id); ok {
		m.Inspector.SetGame(&g)
	}
	m.Inspector.SetMarks(m.marks(id))
	return m, LoadDetailCmd(m.App, id)
}

func (m Model) applyFilters() (tea.Model, tea.Cmd) {
	f := m.App.Filters
	categories, tags, year, rating := m.Sidebar.Draft()
	f.SetCategories(categories)
	f.SetTags(tags)
	f.SetYear(year)
	f.SetMinRating(rating)
	if err := f.Validate(); err != nil {
		return m.setStatus(StatusMsg{Message: errorText(err, "Invalid filters"), IsError: true})
	}

	m.Focus = FocusList
	m.Games.Reset()
	return m, ApplyFiltersCmd(m.App)
}

func (m Model) clearFilters() (tea.Model, tea.Cmd) {
	m.Sidebar.Load(domain.FilterState{})
	m.Focus = FocusList
	m.Games.Reset()
	return m, ClearFiltersCmd(m.App)
}
