// Package tui is the terminal front end. It renders the state owned by the
// app's services and turns key presses into service calls.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/arcade/internal/app"
	"github.com/mmcdole/arcade/internal/games"
	"github.com/mmcdole/arcade/internal/tui/components"
)

// Screen is the top-level view
type Screen int

const (
	ScreenBrowse Screen = iota
	ScreenDetail
	ScreenLibrary
	ScreenHelp
)

// Focus is the focused pane on the browse screen
type Focus int

const (
	FocusList Focus = iota
	FocusSidebar
)

// Layout proportions
const (
	SidebarPercent = 28
	MinColumnWidth = 24

	// Vertical layout: single footer line
	ChromeHeight = 1

	observerBuffer = 64
)

// libraryTabs are the library screen tabs; the last one is the wishlist
var libraryTabs = []string{"All", "Installed", "Favorites", "Recent", "Wishlist"}

// Model is the main Bubble Tea model for the application
type Model struct {
	App      *app.App
	Observer *ChannelObserver

	Screen     Screen
	prevScreen Screen
	Focus      Focus
	Ready      bool

	// UI components
	Games     components.GameList
	Sidebar   components.Sidebar
	Inspector components.Inspector
	Omnibar   components.Omnibar
	Library   components.LibraryList

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
	ShowSidebar  bool
	detailID     int

	// Search debounce: only the tick carrying the latest seq fires a request
	searchSeq int
	debounce  time.Duration
}

// NewModel creates the application model and subscribes it to state changes
func NewModel(a *app.App) Model {
	obs := NewChannelObserver(observerBuffer)
	a.Changes.Subscribe(obs)

	debounce := a.Config.Sync.SearchDebounce
	if debounce <= 0 {
		debounce = games.SearchDebounce
	}

	return Model{
		App:         a,
		Observer:    obs,
		Screen:      ScreenBrowse,
		Games:       components.NewGameList("Games", "No games match these filters"),
		Sidebar:     components.NewSidebar(),
		Inspector:   components.NewInspector(),
		Omnibar:     components.NewOmnibar(),
		Library:     components.NewLibraryList(libraryTabs),
		ShowSidebar: true,
		debounce:    debounce,
	}
}

// Run starts the TUI and blocks until it exits
func Run(a *app.App) error {
	p := tea.NewProgram(NewModel(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		StartCmd(m.App),
		m.Observer.Wait(),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case ChangedMsg:
		m.syncState()
		return m, m.Observer.Wait()

	case StartedMsg:
		m.syncState()
		if msg.Err != nil {
			return m.setStatus(StatusMsg{Message: errorText(msg.Err, "Failed to fetch games"), IsError: true})
		}
		return m, nil

	case searchTickMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		return m, SearchCmd(m.App, m.Omnibar.Params())

	case ToggledMsg:
		m.syncState()
		return m.setStatus(toggledStatus(msg))

	case WishlistMsg:
		m.syncState()
		if msg.Err != nil {
			return m.setStatus(StatusMsg{Message: errorText(msg.Err, "Failed to save wishlist"), IsError: true})
		}
		if msg.Added {
			return m.setStatus(StatusMsg{Message: "Added to wishlist: " + msg.Game})
		}
		return m.setStatus(StatusMsg{Message: "Removed from wishlist: " + msg.Game})

	case PlayedMsg:
		m.syncState()
		if msg.Err != nil {
			return m.setStatus(StatusMsg{Message: errorText(msg.Err, "Failed to update last played time"), IsError: true})
		}
		return m.setStatus(StatusMsg{Message: "Marked played: " + msg.Game})

	case OpenedMsg:
		if msg.Err != nil {
			return m.setStatus(StatusMsg{Message: msg.Err.Error(), IsError: true})
		}
		return m.setStatus(StatusMsg{Message: "Opened " + msg.URL})

	case ErrMsg:
		return m.setStatus(StatusMsg{Message: errorText(msg.Err, msg.Context), IsError: true})

	case StatusMsg:
		return m.setStatus(msg)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)
	}

	return m, nil
}

func (m Model) setStatus(msg StatusMsg) (tea.Model, tea.Cmd) {
	m.StatusMsg = msg.Message
	m.StatusIsErr = msg.IsError
	delay := 3 * time.Second
	if msg.IsError {
		delay = 5 * time.Second
	}
	return m, ClearStatusCmd(delay)
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	contentHeight := m.Height - ChromeHeight

	listWidth := m.Width
	if m.ShowSidebar {
		sidebarWidth := max(m.Width*SidebarPercent/100, MinColumnWidth)
		listWidth = max(m.Width-sidebarWidth, MinColumnWidth)
		m.Sidebar.SetSize(sidebarWidth, contentHeight)
	}
	m.Games.SetSize(listWidth, contentHeight)
	m.Inspector.SetSize(m.Width, contentHeight)
	m.Library.SetSize(m.Width, contentHeight)
	m.Omnibar.SetSize(m.Width, m.Height)
}
