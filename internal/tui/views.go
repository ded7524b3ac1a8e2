package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/arcade/internal/tui/styles"
)

// View renders the current screen
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.Screen == ScreenHelp {
		return m.renderHelp()
	}

	var content string
	switch m.Screen {
	case ScreenDetail:
		content = m.Inspector.View()
	case ScreenLibrary:
		content = m.Library.View(true)
	default:
		if m.ShowSidebar {
			content = lipgloss.JoinHorizontal(
				lipgloss.Top,
				m.Sidebar.View(m.Focus == FocusSidebar),
				m.Games.View(m.Focus == FocusList),
			)
		} else {
			content = m.Games.View(true)
		}
	}

	view := lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())

	if m.Omnibar.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Omnibar.View())
	}

	return view
}

// loading reports whether any request the current screen shows is in flight
func (m Model) loading() bool {
	a := m.App
	switch m.Screen {
	case ScreenDetail:
		return a.Games.DetailState().IsPending()
	case ScreenLibrary:
		return a.Library.FetchState().IsPending()
	default:
		return a.Games.ListState().IsPending()
	}
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.loading():
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	}

	var center string
	switch m.Screen {
	case ScreenBrowse:
		if m.Focus == FocusSidebar {
			center = styles.AccentStyle.Render("space") + styles.DimStyle.Render(" toggle  ") +
				styles.AccentStyle.Render("enter") + styles.DimStyle.Render(" apply")
		} else {
			center = styles.AccentStyle.Render("[ ]") + styles.DimStyle.Render(" page  ") +
				styles.AccentStyle.Render("F") + styles.DimStyle.Render(" filters")
		}
	case ScreenLibrary:
		center = styles.AccentStyle.Render("v") + styles.DimStyle.Render(" view  ") +
			styles.AccentStyle.Render("/") + styles.DimStyle.Render(" filter")
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

type helpEntry struct{ key, desc string }

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpColumns = [][]helpSection{
	{
		{"NAVIGATION", []helpEntry{
			{"j/k", "Up/down"},
			{"h/l", "Back/open"},
			{"g/G", "First/last item"},
			{"[ / ]", "Previous/next page"},
			{"Tab", "Browse/library"},
			{"Enter", "Game details"},
		}},
		{"SEARCH & FILTERS", []helpEntry{
			{"s", "Search catalog"},
			{"F", "Filter sidebar"},
			{"Space", "Toggle filter"},
			{"h/l", "Adjust min rating"},
			{"C", "Clear filters"},
			{"Ctrl+p/o/e", "Platform/sort/price"},
		}},
	},
	{
		{"LIBRARY", []helpEntry{
			{"f", "Toggle favorite"},
			{"i", "Toggle installed"},
			{"p", "Mark played"},
			{"w", "Toggle wishlist"},
			{"v", "Cycle library view"},
			{"/", "Filter library"},
		}},
		{"OTHER", []helpEntry{
			{"o", "Open in browser"},
			{"r", "Refresh"},
			{"q", "Quit"},
			{"?", "This help"},
			{"Esc", "Close / Cancel"},
		}},
	},
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	columns := make([]string, len(helpColumns))
	for i, sections := range helpColumns {
		var lines []string
		for j, sec := range sections {
			if j > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, styles.TitleStyle.Render(sec.title))
			for _, e := range sec.entries {
				lines = append(lines, "  "+styles.HelpKeyStyle.Render(styles.Pad(e.key, 11))+styles.HelpDescStyle.Render(e.desc))
			}
		}
		columns[i] = lipgloss.NewStyle().Width(34).Render(strings.Join(lines, "\n"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		"",
		styles.DimStyle.Render("Press any key to return..."),
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(body))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])
}
