package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/tui/styles"
)

// GameList is a scrollable list of catalog games
type GameList struct {
	title  string
	games  []domain.Game
	marks  map[int]Marks
	cursor int
	offset int
	width  int
	height int

	loading bool
	errMsg  string
	empty   string
	footer  string
}

// NewGameList creates an empty list
func NewGameList(title, empty string) GameList {
	return GameList{title: title, empty: empty}
}

// SetGames replaces the items, keeping the cursor in range
func (l *GameList) SetGames(games []domain.Game) {
	l.games = games
	l.cursor = min(l.cursor, max(len(games)-1, 0))
	l.clampOffset()
}

// SetMarks sets the per-game indicators
func (l *GameList) SetMarks(marks map[int]Marks) { l.marks = marks }

// SetStatus sets the loading flag and error message shown instead of items
func (l *GameList) SetStatus(loading bool, errMsg string) {
	l.loading = loading
	l.errMsg = errMsg
}

// SetTitle sets the header line
func (l *GameList) SetTitle(title string) { l.title = title }

// SetFooter sets a line rendered under the items (the pager)
func (l *GameList) SetFooter(footer string) { l.footer = footer }

// SetSize updates the component dimensions
func (l *GameList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clampOffset()
}

// Reset moves the cursor to the first item
func (l *GameList) Reset() {
	l.cursor = 0
	l.offset = 0
}

// MoveUp moves the cursor up
func (l *GameList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
		l.clampOffset()
	}
}

// MoveDown moves the cursor down
func (l *GameList) MoveDown() {
	if l.cursor < len(l.games)-1 {
		l.cursor++
		l.clampOffset()
	}
}

// Top moves to the first item
func (l *GameList) Top() {
	l.cursor = 0
	l.clampOffset()
}

// Bottom moves to the last item
func (l *GameList) Bottom() {
	l.cursor = max(len(l.games)-1, 0)
	l.clampOffset()
}

// Selected returns the game under the cursor
func (l GameList) Selected() (domain.Game, bool) {
	if l.cursor < 0 || l.cursor >= len(l.games) {
		return domain.Game{}, false
	}
	return l.games[l.cursor], true
}

// Len returns the number of games
func (l GameList) Len() int { return len(l.games) }

func (l GameList) visibleRows() int {
	// border, title, blank line and footer
	return max(l.height-5, 1)
}

func (l *GameList) clampOffset() {
	rows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
	l.offset = max(l.offset, 0)
}

// View renders the component
func (l GameList) View(focused bool) string {
	contentWidth := max(l.width-4, 10)
	lines := []string{styles.AccentStyle.Bold(true).Render(styles.Truncate(l.title, contentWidth)), ""}

	switch {
	case l.loading && len(l.games) == 0:
		lines = append(lines, styles.DimStyle.Render("Loading..."))
	case l.errMsg != "":
		lines = append(lines, styles.ErrorStyle.Render(styles.Truncate(l.errMsg, contentWidth)))
	case len(l.games) == 0:
		lines = append(lines, styles.DimStyle.Render(l.empty))
	default:
		end := min(l.offset+l.visibleRows(), len(l.games))
		for i := l.offset; i < end; i++ {
			lines = append(lines, l.renderRow(l.games[i], i == l.cursor && focused, contentWidth))
		}
	}

	body := lipgloss.NewStyle().Height(max(l.height-3, 1)).Render(strings.Join(lines, "\n"))
	if l.footer != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, l.footer)
	}

	border := styles.InactiveBorder
	if focused {
		border = styles.ActiveBorder
	}
	return border.Width(max(l.width-2, 1)).Render(body)
}

func (l GameList) renderRow(g domain.Game, selected bool, width int) string {
	score := "  -"
	if g.HasMetacritic() {
		score = fmt.Sprintf("%3d", g.Metacritic)
	}
	year := ""
	if y := g.ReleaseYear(); y > 0 {
		year = fmt.Sprintf(" (%d)", y)
	}

	marks := l.marks[g.ID].String()
	nameWidth := width - lipgloss.Width(marks) - len(year) - len(score) - 4
	name := styles.Pad(styles.Truncate(g.Name, nameWidth), nameWidth)

	scoreColor := styles.ScoreStyle(g.Metacritic).GetForeground()
	var fg *lipgloss.Color
	if c, ok := scoreColor.(lipgloss.Color); ok {
		fg = &c
	}
	accent := styles.Accent
	return styles.RenderListRow([]styles.RowPart{
		{Text: marks + " ", Foreground: &accent},
		{Text: name},
		{Text: year},
		{Text: " " + score, Foreground: fg, Bold: true},
	}, selected, width)
}
