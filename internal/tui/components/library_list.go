package components

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/arcade/internal/tui/styles"
)

// LibraryRow is one rendered library or wishlist entry
type LibraryRow struct {
	ID         int
	Name       string
	Metacritic int
	Marks      Marks
	LastPlayed *time.Time
	Matched    []int // Highlighted rune positions in Name
}

// LibraryList shows the library views as tabs over a filterable list
type LibraryList struct {
	tabs   []string
	tab    int
	rows   []LibraryRow
	cursor int
	offset int
	width  int
	height int

	filter    textinput.Model
	filtering bool
	loading   bool
	errMsg    string
	notice    string
}

// NewLibraryList creates the library list with the given tab labels
func NewLibraryList(tabs []string) LibraryList {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 60
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.PlaceholderStyle = styles.DimStyle
	return LibraryList{tabs: tabs, filter: ti}
}

// Tab returns the active tab index
func (l LibraryList) Tab() int { return l.tab }

// NextTab cycles to the next tab
func (l *LibraryList) NextTab() {
	l.tab = (l.tab + 1) % len(l.tabs)
	l.cursor, l.offset = 0, 0
}

// SetRows replaces the rows, keeping the cursor in range
func (l *LibraryList) SetRows(rows []LibraryRow) {
	l.rows = rows
	l.cursor = min(l.cursor, max(len(rows)-1, 0))
	l.clampOffset()
}

// SetStatus sets the loading flag, error and notice lines
func (l *LibraryList) SetStatus(loading bool, errMsg, notice string) {
	l.loading = loading
	l.errMsg = errMsg
	l.notice = notice
}

// SetSize updates the component dimensions
func (l *LibraryList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.filter.Width = max(width-8, 10)
	l.clampOffset()
}

// StartFilter focuses the filter input
func (l *LibraryList) StartFilter() tea.Cmd {
	l.filtering = true
	return l.filter.Focus()
}

// StopFilter blurs the input; clear also drops the query
func (l *LibraryList) StopFilter(clear bool) {
	l.filtering = false
	l.filter.Blur()
	if clear {
		l.filter.SetValue("")
	}
}

// IsFiltering reports whether the filter input has focus
func (l LibraryList) IsFiltering() bool { return l.filtering }

// FilterQuery returns the current filter text
func (l LibraryList) FilterQuery() string { return strings.TrimSpace(l.filter.Value()) }

// UpdateFilter feeds a key to the filter input
func (l *LibraryList) UpdateFilter(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	l.filter, cmd = l.filter.Update(msg)
	l.cursor, l.offset = 0, 0
	return cmd
}

// MoveUp moves the cursor up
func (l *LibraryList) MoveUp() {
	l.cursor = max(l.cursor-1, 0)
	l.clampOffset()
}

// MoveDown moves the cursor down
func (l *LibraryList) MoveDown() {
	l.cursor = min(l.cursor+1, max(len(l.rows)-1, 0))
	l.clampOffset()
}

// Top moves to the first row
func (l *LibraryList) Top() {
	l.cursor = 0
	l.clampOffset()
}

// Bottom moves to the last row
func (l *LibraryList) Bottom() {
	l.cursor = max(len(l.rows)-1, 0)
	l.clampOffset()
}

// Selected returns the row under the cursor
func (l LibraryList) Selected() (LibraryRow, bool) {
	if l.cursor < 0 || l.cursor >= len(l.rows) {
		return LibraryRow{}, false
	}
	return l.rows[l.cursor], true
}

func (l LibraryList) visibleRows() int {
	// border, tabs, filter, blank line
	return max(l.height-6, 1)
}

func (l *LibraryList) clampOffset() {
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
func (l LibraryList) View(focused bool) string {
	width := max(l.width-4, 10)

	tabs := make([]string, len(l.tabs))
	for i, t := range l.tabs {
		if i == l.tab {
			tabs[i] = styles.BadgeStyle.Render(t)
		} else {
			tabs[i] = styles.DimBadgeStyle.Render(t)
		}
	}
	lines := []string{strings.Join(tabs, " ")}

	if l.filtering || l.FilterQuery() != "" {
		lines = append(lines, l.filter.View())
	} else {
		lines = append(lines, "")
	}
	if l.notice != "" {
		lines = append(lines, styles.WarningStyle.Render(styles.Truncate(l.notice, width)))
	}

	switch {
	case l.loading && len(l.rows) == 0:
		lines = append(lines, styles.DimStyle.Render("Loading library..."))
	case len(l.rows) == 0 && l.errMsg != "":
		lines = append(lines, styles.ErrorStyle.Render(styles.Truncate(l.errMsg, width)))
	case len(l.rows) == 0:
		lines = append(lines, styles.DimStyle.Render("Nothing here yet"))
	default:
		if l.errMsg != "" {
			lines = append(lines, styles.ErrorStyle.Render(styles.Truncate(l.errMsg, width)))
		}
		end := min(l.offset+l.visibleRows(), len(l.rows))
		for i := l.offset; i < end; i++ {
			lines = append(lines, renderLibraryRow(l.rows[i], focused && i == l.cursor, width))
		}
	}

	border := styles.InactiveBorder
	if focused {
		border = styles.ActiveBorder
	}
	return border.Width(max(l.width-2, 1)).Height(max(l.height-2, 1)).Render(strings.Join(lines, "\n"))
}

func renderLibraryRow(r LibraryRow, selected bool, width int) string {
	played := ""
	if r.LastPlayed != nil {
		played = " " + r.LastPlayed.Local().Format("2006-01-02")
	}
	score := "  -"
	if r.Metacritic > 0 {
		score = fmt.Sprintf("%3d", r.Metacritic)
	}

	marks := r.Marks.String() + " "
	nameWidth := width - lipgloss.Width(marks) - len(played) - len(score) - 3
	name := styles.Truncate(r.Name, nameWidth)

	accent := styles.Accent
	dim := styles.DimGray
	parts := []styles.RowPart{{Text: marks, Foreground: &accent}}
	parts = append(parts, highlight(name, r.Matched)...)
	if pad := nameWidth - lipgloss.Width(name); pad > 0 {
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", pad)})
	}
	parts = append(parts,
		styles.RowPart{Text: played, Foreground: &dim},
		styles.RowPart{Text: " " + score, Bold: true},
	)
	return styles.RenderListRow(parts, selected, width)
}

// highlight splits text into parts, flagging runes at the matched rune
// positions
func highlight(text string, matched []int) []styles.RowPart {
	if len(matched) == 0 {
		return []styles.RowPart{{Text: text}}
	}
	var parts []styles.RowPart
	var run []rune
	runMatched := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		p := styles.RowPart{Text: string(run)}
		p.Match = runMatched
		parts = append(parts, p)
		run = nil
	}
	for i, r := range []rune(text) {
		m := slices.Contains(matched, i)
		if m != runMatched {
			flush()
			runMatched = m
		}
		run = append(run, r)
	}
	flush()
	return parts
}
