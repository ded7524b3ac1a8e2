package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/filters"
	"github.com/mmcdole/arcade/internal/tui/styles"
)

// RatingStep is how far one left/right press moves the rating floor
const RatingStep = 10

type rowKind int

const (
	rowCategory rowKind = iota
	rowTag
	rowYear
	rowRating
)

type sidebarRow struct {
	kind  rowKind
	index int
}

// Sidebar edits a draft of the filters. Nothing reaches the filter model
// until the draft is applied.
type Sidebar struct {
	categories []int
	tags       []int
	year       string
	rating     int

	rows   []sidebarRow
	cursor int
	width  int
	height int
}

// NewSidebar creates a sidebar over the preset filter options
func NewSidebar() Sidebar {
	s := Sidebar{rating: filters.DefaultMinRating}
	for i := range filters.Categories {
		s.rows = append(s.rows, sidebarRow{rowCategory, i})
	}
	for i := range filters.Tags {
		s.rows = append(s.rows, sidebarRow{rowTag, i})
	}
	for i := range filters.YearPresets {
		s.rows = append(s.rows, sidebarRow{rowYear, i})
	}
	s.rows = append(s.rows, sidebarRow{kind: rowRating})
	return s
}

// Load resets the draft to the given state (after apply or clear)
func (s *Sidebar) Load(state domain.FilterState) {
	s.categories = slices.Clone(state.Categories)
	s.tags = slices.Clone(state.Tags)
	s.year = state.Year
	s.rating = state.MinRating
}

// Draft returns the edited values
func (s Sidebar) Draft() (categories, tags []int, year string, rating int) {
	return slices.Clone(s.categories), slices.Clone(s.tags), s.year, s.rating
}

// SetSize updates the component dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// MoveUp moves the cursor up
func (s *Sidebar) MoveUp() { s.cursor = max(s.cursor-1, 0) }

// MoveDown moves the cursor down
func (s *Sidebar) MoveDown() { s.cursor = min(s.cursor+1, len(s.rows)-1) }

// Toggle flips the option under the cursor. Year is single-select.
func (s *Sidebar) Toggle() {
	row := s.rows[s.cursor]
	switch row.kind {
	case rowCategory:
		s.categories = toggleID(s.categories, filters.Categories[row.index].ID)
	case rowTag:
		s.tags = toggleID(s.tags, filters.Tags[row.index].ID)
	case rowYear:
		v := filters.YearPresets[row.index].Value
		if s.year == v {
			s.year = ""
		} else {
			s.year = v
		}
	}
}

// Adjust moves the rating floor when the cursor is on it
func (s *Sidebar) Adjust(delta int) {
	if s.rows[s.cursor].kind != rowRating {
		return
	}
	s.rating = min(max(s.rating+delta, 0), 100)
}

func toggleID(ids []int, id int) []int {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return append(ids, id)
}

// View renders the component
func (s Sidebar) View(focused bool) string {
	width := max(s.width-4, 10)
	var lines []string
	section := func(title string) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styles.AccentStyle.Bold(true).Render(title))
	}

	for i, row := range s.rows {
		selected := focused && i == s.cursor
		switch row.kind {
		case rowCategory:
			if row.index == 0 {
				section("Categories")
			}
			ref := filters.Categories[row.index]
			lines = append(lines, checkbox(ref.Name, slices.Contains(s.categories, ref.ID), selected, width))
		case rowTag:
			if row.index == 0 {
				section("Tags")
			}
			ref := filters.Tags[row.index]
			lines = append(lines, checkbox(ref.Name, slices.Contains(s.tags, ref.ID), selected, width))
		case rowYear:
			if row.index == 0 {
				section("Release year")
			}
			o := filters.YearPresets[row.index]
			lines = append(lines, radio(o.Label, s.year == o.Value, selected, width))
		case rowRating:
			section("Min metacritic")
			label := fmt.Sprintf("◂ %d ▸", s.rating)
			if s.rating == 0 {
				label = "◂ any ▸"
			}
			lines = append(lines, styles.RenderListRow([]styles.RowPart{{Text: label}}, selected, width))
		}
	}
	lines = append(lines, "", styles.DimStyle.Render("space toggle · enter apply"))

	// Keep the cursor row on screen
	visible := max(s.height-2, 1)
	cursorLine := s.cursorLine(lines)
	start := 0
	if cursorLine >= visible {
		start = cursorLine - visible + 1
	}
	end := min(start+visible, len(lines))

	border := styles.InactiveBorder
	if focused {
		border = styles.ActiveBorder
	}
	return border.Width(max(s.width-2, 1)).Height(visible).Render(
		lipgloss.NewStyle().MaxWidth(width+2).Render(strings.Join(lines[start:end], "\n")),
	)
}

// cursorLine maps the cursor row to its rendered line, counting headers
func (s Sidebar) cursorLine(lines []string) int {
	line := 0
	for i, row := range s.rows {
		if row.index == 0 || row.kind == rowRating {
			if i > 0 {
				line++ // blank separator
			}
			line++ // header
		}
		if i == s.cursor {
			return min(line, len(lines)-1)
		}
		line++
	}
	return 0
}

func checkbox(label string, on, selected bool, width int) string {
	box := "[ ] "
	if on {
		box = "[x] "
	}
	return styles.RenderListRow([]styles.RowPart{{Text: box + label}}, selected, width)
}

func radio(label string, on, selected bool, width int) string {
	dot := "( ) "
	if on {
		dot = "(•) "
	}
	return styles.RenderListRow([]styles.RowPart{{Text: dot + label}}, selected, width)
}
