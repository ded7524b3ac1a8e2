package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/query"
	"github.com/mmcdole/arcade/internal/tui/styles"
)

var (
	platformOptions = append([]string{""}, query.PlatformFamilies()...)
	sortOptions     = []string{
		domain.SortRelevance,
		domain.SortRating,
		domain.SortReleaseDate,
		domain.SortPriceAsc,
		domain.SortPriceDesc,
	}
	priceOptions = []string{
		"",
		domain.PriceFree,
		domain.PriceUnder10,
		domain.PriceUnder20,
		domain.PriceUnder30,
		domain.PriceUnder60,
	}
)

// Omnibar key bindings, active while the modal is open
var (
	omnibarPlatform = key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("C-p", "platform"))
	omnibarSort     = key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("C-o", "sort"))
	omnibarPrice    = key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("C-e", "price"))
	omnibarUp       = key.NewBinding(key.WithKeys("up", "ctrl+k"))
	omnibarDown     = key.NewBinding(key.WithKeys("down", "ctrl+j"))
)

// Omnibar is the catalog search modal
type Omnibar struct {
	input    textinput.Model
	platform int
	sort     int
	price    int

	results []domain.Game
	cursor  int
	loading bool
	errMsg  string
	visible bool
	width   int
	height  int
}

// NewOmnibar creates a new omnibar component
func NewOmnibar() Omnibar {
	ti := textinput.New()
	ti.Placeholder = "Search games..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Omnibar{input: ti}
}

// Show makes the omnibar visible and focuses the input
func (o *Omnibar) Show() tea.Cmd {
	o.visible = true
	return o.input.Focus()
}

// Hide hides the omnibar, keeping the query for the next open
func (o *Omnibar) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the omnibar is visible
func (o Omnibar) IsVisible() bool { return o.visible }

// Params returns the search parameters for the current input
func (o Omnibar) Params() domain.SearchParams {
	return domain.SearchParams{
		Query:    strings.TrimSpace(o.input.Value()),
		Platform: platformOptions[o.platform],
		Sort:     sortOptions[o.sort],
		Price:    priceOptions[o.price],
	}
}

// SetResults sets the search results
func (o *Omnibar) SetResults(games []domain.Game) {
	o.results = games
	o.cursor = min(o.cursor, max(len(games)-1, 0))
}

// SetStatus sets the loading flag and error message
func (o *Omnibar) SetStatus(loading bool, errMsg string) {
	o.loading = loading
	o.errMsg = errMsg
}

// Selected returns the highlighted result
func (o Omnibar) Selected() (domain.Game, bool) {
	if o.cursor < 0 || o.cursor >= len(o.results) {
		return domain.Game{}, false
	}
	return o.results[o.cursor], true
}

// SetSize updates the component dimensions
func (o *Omnibar) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = max(width/2, 20)
}

// Update handles a key while the omnibar is open. It reports whether the
// search parameters changed.
func (o *Omnibar) Update(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, omnibarPlatform):
		o.platform = (o.platform + 1) % len(platformOptions)
		return true, nil
	case key.Matches(msg, omnibarSort):
		o.sort = (o.sort + 1) % len(sortOptions)
		return true, nil
	case key.Matches(msg, omnibarPrice):
		o.price = (o.price + 1) % len(priceOptions)
		return true, nil
	case key.Matches(msg, omnibarUp):
		o.cursor = max(o.cursor-1, 0)
		return false, nil
	case key.Matches(msg, omnibarDown):
		o.cursor = min(o.cursor+1, max(len(o.results)-1, 0))
		return false, nil
	}

	before := o.input.Value()
	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	if o.input.Value() != before {
		o.cursor = 0
		return true, cmd
	}
	return false, cmd
}

// View renders the component
func (o Omnibar) View() string {
	width := max(o.width*2/3, 40)
	p := o.Params()

	option := func(label, value, fallback string) string {
		if value == "" {
			value = fallback
		}
		return styles.DimStyle.Render(label+" ") + styles.AccentStyle.Render(value)
	}
	options := strings.Join([]string{
		option("platform", p.Platform, "any"),
		option("sort", p.Sort, ""),
		option("price", p.Price, "any"),
	}, styles.DimStyle.Render("  ·  "))

	lines := []string{
		styles.ModalTitleStyle.Render("Search catalog"),
		o.input.View(),
		options,
		"",
	}

	maxRows := max(o.height/2, 5)
	switch {
	case o.loading:
		lines = append(lines, styles.DimStyle.Render("Searching..."))
	case o.errMsg != "":
		lines = append(lines, styles.ErrorStyle.Render(o.errMsg))
	case p.Query == "":
		lines = append(lines, styles.DimStyle.Render("Type to search"))
	case len(o.results) == 0:
		lines = append(lines, styles.DimStyle.Render("No games found"))
	default:
		start := max(o.cursor-maxRows+1, 0)
		end := min(start+maxRows, len(o.results))
		for i := start; i < end; i++ {
			g := o.results[i]
			label := g.Name
			if y := g.ReleaseYear(); y > 0 {
				label += fmt.Sprintf(" (%d)", y)
			}
			row := styles.NormalItemStyle
			if i == o.cursor {
				row = styles.SelectedItemStyle
			}
			lines = append(lines, row.Width(width-4).Render(styles.Truncate(label, width-6)))
		}
		lines = append(lines, "", styles.DimStyle.Render(fmt.Sprintf("%d results", len(o.results))))
	}

	lines = append(lines, "", styles.DimStyle.Render("C-p platform · C-o sort · C-e price · enter details · esc close"))
	return styles.ModalStyle.Width(width).Render(strings.Join(lines, "\n"))
}
