package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/tui/styles"
)

// Inspector displays the detail of one game
type Inspector struct {
	game    *domain.Game
	marks   Marks
	loading bool
	errMsg  string
	width   int
	height  int
	offset  int
}

// NewInspector creates an empty inspector
func NewInspector() Inspector {
	return Inspector{}
}

// SetGame sets the game to display and resets the scroll
func (i *Inspector) SetGame(g *domain.Game) {
	if i.game == nil || g == nil || i.game.ID != g.ID {
		i.offset = 0
	}
	i.game = g
}

// SetMarks sets the library indicators
func (i *Inspector) SetMarks(m Marks) { i.marks = m }

// SetStatus sets the loading flag and error message
func (i *Inspector) SetStatus(loading bool, errMsg string) {
	i.loading = loading
	i.errMsg = errMsg
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// ScrollUp scrolls the body up one line
func (i *Inspector) ScrollUp() { i.offset = max(i.offset-1, 0) }

// ScrollDown scrolls the body down one line
func (i *Inspector) ScrollDown() { i.offset++ }

// View renders the component
func (i Inspector) View() string {
	contentWidth := max(i.width-4, 10)
	visible := max(i.height-2, 1)

	var lines []string
	switch {
	case i.loading:
		lines = []string{styles.DimStyle.Render("Loading game details...")}
	case i.errMsg != "":
		lines = []string{styles.ErrorStyle.Render(wordWrap(i.errMsg, contentWidth))}
	case i.game == nil:
		lines = []string{styles.DimStyle.Render("Select a game")}
	default:
		lines = splitLines(i.render(*i.game, contentWidth))
	}

	offset := min(i.offset, max(len(lines)-visible, 0))
	end := min(offset+visible, len(lines))
	return styles.InactiveBorder.Width(max(i.width-2, 1)).Height(visible).Render(
		strings.Join(lines[offset:end], "\n"),
	)
}

func (i Inspector) render(g domain.Game, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(wordWrap(g.Name, width)))
	b.WriteString("\n")

	var meta []string
	if g.HasMetacritic() {
		meta = append(meta, styles.ScoreStyle(g.Metacritic).Render(fmt.Sprintf("Metacritic %d", g.Metacritic)))
	}
	if g.Rating > 0 {
		meta = append(meta, styles.SubtitleStyle.Render(fmt.Sprintf("★ %.1f", g.Rating)))
	}
	if g.Released != "" {
		meta = append(meta, styles.SubtitleStyle.Render(g.Released))
	}
	if g.Price != nil {
		meta = append(meta, styles.SubtitleStyle.Render(fmt.Sprintf("$%.2f", *g.Price)))
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, styles.DimStyle.Render(" · ")))
		b.WriteString("\n")
	}

	var badges []string
	if i.marks.Favorite {
		badges = append(badges, styles.BadgeStyle.Render(styles.FavoriteChar+" Favorite"))
	}
	if i.marks.Installed {
		badges = append(badges, styles.BadgeStyle.Render(styles.InstalledChar+" Installed"))
	}
	if i.marks.Wishlist {
		badges = append(badges, styles.DimBadgeStyle.Render(styles.WishlistChar+" Wishlist"))
	}
	if i.marks.LocalOnly {
		badges = append(badges, styles.DimBadgeStyle.Render(styles.LocalOnlyChar+" Not synced"))
	}
	if len(badges) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(badges, " "))
		b.WriteString("\n")
	}

	field := func(label string, refs []domain.Ref) {
		if len(refs) == 0 {
			return
		}
		names := make([]string, len(refs))
		for n, r := range refs {
			names[n] = r.Name
		}
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(wordWrap(strings.Join(names, ", "), width))
		b.WriteString("\n")
	}
	field("Genres", g.Genres)
	field("Platforms", g.Platforms)
	field("Developers", g.Developers)
	field("Publishers", g.Publishers)
	field("Tags", g.Tags)

	if g.DescriptionRaw != "" {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("About"))
		b.WriteString("\n")
		b.WriteString(wordWrap(g.DescriptionRaw, width))
		b.WriteString("\n")
	}

	if len(g.Screenshots) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Screenshots (%d)", len(g.Screenshots))))
		b.WriteString("\n")
		for _, s := range g.Screenshots {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Blue).Render(styles.Truncate(s.Image, width)))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text at word boundaries, keeping paragraph breaks
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for p, paragraph := range strings.Split(text, "\n") {
		if p > 0 {
			result.WriteString("\n")
		}
		lineLen := 0
		for i, word := range strings.Fields(paragraph) {
			wordLen := lipgloss.Width(word)
			if lineLen+wordLen+1 > width && lineLen > 0 {
				result.WriteString("\n")
				lineLen = 0
			} else if i > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wordLen
		}
	}
	return result.String()
}
