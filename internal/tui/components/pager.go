package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/arcade/internal/pagination"
	"github.com/mmcdole/arcade/internal/tui/styles"
)

// RenderPager draws the page window with previous/next arrows. Nothing is
// drawn when there is at most one page.
func RenderPager(c pagination.Controls) string {
	if !c.Visible() {
		return ""
	}

	arrow := func(s string, enabled bool) string {
		if enabled {
			return styles.AccentStyle.Render(s)
		}
		return styles.DimStyle.Render(s)
	}

	parts := []string{arrow("‹", c.PrevEnabled)}
	for _, p := range c.Pages {
		label := fmt.Sprint(p)
		if p == c.Current {
			parts = append(parts, styles.BadgeStyle.Render(label))
		} else {
			parts = append(parts, styles.SubtitleStyle.Render(label))
		}
	}
	parts = append(parts, arrow("›", c.NextEnabled))
	parts = append(parts, styles.DimStyle.Render(fmt.Sprintf("of %d", c.Total)))
	return strings.Join(parts, " ")
}
