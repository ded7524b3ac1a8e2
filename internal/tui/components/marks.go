package components

import (
	"strings"

	"github.com/mmcdole/arcade/internal/tui/styles"
)

// Marks are the per-game indicators drawn in front of a title
type Marks struct {
	Favorite  bool
	Installed bool
	Wishlist  bool
	LocalOnly bool
	Pending   bool
}

// String renders the marks as a fixed-width prefix
func (m Marks) String() string {
	slot := func(on bool, char string) string {
		if on {
			return char
		}
		return " "
	}
	var b strings.Builder
	b.WriteString(slot(m.Favorite, styles.FavoriteChar))
	b.WriteString(slot(m.Installed, styles.InstalledChar))
	b.WriteString(slot(m.Wishlist, styles.WishlistChar))
	switch {
	case m.Pending:
		b.WriteString("…")
	case m.LocalOnly:
		b.WriteString(styles.LocalOnlyChar)
	default:
		b.WriteString(" ")
	}
	return b.String()
}
