package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/arcade/internal/tui/styles"
)

func TestHighlightSplitsOnRunes(t *testing.T) {
	parts := highlight("大神 Okami", []int{3, 4, 5, 6, 7})
	assert.Equal(t, []styles.RowPart{
		{Text: "大神 "},
		{Text: "Okami", Match: true},
	}, parts)

	parts = highlight("Hades", []int{0, 2, 4})
	assert.Equal(t, []styles.RowPart{
		{Text: "H", Match: true},
		{Text: "a"},
		{Text: "d", Match: true},
		{Text: "e"},
		{Text: "s", Match: true},
	}, parts)

	assert.Equal(t, []styles.RowPart{{Text: "Celeste"}}, highlight("Celeste", nil))
}
