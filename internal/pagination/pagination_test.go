package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(30, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 2, TotalPages(13, 12))
	assert.Equal(t, 0, TotalPages(0, 12))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		size    int
		want    []int
	}{
		{"short list", 1, 3, 5, []int{1, 2, 3}},
		{"centered", 10, 20, 5, []int{8, 9, 10, 11, 12}},
		{"no pages", 1, 0, 5, nil},
		{"single page", 1, 1, 5, nil},
		{"left edge", 2, 20, 5, []int{1, 2, 3, 4, 5}},
		{"right edge", 20, 20, 5, []int{16, 17, 18, 19, 20}},
		{"near right edge", 19, 20, 5, []int{16, 17, 18, 19, 20}},
		{"current past total", 30, 6, 5, []int{2, 3, 4, 5, 6}},
		{"default size", 3, 10, 0, []int{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(tt.current, tt.total, tt.size)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindowStaysFullLength(t *testing.T) {
	for total := 2; total <= 12; total++ {
		for current := 1; current <= total; current++ {
			got := Window(current, total, DefaultWindowSize)
			assert.Len(t, got, min(DefaultWindowSize, total))
			assert.Contains(t, got, current)
		}
	}
}

func TestControls(t *testing.T) {
	c := NewControls(1, 30, 12)
	assert.Equal(t, 3, c.Total)
	assert.Equal(t, []int{1, 2, 3}, c.Pages)
	assert.False(t, c.PrevEnabled)
	assert.True(t, c.NextEnabled)
	assert.True(t, c.Visible())

	c = NewControls(3, 30, 12)
	assert.True(t, c.PrevEnabled)
	assert.False(t, c.NextEnabled)

	// No results: both directions disabled and nothing rendered
	c = NewControls(1, 0, 12)
	assert.False(t, c.PrevEnabled)
	assert.False(t, c.NextEnabled)
	assert.False(t, c.Visible())
	assert.Empty(t, c.Pages)
}
