package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/query"
)

func TestYearPresetsTranslate(t *testing.T) {
	for _, o := range YearPresets {
		t.Run(o.Label, func(t *testing.T) {
			assert.NotEmpty(t, query.DateRange(o.Value))
			assert.True(t, query.ValidYear(o.Value))
		})
	}
}

func TestPresetLookup(t *testing.T) {
	o, ok := Preset("Before 2000")
	require.True(t, ok)
	assert.Equal(t, "1950-1999", o.Value)

	o, ok = Preset("2020")
	require.True(t, ok)
	assert.Equal(t, "2020", o.Label)

	_, ok = Preset("1984")
	assert.False(t, ok)
}

func TestPresetIDsAreUnique(t *testing.T) {
	for name, refs := range map[string][]int{
		"categories": ids(Categories),
		"tags":       ids(Tags),
	} {
		assert.Len(t, dedupe(refs), len(refs), name)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"Action", "Puzzle"}, Names(Categories, []int{7, 4, 999}))
	assert.Nil(t, Names(Tags, nil))
}

func ids(refs []domain.Ref) []int {
	out := make([]int, len(refs))
	for i, r := range refs {
		out[i] = r.ID
	}
	return out
}
