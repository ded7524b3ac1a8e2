package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/arcade/internal/domain"
)

func TestModelSetters(t *testing.T) {
	var changes []domain.Change
	m := New(domain.ObserverFunc(func(c domain.Change) { changes = append(changes, c) }), nil)

	m.SetCategories([]int{4, 51, 4})
	m.SetTags([]int{31})
	m.SetYear(" 2015-2019 ")
	m.SetMinRating(75)
	m.SetSearchQuery("portal")

	got := m.Snapshot()
	assert.Equal(t, []int{4, 51}, got.Categories)
	assert.Equal(t, []int{31}, got.Tags)
	assert.Equal(t, "2015-2019", got.Year)
	assert.Equal(t, 75, got.MinRating)
	assert.Equal(t, "portal", got.SearchQuery)
	assert.Len(t, changes, 5)
	assert.Equal(t, domain.SliceFilters, changes[0].Slice)
}

func TestModelClearResetsEverything(t *testing.T) {
	m := New(nil, nil)
	m.SetCategories([]int{4})
	m.SetYear("2020")
	m.SetMinRating(90)

	m.Clear()

	assert.True(t, m.Snapshot().IsZero())
}

func TestSnapshotIsIsolated(t *testing.T) {
	m := New(nil, nil)
	m.SetCategories([]int{1, 2})

	snap := m.Snapshot()
	snap.Categories[0] = 99

	assert.Equal(t, []int{1, 2}, m.Snapshot().Categories)
}

func TestModelValidate(t *testing.T) {
	m := New(nil, nil)
	require.NoError(t, m.Validate())

	m.SetYear("2020-2010")
	err := m.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	m.SetYear("")
	m.SetMinRating(101)
	assert.ErrorIs(t, m.Validate(), domain.ErrValidation)
}
