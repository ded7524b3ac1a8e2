package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/domain"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Pokémon", "pokemon"},
		{"  ÖKAMI ", "okami"},
		{"Half-Life 2", "half-life 2"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), tt.in)
	}
}

func TestRankTitles(t *testing.T) {
	titles := []string{"Portal 2", "Portal", "Hades", "Pokémon Red"}

	assert.Equal(t, []int{1, 0}, RankTitles("portal", titles))
	assert.Equal(t, []int{3}, RankTitles("pokemon", titles))
	assert.Empty(t, RankTitles("zelda", titles))
	assert.Nil(t, RankTitles("  ", titles))
}

func TestFilterEntries(t *testing.T) {
	entries := []domain.LibraryEntry{
		{ID: 1, Name: "Celeste"},
		{ID: 2, Name: "Hades"},
		{ID: 3, Name: "Hades II"},
	}

	got := FilterEntries(entries, "hades")
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID)

	assert.Equal(t, entries, FilterEntries(entries, ""))
}

func TestIndexDeduplicatesByKindAndID(t *testing.T) {
	idx := NewIndex(adapter.NullLogger())
	idx.AddLibrary([]domain.LibraryEntry{{ID: 1, Name: "Celeste"}, {ID: 2, Name: "Hades"}})
	idx.AddLibrary([]domain.LibraryEntry{{ID: 1, Name: "Celeste"}})
	idx.AddFavorites([]domain.FavoriteEntry{{ID: 1, Name: "Celeste"}})

	assert.Equal(t, 3, idx.Len())

	idx.Clear()
	assert.Equal(t, 0, idx.Len())
	assert.Nil(t, idx.Filter("celeste"))
}

func TestMatchedIndexesAreTitleRunes(t *testing.T) {
	tests := []struct {
		title string
		query string
		want  string
	}{
		{"大神 Okami", "okami", "Okami"},
		{"  Pokémon", "kemon", "kémon"},
		{"Ōkami HD", "okami", "Ōkami"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			idx := NewIndex(adapter.NullLogger())
			idx.Add(Item{ID: 1, Title: tt.title, Kind: KindLibrary})

			got := idx.Filter(tt.query)
			require.Len(t, got, 1)

			runes := []rune(tt.title)
			var matched []rune
			for _, i := range got[0].MatchedIndexes {
				require.Less(t, i, len(runes))
				matched = append(matched, runes[i])
			}
			assert.Equal(t, tt.want, string(matched))
		})
	}
}

func TestIndexFilter(t *testing.T) {
	idx := NewIndex(adapter.NullLogger())
	idx.AddLibrary([]domain.LibraryEntry{
		{ID: 1, Name: "Celeste"},
		{ID: 2, Name: "Hades"},
	})
	idx.AddFavorites([]domain.FavoriteEntry{{ID: 9, Name: "Ōkami"}})

	got := idx.Filter("hds")
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, KindLibrary, got[0].Kind)
	assert.Equal(t, []int{0, 2, 4}, got[0].MatchedIndexes)

	got = idx.Filter("okami")
	require.Len(t, got, 1)
	assert.Equal(t, KindFavorite, got[0].Kind)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got[0].MatchedIndexes)

	assert.Nil(t, idx.Filter(""))
}
