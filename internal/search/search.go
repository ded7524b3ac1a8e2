// Package search filters locally cached titles: library entries and
// favorites. Nothing here touches the network.
package search

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/unicode/norm"

	"github.com/mmcdole/arcade/internal/domain"
)

// Kind identifies where an indexed title came from
type Kind string

const (
	KindLibrary  Kind = "library"
	KindFavorite Kind = "favorite"
)

// Item is one searchable title
type Item struct {
	ID    int
	Title string
	Kind  Kind
}

// Result is a match with metadata for highlighting
type Result struct {
	Item
	MatchedIndexes []int // Rune positions in Title
	Score          int   // Higher is better
}

// source implements sahilm/fuzzy.Source over pre-folded titles
type source []string

func (s source) String(i int) string { return s[i] }
func (s source) Len() int            { return len(s) }

// Index holds titles from the library and favorites, deduplicated by kind
// and id. Titles are folded once at index time.
type Index struct {
	mu     sync.RWMutex
	items  []Item
	folded source
	runes  [][]int // Per title, the Title rune behind each folded byte
	seen   map[string]bool
	logger *slog.Logger
}

// NewIndex creates an empty index
func NewIndex(logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{seen: make(map[string]bool), logger: logger}
}

// Add indexes items, skipping ones already present
func (idx *Index) Add(items ...Item) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	added := 0
	for _, item := range items {
		key := string(item.Kind) + ":" + strconv.Itoa(item.ID)
		if idx.seen[key] {
			continue
		}
		idx.seen[key] = true
		idx.items = append(idx.items, item)
		folded, runes := foldMapped(item.Title)
		idx.folded = append(idx.folded, folded)
		idx.runes = append(idx.runes, runes)
		added++
	}
	idx.logger.Debug("indexed titles", "added", added, "skipped", len(items)-added, "total", len(idx.items))
}

// AddLibrary indexes library entries
func (idx *Index) AddLibrary(entries []domain.LibraryEntry) {
	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{ID: e.ID, Title: e.Name, Kind: KindLibrary}
	}
	idx.Add(items...)
}

// AddFavorites indexes favorites
func (idx *Index) AddFavorites(favs []domain.FavoriteEntry) {
	items := make([]Item, len(favs))
	for i, f := range favs {
		items[i] = Item{ID: f.ID, Title: f.Name, Kind: KindFavorite}
	}
	idx.Add(items...)
}

// Clear empties the index
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.items = nil
	idx.folded = nil
	idx.runes = nil
	idx.seen = make(map[string]bool)
}

// Len returns the number of indexed titles
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.items)
}

// Filter returns the titles matching query, best first
func (idx *Index) Filter(query string) []Result {
	q := Fold(query)
	if q == "" {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if len(idx.items) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(q, idx.folded)
	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Item:           idx.items[m.Index],
			MatchedIndexes: titleRunes(idx.runes[m.Index], m.MatchedIndexes),
			Score:          m.Score,
		}
	}
	return results
}

// RankTitles returns the indexes of titles containing the query's
// characters in order, closest match first. Ties keep input order.
func RankTitles(query string, titles []string) []int {
	q := Fold(query)
	if q == "" {
		return nil
	}

	folded := make([]string, len(titles))
	for i, t := range titles {
		folded[i] = Fold(t)
	}

	ranks := lfuzzy.RankFind(q, folded)
	slices.SortStableFunc(ranks, func(a, b lfuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})

	out := make([]int, len(ranks))
	for i, r := range ranks {
		out[i] = r.OriginalIndex
	}
	return out
}

// FilterEntries narrows library entries to those whose name matches query.
// A blank query returns entries unchanged.
func FilterEntries(entries []domain.LibraryEntry, query string) []domain.LibraryEntry {
	if strings.TrimSpace(query) == "" {
		return entries
	}
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Name
	}
	ranked := RankTitles(query, titles)
	out := make([]domain.LibraryEntry, len(ranked))
	for i, idx := range ranked {
		out[i] = entries[idx]
	}
	return out
}

// Fold lowercases s and strips diacritics so "Pokémon" matches "pokemon"
func Fold(s string) string {
	folded, _ := foldMapped(s)
	return folded
}

// foldMapped folds s and records, for every byte of the result, the index
// of the rune in s it came from. Runes are decomposed one at a time so the
// mapping survives dropped marks and multibyte scripts.
func foldMapped(s string) (string, []int) {
	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	lead := utf8.RuneCountInString(s[:len(s)-len(trimmed)])
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	if trimmed == "" {
		return "", nil
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	runes := make([]int, 0, len(trimmed))
	i := lead
	for _, r := range trimmed {
		for _, d := range norm.NFD.String(string(r)) {
			if unicode.Is(unicode.Mn, d) {
				continue
			}
			n, _ := b.WriteRune(unicode.ToLower(d))
			for j := 0; j < n; j++ {
				runes = append(runes, i)
			}
		}
		i++
	}
	return b.String(), runes
}

// titleRunes converts folded byte offsets into distinct Title rune indexes
func titleRunes(runes []int, offsets []int) []int {
	out := make([]int, 0, len(offsets))
	for _, o := range offsets {
		if o < 0 || o >= len(runes) {
			continue
		}
		if r := runes[o]; len(out) == 0 || out[len(out)-1] != r {
			out = append(out, r)
		}
	}
	return out
}
