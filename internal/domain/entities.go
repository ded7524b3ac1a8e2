package domain

import (
	"strings"
	"time"
)

// Ref is a named catalog reference (genre, tag, platform, developer, publisher)
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Screenshot is a single image attached to a game
type Screenshot struct {
	ID     int    `json:"id"`
	Image  string `json:"image"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Game is an immutable catalog snapshot. It is replaced wholesale on every
// successful fetch and never patched in place.
type Game struct {
	ID              int     // Catalog identifier
	Slug            string  // URL slug
	Name            string  // Display title
	BackgroundImage string  // Hero image URL
	Metacritic      int     // Critic score 0-100, 0 when unscored
	Rating          float64 // Community rating (0-5)
	Released        string  // Release date, YYYY-MM-DD
	DescriptionRaw  string  // Plain-text description (detail only)

	Genres     []Ref
	Platforms  []Ref
	Tags       []Ref
	Developers []Ref
	Publishers []Ref

	// Screenshots is populated by the detail fetch
	Screenshots []Screenshot

	// Price is absent on the public catalog; mirrors that carry it set it
	Price *float64
}

// HasMetacritic reports whether the game carries a critic score
func (g Game) HasMetacritic() bool { return g.Metacritic > 0 }

// ReleaseYear returns the release year, or 0 when unknown
func (g Game) ReleaseYear() int {
	t, err := time.Parse("2006-01-02", g.Released)
	if err != nil {
		return 0
	}
	return t.Year()
}

// GenreNames returns the genre names joined for display
func (g Game) GenreNames() string {
	names := make([]string, 0, len(g.Genres))
	for _, genre := range g.Genres {
		names = append(names, genre.Name)
	}
	return strings.Join(names, ", ")
}

// GamePage is one page of a catalog listing
type GamePage struct {
	Games    []Game
	Count    int    // Total items on the server
	Next     string // Cursor URL for the next page, empty on the last page
	Previous string // Cursor URL for the previous page, empty on the first page
}

// GameDetail is a detail fetch result keyed by the requested game id
type GameDetail struct {
	GameID int
	Game   Game
}

// SearchResult is a search fetch result keyed by the query that produced it
type SearchResult struct {
	Params SearchParams
	Games  []Game
	Count  int
}

// LibraryEntry is a game in the user's library. It carries a denormalized copy
// of the display fields taken when the entry was created; those go stale and
// are never refreshed from a later catalog snapshot.
type LibraryEntry struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	BackgroundImage string     `json:"background_image"`
	Genres          []Ref      `json:"genres"`
	Metacritic      int        `json:"metacritic"`
	Favorite        bool       `json:"favorite"`
	Installed       bool       `json:"installed"`
	LastPlayed      *time.Time `json:"lastPlayed"`

	// LocalOnly marks entries synthesized when the remote add failed.
	// The remote library has never seen them.
	LocalOnly bool `json:"localOnly,omitempty"`
}

// NewLibraryEntry builds an entry for a game with default flags
func NewLibraryEntry(g Game) LibraryEntry {
	return LibraryEntry{
		ID:              g.ID,
		Name:            g.Name,
		BackgroundImage: g.BackgroundImage,
		Genres:          g.Genres,
		Metacritic:      g.Metacritic,
	}
}

// FavoriteEntry is a wishlist item in the locally persisted favorites collection
type FavoriteEntry struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	BackgroundImage string `json:"background_image"`
	Metacritic      int    `json:"metacritic"`
}

// NewFavoriteEntry copies the minimal display fields of a game
func NewFavoriteEntry(g Game) FavoriteEntry {
	return FavoriteEntry{
		ID:              g.ID,
		Name:            g.Name,
		BackgroundImage: g.BackgroundImage,
		Metacritic:      g.Metacritic,
	}
}
