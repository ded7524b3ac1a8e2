package domain

import (
	"context"
	"net/url"
	"time"
)

// CatalogRepository provides read access to the remote game catalog
type CatalogRepository interface {
	// ListGames returns one page of games for the translated query parameters
	ListGames(ctx context.Context, params url.Values) (GamePage, error)

	// GetGame returns the detail snapshot of a game
	GetGame(ctx context.Context, id int) (Game, error)

	// GetScreenshots returns the screenshots of a game
	GetScreenshots(ctx context.Context, id int) ([]Screenshot, error)
}

// LibraryPatch is a partial update of a library entry. Nil fields are not sent.
type LibraryPatch struct {
	Favorite   *bool
	Installed  *bool
	LastPlayed *time.Time
}

// LibraryRepository provides access to the authenticated user's remote library
type LibraryRepository interface {
	// GetLibrary returns every entry of the user's library
	GetLibrary(ctx context.Context) ([]LibraryEntry, error)

	// AddGame creates an entry and returns it as stored remotely
	AddGame(ctx context.Context, entry LibraryEntry) (LibraryEntry, error)

	// UpdateEntry applies a partial update to the entry with the given game id
	UpdateEntry(ctx context.Context, id int, patch LibraryPatch) error
}

// Session reports whether library mutations are currently permitted.
// Identity management lives outside the core.
type Session interface {
	CanMutate() bool
}

// StaticSession is a Session with a fixed answer
type StaticSession bool

func (s StaticSession) CanMutate() bool { return bool(s) }
