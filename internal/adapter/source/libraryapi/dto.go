package libraryapi

import "time"

// EntryDTO is a library entry as stored remotely. Some backends echo the
// catalog id as gameId rather than id.
type EntryDTO struct {
	ID              *int       `json:"id,omitempty"`
	GameID          *int       `json:"gameId,omitempty"`
	Name            string     `json:"name"`
	BackgroundImage string     `json:"background_image"`
	Genres          []GenreDTO `json:"genres"`
	Metacritic      *int       `json:"metacritic"`
	Favorite        bool       `json:"favorite"`
	Installed       bool       `json:"installed"`
	LastPlayed      *time.Time `json:"lastPlayed"`
}

// GenreDTO is a denormalized genre reference
type GenreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// AddRequest is the POST /user/library body. New entries always start
// with default flags.
type AddRequest struct {
	GameID          int        `json:"gameId"`
	Name            string     `json:"name"`
	BackgroundImage string     `json:"background_image"`
	Genres          []GenreDTO `json:"genres"`
	Metacritic      *int       `json:"metacritic"`
	Favorite        bool       `json:"favorite"`
	Installed       bool       `json:"installed"`
	LastPlayed      *time.Time `json:"lastPlayed"`
}

// PatchRequest is a partial PATCH /user/library/{id} body
type PatchRequest struct {
	Favorite   *bool      `json:"favorite,omitempty"`
	Installed  *bool      `json:"installed,omitempty"`
	LastPlayed *time.Time `json:"lastPlayed,omitempty"`
}
