package libraryapi

import "github.com/mmcdole/arcade/internal/domain"

// MapEntries converts remote entries, dropping any without an identity
func MapEntries(dtos []EntryDTO) []domain.LibraryEntry {
	entries := make([]domain.LibraryEntry, 0, len(dtos))
	for _, d := range dtos {
		if e, ok := MapEntry(d); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// MapEntry converts a remote entry. Entries are keyed by game, so gameId
// wins over a row id. ok is false when neither is set.
func MapEntry(d EntryDTO) (domain.LibraryEntry, bool) {
	var id int
	switch {
	case d.GameID != nil:
		id = *d.GameID
	case d.ID != nil:
		id = *d.ID
	default:
		return domain.LibraryEntry{}, false
	}

	e := domain.LibraryEntry{
		ID:              id,
		Name:            d.Name,
		BackgroundImage: d.BackgroundImage,
		Favorite:        d.Favorite,
		Installed:       d.Installed,
		LastPlayed:      d.LastPlayed,
	}
	if d.Metacritic != nil {
		e.Metacritic = *d.Metacritic
	}
	for _, g := range d.Genres {
		e.Genres = append(e.Genres, domain.Ref{ID: g.ID, Name: g.Name, Slug: g.Slug})
	}
	return e, true
}

// NewAddRequest builds the POST body for an entry with default flags
func NewAddRequest(e domain.LibraryEntry) AddRequest {
	req := AddRequest{
		GameID:          e.ID,
		Name:            e.Name,
		BackgroundImage: e.BackgroundImage,
		Genres:          make([]GenreDTO, 0, len(e.Genres)),
	}
	if e.Metacritic > 0 {
		m := e.Metacritic
		req.Metacritic = &m
	}
	for _, g := range e.Genres {
		req.Genres = append(req.Genres, GenreDTO{ID: g.ID, Name: g.Name, Slug: g.Slug})
	}
	return req
}

// NewPatchRequest converts a domain patch
func NewPatchRequest(p domain.LibraryPatch) PatchRequest {
	return PatchRequest{Favorite: p.Favorite, Installed: p.Installed, LastPlayed: p.LastPlayed}
}
