package rawg

// GameList is the paginated /games response
type GameList struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []GameDTO `json:"results"`
}

// GameDTO is a game as returned by both /games and /games/{id}.
// Detail-only fields are empty in list results.
type GameDTO struct {
	ID              int           `json:"id"`
	Slug            string        `json:"slug"`
	Name            string        `json:"name"`
	Released        string        `json:"released"`
	BackgroundImage string        `json:"background_image"`
	Rating          float64       `json:"rating"`
	Metacritic      *int          `json:"metacritic"`
	Genres          []RefDTO      `json:"genres"`
	Tags            []RefDTO      `json:"tags"`
	Platforms       []PlatformDTO `json:"platforms"`
	Developers      []RefDTO      `json:"developers,omitempty"`
	Publishers      []RefDTO      `json:"publishers,omitempty"`
	DescriptionRaw  string        `json:"description_raw,omitempty"`
	ShortScreens    []ImageDTO    `json:"short_screenshots,omitempty"`

	// Price is not part of the public API; mirrors may add it
	Price *float64 `json:"price,omitempty"`
}

// RefDTO is a named reference (genre, tag, developer, publisher)
type RefDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PlatformDTO wraps a platform reference
type PlatformDTO struct {
	Platform RefDTO `json:"platform"`
}

// ImageDTO is a screenshot
type ImageDTO struct {
	ID     int    `json:"id"`
	Image  string `json:"image"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ScreenshotList is the /games/{id}/screenshots response
type ScreenshotList struct {
	Count   int        `json:"count"`
	Results []ImageDTO `json:"results"`
}
