package rawg

import "github.com/mmcdole/arcade/internal/domain"

// MapGamePage converts a /games response to a domain page
func MapGamePage(l GameList) domain.GamePage {
	page := domain.GamePage{
		Games: MapGames(l.Results),
		Count: l.Count,
	}
	if l.Next != nil {
		page.Next = *l.Next
	}
	if l.Previous != nil {
		page.Previous = *l.Previous
	}
	return page
}

// MapGames converts game DTOs to domain games
func MapGames(dtos []GameDTO) []domain.Game {
	games := make([]domain.Game, 0, len(dtos))
	for _, d := range dtos {
		games = append(games, MapGame(d))
	}
	return games
}

// MapGame converts a single game DTO. A null metacritic maps to 0 (unscored).
func MapGame(d GameDTO) domain.Game {
	g := domain.Game{
		ID:              d.ID,
		Slug:            d.Slug,
		Name:            d.Name,
		BackgroundImage: d.BackgroundImage,
		Rating:          d.Rating,
		Released:        d.Released,
		DescriptionRaw:  d.DescriptionRaw,
		Genres:          mapRefs(d.Genres),
		Tags:            mapRefs(d.Tags),
		Developers:      mapRefs(d.Developers),
		Publishers:      mapRefs(d.Publishers),
		Price:           d.Price,
	}
	if d.Metacritic != nil {
		g.Metacritic = *d.Metacritic
	}

	g.Platforms = make([]domain.Ref, 0, len(d.Platforms))
	for _, p := range d.Platforms {
		g.Platforms = append(g.Platforms, mapRef(p.Platform))
	}

	if len(d.ShortScreens) > 0 {
		g.Screenshots = MapScreenshots(d.ShortScreens)
	}
	return g
}

// MapScreenshots converts screenshot DTOs, preserving order
func MapScreenshots(dtos []ImageDTO) []domain.Screenshot {
	shots := make([]domain.Screenshot, 0, len(dtos))
	for _, d := range dtos {
		shots = append(shots, domain.Screenshot{ID: d.ID, Image: d.Image, Width: d.Width, Height: d.Height})
	}
	return shots
}

func mapRefs(dtos []RefDTO) []domain.Ref {
	if len(dtos) == 0 {
		return nil
	}
	refs := make([]domain.Ref, 0, len(dtos))
	for _, d := range dtos {
		refs = append(refs, mapRef(d))
	}
	return refs
}

func mapRef(d RefDTO) domain.Ref {
	return domain.Ref{ID: d.ID, Name: d.Name, Slug: d.Slug}
}
