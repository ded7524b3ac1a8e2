package filters

import "github.com/mmcdole/arcade/internal/domain"

// Option is a selectable filter value with its display label
type Option struct {
	Label string
	Value string
}

// Categories are the genre presets offered by the browser sidebar
var Categories = []domain.Ref{
	{ID: 4, Name: "Action"},
	{ID: 3, Name: "Adventure"},
	{ID: 5, Name: "RPG"},
	{ID: 10, Name: "Strategy"},
	{ID: 14, Name: "Simulation"},
	{ID: 15, Name: "Sports"},
	{ID: 1, Name: "Racing"},
	{ID: 7, Name: "Puzzle"},
	{ID: 19, Name: "Horror"},
	{ID: 59, Name: "MMORPG"},
}

// Tags are the tag presets offered by the browser sidebar
var Tags = []domain.Ref{
	{ID: 36, Name: "Open World"},
	{ID: 7, Name: "Multiplayer"},
	{ID: 31, Name: "Single Player"},
	{ID: 18, Name: "Co-op"},
	{ID: 8, Name: "First Person"},
	{ID: 5, Name: "Third Person"},
	{ID: 24, Name: "Fantasy"},
	{ID: 17, Name: "Sci-Fi"},
	{ID: 51, Name: "Indie"},
	{ID: 49, Name: "Retro"},
}

// YearPresets are the release year choices. Every Value is accepted by
// query.DateRange.
var YearPresets = []Option{
	{Label: "2025", Value: "2025"},
	{Label: "2024", Value: "2024"},
	{Label: "2023", Value: "2023"},
	{Label: "2022", Value: "2022"},
	{Label: "2021", Value: "2021"},
	{Label: "2020", Value: "2020"},
	{Label: "2015-2019", Value: "2015-2019"},
	{Label: "2010-2014", Value: "2010-2014"},
	{Label: "2000-2009", Value: "2000-2009"},
	{Label: "Before 2000", Value: "1950-1999"},
}

// DefaultMinRating is the rating slider position before the user touches it
const DefaultMinRating = 50

// Preset looks up an option by label or value
func Preset(s string) (Option, bool) {
	for _, o := range YearPresets {
		if o.Label == s || o.Value == s {
			return o, true
		}
	}
	return Option{}, false
}

// Names returns the names of refs matching ids, in preset order
func Names(presets []domain.Ref, ids []int) []string {
	var out []string
	for _, p := range presets {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p.Name)
				break
			}
		}
	}
	return out
}
