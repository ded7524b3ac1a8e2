package domain

// FilterState holds the active catalog query constraints.
// The zero value means "no constraints".
type FilterState struct {
	Categories  []int  `validate:"dive,gt=0"`          // Genre ids
	Tags        []int  `validate:"dive,gt=0"`          // Tag ids
	Year        string `validate:"omitempty,yearspec"` // "2020" or "2015-2019"
	MinRating   int    `validate:"min=0,max=100"`      // Metacritic floor, 0 = none
	SearchQuery string
}

// IsZero reports whether no constraint is set
func (f FilterState) IsZero() bool {
	return len(f.Categories) == 0 && len(f.Tags) == 0 &&
		f.Year == "" && f.MinRating == 0 && f.SearchQuery == ""
}

// Clone returns a copy that shares no slices with f
func (f FilterState) Clone() FilterState {
	out := f
	out.Categories = append([]int(nil), f.Categories...)
	out.Tags = append([]int(nil), f.Tags...)
	return out
}

// Sort keys accepted by search
const (
	SortRelevance   = "relevance"
	SortPriceAsc    = "price_asc"
	SortPriceDesc   = "price_desc"
	SortRating      = "rating"
	SortReleaseDate = "release_date"
)

// Price buckets applied client-side to search results
const (
	PriceFree    = "free"
	PriceUnder10 = "under10"
	PriceUnder20 = "under20"
	PriceUnder30 = "under30"
	PriceUnder60 = "under60"
)

// SearchParams is the input of a catalog search
type SearchParams struct {
	Query    string
	Genre    string `validate:"omitempty"`
	Platform string `validate:"omitempty,oneof=pc playstation xbox nintendo mobile"`
	Price    string `validate:"omitempty,oneof=free under10 under20 under30 under60"`
	Sort     string `validate:"omitempty,oneof=relevance price_asc price_desc rating release_date"`
}
