// Package query translates filter and search state into catalog API queries.
package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mmcdole/arcade/internal/domain"
)

// Query is a translated catalog request. Params are sent to the remote;
// Price is a bucket the remote cannot evaluate and is applied to the
// returned page with FilterByPrice.
type Query struct {
	Params url.Values
	Price  string
}

// Encode renders the query as sorted key=value lines
func (q Query) Encode() string {
	keys := make([]string, 0, len(q.Params))
	for k := range q.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range q.Params[k] {
			fmt.Fprintf(&b, "%s=%s\n", k, v)
		}
	}
	if q.Price != "" {
		fmt.Fprintf(&b, "#price=%s\n", q.Price)
	}
	return b.String()
}

// Translate builds the list query for a filter and page request
func Translate(filter domain.FilterState, page, pageSize int) (Query, error) {
	if err := ValidateFilter(filter); err != nil {
		return Query{}, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))

	if len(filter.Categories) > 0 {
		params.Set("genres", joinInts(filter.Categories))
	}
	if len(filter.Tags) > 0 {
		params.Set("tags", joinInts(filter.Tags))
	}
	if dates := DateRange(filter.Year); dates != "" {
		params.Set("dates", dates)
	}
	// 0 means unconstrained; sending "0,100" would drop unscored titles
	if filter.MinRating > 0 {
		params.Set("metacritic", fmt.Sprintf("%d,100", filter.MinRating))
	}

	return Query{Params: params}, nil
}

// TranslateSearch builds the search query. The price bucket is carried
// through for client-side filtering.
func TranslateSearch(p domain.SearchParams) (Query, error) {
	if err := ValidateSearch(p); err != nil {
		return Query{}, err
	}

	params := url.Values{}
	params.Set("search", strings.TrimSpace(p.Query))
	params.Set("ordering", Ordering(p.Sort))

	if p.Genre != "" {
		params.Set("genres", p.Genre)
	}
	if ids := PlatformIDs(p.Platform); ids != "" {
		params.Set("platforms", ids)
	}

	return Query{Params: params, Price: p.Price}, nil
}

// The catalog has no price field, so price sorts use "added" as a proxy.
var orderings = map[string]string{
	domain.SortRelevance:   "-relevance",
	domain.SortPriceAsc:    "-added",
	domain.SortPriceDesc:   "added",
	domain.SortRating:      "-rating",
	domain.SortReleaseDate: "-released",
}

// Ordering maps a sort key to the remote ordering token.
// Unknown keys fall back to relevance.
func Ordering(sortKey string) string {
	if o, ok := orderings[sortKey]; ok {
		return o
	}
	return orderings[domain.SortRelevance]
}

var platformFamilies = map[string][]int{
	"pc":          {4},
	"playstation": {187, 18, 16, 15, 27},
	"xbox":        {186, 1, 14, 80},
	"nintendo":    {7, 8, 9, 13, 83},
	"mobile":      {21, 3},
}

// PlatformIDs expands a platform family into comma-joined remote platform
// ids. It returns "" for an unknown family.
func PlatformIDs(family string) string {
	ids, ok := platformFamilies[strings.ToLower(family)]
	if !ok {
		return ""
	}
	return joinInts(ids)
}

// PlatformFamilies returns the known family names in sorted order
func PlatformFamilies() []string {
	names := make([]string, 0, len(platformFamilies))
	for name := range platformFamilies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	singleYear = regexp.MustCompile(`^\d{4}$`)
	yearRange  = regexp.MustCompile(`^(\d{4})-(\d{4})$`)
)

// DateRange expands a year spec into a closed date interval.
// "2020" becomes "2020-01-01,2020-12-31" and "2015-2019" becomes
// "2015-01-01,2019-12-31". Anything else yields "".
func DateRange(year string) string {
	year = strings.TrimSpace(year)
	if singleYear.MatchString(year) {
		return year + "-01-01," + year + "-12-31"
	}
	if m := yearRange.FindStringSubmatch(year); m != nil {
		return m[1] + "-01-01," + m[2] + "-12-31"
	}
	return ""
}

var priceLimits = map[string]float64{
	domain.PriceUnder10: 10,
	domain.PriceUnder20: 20,
	domain.PriceUnder30: 30,
	domain.PriceUnder60: 60,
}

// FilterByPrice keeps the games matching a price bucket. It only sees the
// page it is given, so filtering is never global. Games without a price
// never match a bucket. An empty or unknown bucket returns games unchanged.
func FilterByPrice(games []domain.Game, bucket string) []domain.Game {
	var keep func(float64) bool
	switch bucket {
	case domain.PriceFree:
		keep = func(p float64) bool { return p == 0 }
	default:
		limit, ok := priceLimits[bucket]
		if !ok {
			return games
		}
		keep = func(p float64) bool { return p < limit }
	}

	out := make([]domain.Game, 0, len(games))
	for _, g := range games {
		if g.Price != nil && keep(*g.Price) {
			out = append(out, g)
		}
	}
	return out
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
