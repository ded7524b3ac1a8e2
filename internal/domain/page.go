package domain

// DefaultPageSize is the catalog page size used by the list view
const DefaultPageSize = 12

// PageState tracks pagination of the catalog list.
// CurrentPage is owned by the caller; a server-echoed page number is never trusted.
type PageState struct {
	CurrentPage int
	Count       int
	PageSize    int
	Next        string
	Previous    string
}

// NewPageState returns the first page with the given page size
func NewPageState(pageSize int) PageState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return PageState{CurrentPage: 1, PageSize: pageSize}
}
