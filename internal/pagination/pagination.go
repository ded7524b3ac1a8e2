// Package pagination derives page counts and visible page windows.
package pagination

// DefaultWindowSize is the number of page buttons shown at once
const DefaultWindowSize = 5

// TotalPages returns ceil(count/pageSize), or 0 when there is nothing to page
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Window returns the page numbers to display around current. The window is
// clamped to [1, total] and shifts near either edge to stay full length.
// It returns nil when total <= 1.
func Window(current, total, size int) []int {
	if total <= 1 {
		return nil
	}
	if size <= 0 {
		size = DefaultWindowSize
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := max(1, current-size/2)
	end := start + size - 1
	if end > total {
		end = total
		start = max(1, end-size+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Controls is the derived state of a pager
type Controls struct {
	Current int
	Total   int
	Pages   []int

	// PrevEnabled covers first/prev, NextEnabled covers next/last
	PrevEnabled bool
	NextEnabled bool
}

// Visible reports whether the pager should render at all
func (c Controls) Visible() bool { return c.Total > 1 }

// NewControls computes the pager for the given page state
func NewControls(current, count, pageSize int) Controls {
	total := TotalPages(count, pageSize)
	return Controls{
		Current:     current,
		Total:       total,
		Pages:       Window(current, total, DefaultWindowSize),
		PrevEnabled: current > 1,
		NextEnabled: current < total,
	}
}
