package domain

// PaginationParams carries page/limit values from the HTTP layer to the catalog.
// Page is 1-indexed. Limit is capped at 100 by NewPaginationParams.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil pointers fall back to page=1, limit=50; a directory page shows more
// cards than a typical admin table.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 50}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, 100)
	}
	return p
}

// Offset returns the zero-based index of the first item on the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Window clamps the page to a collection of total items and returns the
// half-open [start, end) slice bounds. Pages past the end yield start == end.
func (p PaginationParams) Window(total int) (start, end int) {
	start = min(max(p.Offset(), 0), total)
	end = min(start+max(p.Limit, 0), total)
	return start, end
}
