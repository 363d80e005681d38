package domain

// PaginationParams carries page/limit values from a presentation layer to
// the trip listing. Page is 1-indexed. Limit is capped at 100.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil pointers fall back to page=1, limit=20.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	return p
}

// Offset returns the zero-based index of the first element on the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Window returns the half-open [lo, hi) bounds of the page within a
// sequence of length n. Pages past the end yield lo == hi == n.
// The offset is compared before it is multiplied, so very large pages
// cannot overflow into negative bounds.
func (p PaginationParams) Window(n int) (lo, hi int) {
	if p.Page < 1 || p.Limit < 1 || p.Page-1 > n/p.Limit {
		return n, n
	}
	lo = min(p.Offset(), n)
	hi = lo + min(p.Limit, n-lo)
	return lo, hi
}
