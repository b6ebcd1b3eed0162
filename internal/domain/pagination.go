package domain

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Window clamps [Offset, Offset+PageSize) to n items. A zero PageSize means no limit.
func (p PaginationParams) Window(n int) (start, end int) {
	if p.PageSize <= 0 {
		return 0, n
	}
	start = p.Offset()
	if start > n {
		start = n
	}
	end = start + p.PageSize
	if end > n {
		end = n
	}
	return start, end
}
