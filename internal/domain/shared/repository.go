package shared

// Filter holds the paging, ordering and free-text search common to list queries.
// A zero PageSize means the query is not limited.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// Paged reports whether the query should be limited to one page
func (f Filter) Paged() bool {
	return f.PageSize > 0
}

// Offset returns the row offset for the filter's page
func (f Filter) Offset() int {
	if f.Page <= 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// WithPageDefaults fills in a missing page number and page size
func (f Filter) WithPageDefaults(pageSize int) Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = pageSize
	}
	return f
}
