package shared

// Filter carries common list filtering options
type Filter struct {
	Limit   int
	Offset  int
	OrderBy string
}

// DefaultFilter returns a filter with sane pagination defaults. An empty
// OrderBy leaves the sort to each repository's own default.
func DefaultFilter() Filter {
	return Filter{
		Limit:  50,
		Offset: 0,
	}
}

// Paginated wraps a page of results with the total count
type Paginated[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
