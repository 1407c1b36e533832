package domain

// Filter is the normalized set of query parameters describing a single
// list/search request. Pointer fields distinguish "not supplied" from a
// zero value. A Filter is request-local and never shared between requests.
type Filter struct {
	Query    string
	Category string

	MinPrice  *float64
	MaxPrice  *float64
	Promotion *bool
	MinViews  *int64
	MaxViews  *int64
	MinRating *float64

	SortBy    string
	SortOrder string

	Page  int
	Limit int
}

// Advanced reports whether the filter carries parameters only the search
// index can serve. A plain listing request with just category/sort/paging
// stays on the record store.
func (f Filter) Advanced() bool {
	return f.Query != "" ||
		f.MinPrice != nil ||
		f.MaxPrice != nil ||
		f.Promotion != nil ||
		f.MinViews != nil ||
		f.MaxViews != nil ||
		f.MinRating != nil
}

// Offset returns the record offset for the requested page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}
