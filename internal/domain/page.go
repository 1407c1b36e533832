package domain

// Page is the pagination metadata attached to every list/search response.
// Both backends produce it through NewPage so the envelope is identical
// no matter which store served the request.
type Page struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	HasMore     bool  `json:"hasMore"`
}

// NewPage computes the canonical pagination metadata. TotalPages has a
// floor of 1 so an empty result still reports one (empty) page.
func NewPage(total int64, page, limit int) Page {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return Page{
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasMore:     int64(page)*int64(limit) < total,
	}
}
