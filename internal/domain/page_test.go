package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewPage(t *testing.T) {
	testCases := []struct {
		name     string
		total    int64
		page     int
		limit    int
		expected Page
	}{
		{
			name:  "empty result keeps one page",
			total: 0, page: 1, limit: 10,
			expected: Page{Total: 0, CurrentPage: 1, TotalPages: 1, HasMore: false},
		},
		{
			name:  "exact multiple of limit",
			total: 20, page: 1, limit: 10,
			expected: Page{Total: 20, CurrentPage: 1, TotalPages: 2, HasMore: true},
		},
		{
			name:  "last page of exact multiple",
			total: 20, page: 2, limit: 10,
			expected: Page{Total: 20, CurrentPage: 2, TotalPages: 2, HasMore: false},
		},
		{
			name:  "16 products, limit 12, page 2",
			total: 16, page: 2, limit: 12,
			expected: Page{Total: 16, CurrentPage: 2, TotalPages: 2, HasMore: false},
		},
		{
			name:  "16 products, limit 12, page 1",
			total: 16, page: 1, limit: 12,
			expected: Page{Total: 16, CurrentPage: 1, TotalPages: 2, HasMore: true},
		},
		{
			name:  "page beyond range still reports real totals",
			total: 5, page: 3, limit: 10,
			expected: Page{Total: 5, CurrentPage: 3, TotalPages: 1, HasMore: false},
		},
		{
			name:  "single record",
			total: 1, page: 1, limit: 10,
			expected: Page{Total: 1, CurrentPage: 1, TotalPages: 1, HasMore: false},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NewPage(tc.total, tc.page, tc.limit))
		})
	}
}

func Test_Filter_Advanced(t *testing.T) {
	price := 10.0
	promo := true
	views := int64(100)

	testCases := []struct {
		name     string
		filter   Filter
		expected bool
	}{
		{"empty filter", Filter{}, false},
		{"category only", Filter{Category: "Laptops"}, false},
		{"sort and paging only", Filter{SortBy: "price", SortOrder: "asc", Page: 2, Limit: 10}, false},
		{"free text", Filter{Query: "mouse"}, true},
		{"min price", Filter{MinPrice: &price}, true},
		{"max price", Filter{MaxPrice: &price}, true},
		{"promotion flag", Filter{Promotion: &promo}, true},
		{"views bound", Filter{MinViews: &views}, true},
		{"rating bound", Filter{MinRating: &price}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filter.Advanced())
		})
	}
}

func Test_Filter_Offset(t *testing.T) {
	assert.Equal(t, 0, Filter{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 12, Filter{Page: 2, Limit: 12}.Offset())
	assert.Equal(t, 40, Filter{Page: 5, Limit: 10}.Offset())
}
