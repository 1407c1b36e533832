package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tvmanh/goshop/internal/domain"
)

func Test_DecideBackend(t *testing.T) {
	price := 50.0
	promo := true

	testCases := []struct {
		name          string
		filter        domain.Filter
		endpoint      Endpoint
		searchEnabled bool
		expected      Backend
	}{
		{
			name:          "plain listing stays on record store",
			filter:        domain.Filter{Category: "Laptops", SortBy: "price"},
			endpoint:      EndpointList,
			searchEnabled: true,
			expected:      BackendRecordStore,
		},
		{
			name:          "listing with free text routes to search index",
			filter:        domain.Filter{Query: "mouse"},
			endpoint:      EndpointList,
			searchEnabled: true,
			expected:      BackendSearchIndex,
		},
		{
			name:          "listing with price bound routes to search index",
			filter:        domain.Filter{MinPrice: &price},
			endpoint:      EndpointList,
			searchEnabled: true,
			expected:      BackendSearchIndex,
		},
		{
			name:          "listing with promotion flag routes to search index",
			filter:        domain.Filter{Promotion: &promo},
			endpoint:      EndpointList,
			searchEnabled: true,
			expected:      BackendSearchIndex,
		},
		{
			name:          "search endpoint always prefers the index",
			filter:        domain.Filter{},
			endpoint:      EndpointSearch,
			searchEnabled: true,
			expected:      BackendSearchIndex,
		},
		{
			name:          "search endpoint with index disabled uses record store",
			filter:        domain.Filter{Query: "mouse"},
			endpoint:      EndpointSearch,
			searchEnabled: false,
			expected:      BackendRecordStore,
		},
		{
			name:          "listing with advanced filter and index disabled uses record store",
			filter:        domain.Filter{MinPrice: &price, Promotion: &promo},
			endpoint:      EndpointList,
			searchEnabled: false,
			expected:      BackendRecordStore,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DecideBackend(tc.filter, tc.endpoint, tc.searchEnabled))
		})
	}
}
