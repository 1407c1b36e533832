package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvmanh/goshop/internal/domain"
)

func Test_BuildSearchBody_FreeText(t *testing.T) {
	body := BuildSearchBody(domain.Filter{Query: "wireless mouse", Page: 1, Limit: 10})

	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	must := boolQuery["must"].([]any)
	require.Len(t, must, 1)

	multiMatch := must[0].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "wireless mouse", multiMatch["query"])
	assert.Equal(t, []string{"name^3", "description"}, multiMatch["fields"])
	assert.Equal(t, "AUTO", multiMatch["fuzziness"])
	assert.Equal(t, "and", multiMatch["operator"])
}

func Test_BuildSearchBody_AlwaysFiltersActive(t *testing.T) {
	body := BuildSearchBody(domain.Filter{Page: 1, Limit: 10})

	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	filter := boolQuery["filter"].([]any)
	require.NotEmpty(t, filter)
	assert.Equal(t, map[string]any{"term": map[string]any{"isActive": true}}, filter[0])
	assert.Empty(t, boolQuery["must"])
}

func Test_BuildSearchBody_FilterConjunction(t *testing.T) {
	minPrice := 50.0
	promo := true
	minViews := int64(100)
	maxViews := int64(5000)
	minRating := 4.0

	body := BuildSearchBody(domain.Filter{
		Category:  "Laptops",
		MinPrice:  &minPrice,
		Promotion: &promo,
		MinViews:  &minViews,
		MaxViews:  &maxViews,
		MinRating: &minRating,
		Page:      1,
		Limit:     10,
	})

	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	filter := boolQuery["filter"].([]any)
	// isActive + category + price + promotion + views + rating
	require.Len(t, filter, 6)
	assert.Contains(t, filter, map[string]any{"term": map[string]any{"category": "Laptops"}})
	assert.Contains(t, filter, map[string]any{"range": map[string]any{"price": map[string]any{"gte": minPrice}}})
	assert.Contains(t, filter, map[string]any{"term": map[string]any{"isOnPromotion": true}})
	assert.Contains(t, filter, map[string]any{"range": map[string]any{"views": map[string]any{"gte": minViews, "lte": maxViews}}})
	assert.Contains(t, filter, map[string]any{"range": map[string]any{"rating": map[string]any{"gte": minRating}}})
}

func Test_BuildSearchBody_Pagination(t *testing.T) {
	body := BuildSearchBody(domain.Filter{Page: 3, Limit: 12})

	assert.Equal(t, 24, body["from"])
	assert.Equal(t, 12, body["size"])
}

func Test_BuildSearchBody_Sort(t *testing.T) {
	testCases := []struct {
		name          string
		sortBy        string
		sortOrder     string
		expectedField string
		expectedOrder string
	}{
		{"text sort uses keyword sub-field", "name", "asc", "name.keyword", "asc"},
		{"numeric sort uses field directly", "price", "desc", "price", "desc"},
		{"unknown sort key falls back to creation time", "sneaky", "asc", "createdAt", "asc"},
		{"empty sort falls back to creation time descending", "", "", "createdAt", "desc"},
		{"order is case insensitive", "views", "ASC", "views", "asc"},
		{"unknown order defaults to descending", "rating", "sideways", "rating", "desc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := BuildSearchBody(domain.Filter{SortBy: tc.sortBy, SortOrder: tc.sortOrder, Page: 1, Limit: 10})
			sort := body["sort"].([]any)
			require.Len(t, sort, 1)
			expected := map[string]any{tc.expectedField: map[string]any{"order": tc.expectedOrder}}
			assert.Equal(t, expected, sort[0])
		})
	}
}
