package search

import (
	"strings"

	"github.com/tvmanh/goshop/internal/domain"
)

// sortFields maps externally exposed sort keys to index fields. Text sorting
// needs the keyword sub-field; everything else sorts on the field itself.
var sortFields = map[string]string{
	"name":         "name.keyword",
	"price":        "price",
	"rating":       "rating",
	"createdAt":    "createdAt",
	"views":        "views",
	"totalReviews": "totalReviews",
}

// BuildSearchBody translates a filter spec into an Elasticsearch request
// body. The free-text term scores against name (boosted) and description
// with fuzzy matching under a conjunctive operator; everything else is a
// non-scoring filter. isActive = true is always applied, so soft-deleted
// products never come back from the index.
func BuildSearchBody(f domain.Filter) map[string]any {
	must := make([]any, 0, 1)
	filter := []any{
		term("isActive", true),
	}

	if f.Query != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":     f.Query,
				"fields":    []string{"name^3", "description"},
				"fuzziness": "AUTO",
				"operator":  "and",
			},
		})
	}

	if f.Category != "" {
		filter = append(filter, term("category", f.Category))
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		bounds := map[string]any{}
		if f.MinPrice != nil {
			bounds["gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			bounds["lte"] = *f.MaxPrice
		}
		filter = append(filter, rangeFilter("price", bounds))
	}
	if f.Promotion != nil {
		filter = append(filter, term("isOnPromotion", *f.Promotion))
	}
	if f.MinViews != nil || f.MaxViews != nil {
		bounds := map[string]any{}
		if f.MinViews != nil {
			bounds["gte"] = *f.MinViews
		}
		if f.MaxViews != nil {
			bounds["lte"] = *f.MaxViews
		}
		filter = append(filter, rangeFilter("views", bounds))
	}
	if f.MinRating != nil {
		filter = append(filter, rangeFilter("rating", map[string]any{"gte": *f.MinRating}))
	}

	return map[string]any{
		"from": f.Offset(),
		"size": f.Limit,
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": filter,
			},
		},
		"sort": []any{
			map[string]any{sortField(f.SortBy): map[string]any{"order": sortOrder(f.SortOrder)}},
		},
	}
}

// sortField resolves a sort key against the whitelist, falling back to
// creation time for anything unrecognized.
func sortField(sortBy string) string {
	if field, ok := sortFields[sortBy]; ok {
		return field
	}
	return "createdAt"
}

func sortOrder(order string) string {
	if strings.EqualFold(order, "asc") {
		return "asc"
	}
	return "desc"
}

func term(field string, value any) map[string]any {
	return map[string]any{"term": map[string]any{field: value}}
}

func rangeFilter(field string, bounds map[string]any) map[string]any {
	return map[string]any{"range": map[string]any{field: bounds}}
}
