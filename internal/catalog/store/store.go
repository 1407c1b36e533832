// Package store provides relational persistence for products.
package store

import (
	"context"

	"github.com/tvmanh/goshop/internal/domain"
)

// ListQuery is the subset of a filter spec the relational store supports:
// category equality, case-insensitive substring search over name and
// description, whitelisted sorting and offset pagination. Advanced filters
// (price/views/rating bounds, promotion flag) are search-index territory and
// are dropped before a query reaches this layer.
type ListQuery struct {
	Category  string
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// CreateParams carries the caller-supplied fields of a new product.
// Everything else takes its column default.
type CreateParams struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Image       string
	Stock       int32
}

// UpdateParams is a partial update; nil fields are left untouched.
type UpdateParams struct {
	Name          *string
	Description   *string
	Price         *float64
	Category      *string
	Image         *string
	Stock         *int32
	Rating        *float64
	TotalReviews  *int32
	IsActive      *bool
	IsOnPromotion *bool
	Views         *int64
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations.
type ProductStore interface {
	// FindByID retrieves a single active product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID or
	// it has been soft-deleted.
	FindByID(ctx context.Context, id int64) (*domain.Product, error)

	// List returns one page of active products matching the query, plus the
	// total number of matches.
	List(ctx context.Context, q ListQuery) ([]domain.Product, int64, error)

	// Categories returns the distinct categories of active products.
	Categories(ctx context.Context) ([]string, error)

	// Create adds a new product to the system.
	Create(ctx context.Context, p CreateParams) (*domain.Product, error)

	// Update applies a partial update and returns the updated row.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, p UpdateParams) (*domain.Product, error)

	// SoftDelete marks a product inactive. Returns ErrProductNotFound if the
	// product does not exist or is already inactive.
	SoftDelete(ctx context.Context, id int64) error

	// FindAllForIndex returns every product row, active or not, for bulk
	// reindexing of the search index.
	FindAllForIndex(ctx context.Context) ([]domain.Product, error)
}
