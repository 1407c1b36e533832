// Package search provides the denormalized product search index: a typed
// document mirror of the product table supporting full-text, filtered,
// sorted and paginated queries. The index is optional and derived; the
// relational store stays authoritative.
package search

import (
	"context"

	"github.com/tvmanh/goshop/internal/domain"
)

// Result is one page of matching documents plus the total hit count.
type Result struct {
	Products []domain.Product
	Total    int64
}

// BulkReport summarizes a bulk indexing run. FailedIDs lists the documents
// the index rejected; they are reported, never silently dropped.
type BulkReport struct {
	Indexed   int
	FailedIDs []int64
}

// Searcher defines the interface for indexing and searching products.
// Implementations may use Elasticsearch or an in-memory fake in tests.
type Searcher interface {
	// EnsureIndex creates the index with its field mapping if it does not exist.
	EnsureIndex(ctx context.Context) error

	// IndexProduct adds or overwrites the document for one product.
	// Indexing the same product twice is a no-op for readers.
	IndexProduct(ctx context.Context, p domain.Product) error

	// DeleteProduct removes the document for a product id. Deleting a
	// document that is not indexed is not an error.
	DeleteProduct(ctx context.Context, id int64) error

	// BulkIndex writes all given products in a single bulk operation.
	BulkIndex(ctx context.Context, products []domain.Product) (*BulkReport, error)

	// Search executes a filter spec against the index.
	Search(ctx context.Context, f domain.Filter) (*Result, error)
}
