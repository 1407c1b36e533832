// Package catalog implements product business logic: CRUD against the
// record store, dual-backend list/search serving, best-effort index
// mirroring and bulk reindexing.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tvmanh/goshop/internal/catalog/search"
	"github.com/tvmanh/goshop/internal/catalog/store"
	"github.com/tvmanh/goshop/internal/domain"
	gserrors "github.com/tvmanh/goshop/internal/errors"
)

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name        string  `json:"name"        validate:"required,max=200"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Category    string  `json:"category"    validate:"required,max=100"`
	Image       string  `json:"image"`
	Stock       int32   `json:"stock"       validate:"gte=0"`
}

// ProductUpdateDto is a partial update; absent fields keep their value.
type ProductUpdateDto struct {
	Name          *string  `json:"name"          validate:"omitempty,max=200"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"         validate:"omitempty,gte=0"`
	Category      *string  `json:"category"      validate:"omitempty,max=100"`
	Image         *string  `json:"image"`
	Stock         *int32   `json:"stock"         validate:"omitempty,gte=0"`
	Rating        *float64 `json:"rating"        validate:"omitempty,gte=0,lte=5"`
	TotalReviews  *int32   `json:"totalReviews"  validate:"omitempty,gte=0"`
	IsActive      *bool    `json:"isActive"`
	IsOnPromotion *bool    `json:"isOnPromotion"`
	Views         *int64   `json:"views"         validate:"omitempty,gte=0"`
}

// ListResult is one page of products plus the canonical pagination
// metadata, identical no matter which backend produced it.
type ListResult struct {
	Products []domain.Product
	Page     domain.Page
}

// ProductService defines the methods for managing and querying products.
type ProductService interface {
	// List serves the plain listing endpoint. Advanced filters route to the
	// search index when available; otherwise they are dropped and the
	// record store serves the supported subset.
	List(ctx context.Context, f domain.Filter) (*ListResult, error)

	// Search serves the dedicated search endpoint. Prefers the search
	// index, falling back to the record store when it is disabled or fails.
	Search(ctx context.Context, f domain.Filter) (*ListResult, error)

	// FindByID retrieves a single active product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*domain.Product, error)

	// Categories returns the distinct categories of active products.
	Categories(ctx context.Context) ([]string, error)

	// Create adds a new product and mirrors it into the search index.
	Create(ctx context.Context, dto ProductCreateDto) (*domain.Product, error)

	// Update applies a partial update and mirrors the result.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, dto ProductUpdateDto) (*domain.Product, error)

	// Delete soft-deletes a product and removes it from the search index.
	// Returns ErrProductNotFound if the product does not exist or is
	// already inactive.
	Delete(ctx context.Context, id int64) error

	// Reindex rebuilds the search index from the full record store.
	// Returns ErrSearchDisabled when no search index is configured.
	Reindex(ctx context.Context) (*search.BulkReport, error)
}

// Service implements ProductService.
type Service struct {
	repository store.ProductStore
	searcher   search.Searcher
	mirror     *Mirror
	logger     *slog.Logger
}

// NewService creates the product service. searcher may be nil when the
// search index is disabled; every read is then served by the record store
// and mirroring is a no-op.
func NewService(repo store.ProductStore, searcher search.Searcher, logger *slog.Logger) *Service {
	return &Service{
		repository: repo,
		searcher:   searcher,
		mirror:     NewMirror(searcher, logger),
		logger:     logger.With("component", "catalog"),
	}
}

// List serves the plain listing endpoint.
func (s *Service) List(ctx context.Context, f domain.Filter) (*ListResult, error) {
	return s.serve(ctx, f, EndpointList)
}

// Search serves the dedicated search endpoint.
func (s *Service) Search(ctx context.Context, f domain.Filter) (*ListResult, error) {
	return s.serve(ctx, f, EndpointSearch)
}

// serve routes one read request to a backend and normalizes the result.
// Search-index errors are recovered locally by falling back to the record
// store; the record store is the last resort and its errors do surface.
func (s *Service) serve(ctx context.Context, f domain.Filter, endpoint Endpoint) (*ListResult, error) {
	if DecideBackend(f, endpoint, s.searcher != nil) == BackendSearchIndex {
		result, err := s.searcher.Search(ctx, f)
		if err == nil {
			return &ListResult{
				Products: result.Products,
				Page:     domain.NewPage(result.Total, f.Page, f.Limit),
			}, nil
		}
		s.logger.WarnContext(ctx, "search index query failed, falling back to record store", "error", err)
	}

	products, total, err := s.repository.List(ctx, store.ListQuery{
		Category:  f.Category,
		Search:    f.Query,
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
		Limit:     f.Limit,
		Offset:    f.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return &ListResult{
		Products: products,
		Page:     domain.NewPage(total, f.Page, f.Limit),
	}, nil
}

// FindByID retrieves a product by its ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return product, nil
}

// Categories returns the distinct categories of active products.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repository.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// Create adds a new product. The record store write is primary; the index
// mirror write happens after it commits and cannot fail the operation.
func (s *Service) Create(ctx context.Context, dto ProductCreateDto) (*domain.Product, error) {
	product, err := s.repository.Create(ctx, store.CreateParams{
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Category:    dto.Category,
		Image:       dto.Image,
		Stock:       dto.Stock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.mirror.ProductChanged(ctx, *product, ChangeCreated)
	return product, nil
}

// Update applies a partial update and mirrors the updated row.
func (s *Service) Update(ctx context.Context, id int64, dto ProductUpdateDto) (*domain.Product, error) {
	product, err := s.repository.Update(ctx, id, store.UpdateParams{
		Name:          dto.Name,
		Description:   dto.Description,
		Price:         dto.Price,
		Category:      dto.Category,
		Image:         dto.Image,
		Stock:         dto.Stock,
		Rating:        dto.Rating,
		TotalReviews:  dto.TotalReviews,
		IsActive:      dto.IsActive,
		IsOnPromotion: dto.IsOnPromotion,
		Views:         dto.Views,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}

	s.mirror.ProductChanged(ctx, *product, ChangeUpdated)
	return product, nil
}

// Delete soft-deletes a product and removes its search document.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repository.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.mirror.ProductChanged(ctx, domain.Product{ID: id}, ChangeDeleted)
	return nil
}

// Reindex reads every product row and bulk-writes the documents into the
// search index. Safe to run repeatedly; this is the recovery mechanism for
// drift introduced by best-effort mirroring.
func (s *Service) Reindex(ctx context.Context) (*search.BulkReport, error) {
	if s.searcher == nil {
		return nil, gserrors.ErrSearchDisabled
	}

	products, err := s.repository.FindAllForIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read products for reindexing: %w", err)
	}

	report, err := s.searcher.BulkIndex(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk index products: %w", err)
	}

	s.logger.InfoContext(ctx, "reindex complete",
		"indexed", report.Indexed,
		"failed", len(report.FailedIDs),
	)
	return report, nil
}
