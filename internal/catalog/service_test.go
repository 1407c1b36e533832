package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvmanh/goshop/internal/catalog/search"
	"github.com/tvmanh/goshop/internal/catalog/store"
	"github.com/tvmanh/goshop/internal/domain"
	gserrors "github.com/tvmanh/goshop/internal/errors"
)

// mockProductStore is a mock implementation of the ProductStore interface.
type mockProductStore struct {
	product  *domain.Product
	products []domain.Product
	total    int64
	error    error

	lastListQuery *store.ListQuery
	softDeleted   []int64
}

func (m *mockProductStore) FindByID(_ context.Context, _ int64) (*domain.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductStore) List(_ context.Context, q store.ListQuery) ([]domain.Product, int64, error) {
	m.lastListQuery = &q
	if m.error != nil {
		return nil, 0, m.error
	}
	return m.products, m.total, nil
}

func (m *mockProductStore) Categories(_ context.Context) ([]string, error) {
	if m.error != nil {
		return nil, m.error
	}
	return []string{"Laptops", "Mice"}, nil
}

func (m *mockProductStore) Create(_ context.Context, _ store.CreateParams) (*domain.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductStore) Update(_ context.Context, _ int64, _ store.UpdateParams) (*domain.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductStore) SoftDelete(_ context.Context, id int64) error {
	if m.error != nil {
		return m.error
	}
	m.softDeleted = append(m.softDeleted, id)
	return nil
}

func (m *mockProductStore) FindAllForIndex(_ context.Context) ([]domain.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

// mockSearcher is a mock implementation of the Searcher interface.
type mockSearcher struct {
	result     *search.Result
	report     *search.BulkReport
	error      error
	indexed    []int64
	deleted    []int64
	bulkInput  []domain.Product
	searchHits int
}

func (m *mockSearcher) EnsureIndex(_ context.Context) error { return m.error }

func (m *mockSearcher) IndexProduct(_ context.Context, p domain.Product) error {
	if m.error != nil {
		return m.error
	}
	m.indexed = append(m.indexed, p.ID)
	return nil
}

func (m *mockSearcher) DeleteProduct(_ context.Context, id int64) error {
	if m.error != nil {
		return m.error
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSearcher) BulkIndex(_ context.Context, products []domain.Product) (*search.BulkReport, error) {
	if m.error != nil {
		return nil, m.error
	}
	m.bulkInput = products
	return m.report, nil
}

func (m *mockSearcher) Search(_ context.Context, _ domain.Filter) (*search.Result, error) {
	m.searchHits++
	if m.error != nil {
		return nil, m.error
	}
	return m.result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func Test_Service_List_RecordStoreByDefault(t *testing.T) {
	repo := &mockProductStore{
		products: []domain.Product{{ID: 1, Name: "Mouse"}},
		total:    1,
	}
	searcher := &mockSearcher{}
	svc := NewService(repo, searcher, testLogger())

	result, err := svc.List(context.Background(), domain.Filter{Category: "Mice", Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Zero(t, searcher.searchHits, "plain listing must not touch the search index")
	assert.Equal(t, int64(1), result.Page.Total)
	assert.Len(t, result.Products, 1)
}

func Test_Service_List_AdvancedFilterUsesSearchIndex(t *testing.T) {
	repo := &mockProductStore{}
	searcher := &mockSearcher{
		result: &search.Result{
			Products: []domain.Product{{ID: 2, Name: "Gaming Mouse"}},
			Total:    1,
		},
	}
	svc := NewService(repo, searcher, testLogger())

	result, err := svc.List(context.Background(), domain.Filter{Query: "mouse", Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 1, searcher.searchHits)
	assert.Nil(t, repo.lastListQuery, "record store must not be queried when the index answers")
	assert.Equal(t, int64(1), result.Page.Total)
}

func Test_Service_Search_FallsBackOnIndexError(t *testing.T) {
	repo := &mockProductStore{
		products: []domain.Product{{ID: 3, Name: "Keyboard"}},
		total:    1,
	}
	searcher := &mockSearcher{error: errors.New("index unreachable")}
	svc := NewService(repo, searcher, testLogger())

	minPrice := 50.0
	result, err := svc.Search(context.Background(), domain.Filter{
		Query:    "keyboard",
		Category: "Keyboards",
		MinPrice: &minPrice,
		Page:     1,
		Limit:    10,
	})

	require.NoError(t, err, "an index failure must not fail the request")
	require.NotNil(t, repo.lastListQuery)
	assert.Equal(t, "Keyboards", repo.lastListQuery.Category)
	assert.Equal(t, "keyboard", repo.lastListQuery.Search, "supported filters survive the fallback")
	assert.Equal(t, int64(1), result.Page.Total)
}

func Test_Service_Search_DisabledIndexUsesRecordStore(t *testing.T) {
	repo := &mockProductStore{
		products: []domain.Product{{ID: 4, Name: "Laptop"}},
		total:    1,
	}
	svc := NewService(repo, nil, testLogger())

	result, err := svc.Search(context.Background(), domain.Filter{Query: "laptop", Page: 1, Limit: 10})

	require.NoError(t, err)
	require.NotNil(t, repo.lastListQuery)
	assert.Equal(t, "laptop", repo.lastListQuery.Search)
	assert.Equal(t, int64(1), result.Page.Total)
}

func Test_Service_Create_MirrorsIntoIndex(t *testing.T) {
	repo := &mockProductStore{product: &domain.Product{ID: 10, Name: "Laptop"}}
	searcher := &mockSearcher{}
	svc := NewService(repo, searcher, testLogger())

	created, err := svc.Create(context.Background(), ProductCreateDto{
		Name: "Laptop", Price: 999.99, Category: "Laptops",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	assert.Equal(t, []int64{10}, searcher.indexed)
}

func Test_Service_Create_MirrorFailureDoesNotFailWrite(t *testing.T) {
	repo := &mockProductStore{product: &domain.Product{ID: 11, Name: "Laptop"}}
	searcher := &mockSearcher{error: errors.New("index unreachable")}
	svc := NewService(repo, searcher, testLogger())

	created, err := svc.Create(context.Background(), ProductCreateDto{
		Name: "Laptop", Price: 999.99, Category: "Laptops",
	})

	require.NoError(t, err, "mirror failures are best-effort and must be swallowed")
	assert.Equal(t, int64(11), created.ID)
}

func Test_Service_Delete_RemovesIndexDocument(t *testing.T) {
	repo := &mockProductStore{}
	searcher := &mockSearcher{}
	svc := NewService(repo, searcher, testLogger())

	err := svc.Delete(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, []int64{42}, repo.softDeleted)
	assert.Equal(t, []int64{42}, searcher.deleted)
}

func Test_Service_Delete_NotFound(t *testing.T) {
	repo := &mockProductStore{error: gserrors.ErrProductNotFound}
	searcher := &mockSearcher{}
	svc := NewService(repo, searcher, testLogger())

	err := svc.Delete(context.Background(), 42)

	assert.ErrorIs(t, err, gserrors.ErrProductNotFound)
	assert.Empty(t, searcher.deleted, "a failed delete must not touch the index")
}

func Test_Service_Reindex(t *testing.T) {
	products := []domain.Product{{ID: 1}, {ID: 2, IsActive: false}, {ID: 3}}
	repo := &mockProductStore{products: products}
	searcher := &mockSearcher{report: &search.BulkReport{Indexed: 3}}
	svc := NewService(repo, searcher, testLogger())

	report, err := svc.Reindex(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Indexed)
	assert.Equal(t, products, searcher.bulkInput, "reindex feeds every row, inactive included")
}

func Test_Service_Reindex_Disabled(t *testing.T) {
	repo := &mockProductStore{}
	svc := NewService(repo, nil, testLogger())

	_, err := svc.Reindex(context.Background())

	assert.ErrorIs(t, err, gserrors.ErrSearchDisabled)
}
