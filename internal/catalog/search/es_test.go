package search

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvmanh/goshop/internal/domain"
)

// fakeTransport answers every request from a routing function, recording
// the requests it saw.
type fakeTransport struct {
	respond  func(req *http.Request) (int, string)
	requests []*http.Request
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	status, body := f.respond(req)
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Elastic-Product", "Elasticsearch")
	rec.Header().Set("Content-Type", "application/json")
	rec.WriteHeader(status)
	_, _ = rec.WriteString(body)
	return rec.Result(), nil
}

func newTestES(t *testing.T, respond func(req *http.Request) (int, string)) (*ES, *fakeTransport) {
	t.Helper()
	transport := &fakeTransport{respond: respond}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://search.test:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewES(client, logger), transport
}

func Test_ES_Search(t *testing.T) {
	const response = `{
		"hits": {
			"total": {"value": 16},
			"hits": [
				{"_id": "1", "_source": {"id": 1, "name": "Gaming Mouse", "price": 49.99, "category": "Mice"}},
				{"_id": "2", "_source": {"id": 2, "name": "Office Mouse", "price": 19.99, "category": "Mice"}}
			]
		}
	}`
	es, transport := newTestES(t, func(_ *http.Request) (int, string) {
		return http.StatusOK, response
	})

	result, err := es.Search(context.Background(), domain.Filter{Query: "mouse", Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(16), result.Total)
	require.Len(t, result.Products, 2)
	assert.Equal(t, "Gaming Mouse", result.Products[0].Name)
	assert.Equal(t, int64(2), result.Products[1].ID)

	require.Len(t, transport.requests, 1)
	assert.Contains(t, transport.requests[0].URL.Path, "/products/_search")
}

func Test_ES_Search_ServerError(t *testing.T) {
	es, _ := newTestES(t, func(_ *http.Request) (int, string) {
		return http.StatusInternalServerError, `{"error": "boom"}`
	})

	_, err := es.Search(context.Background(), domain.Filter{Page: 1, Limit: 10})

	assert.Error(t, err)
}

func Test_ES_IndexProduct(t *testing.T) {
	es, transport := newTestES(t, func(req *http.Request) (int, string) {
		if req.Method == http.MethodHead {
			// index existence check
			return http.StatusOK, ""
		}
		return http.StatusCreated, `{"result": "created"}`
	})

	err := es.IndexProduct(context.Background(), domain.Product{ID: 7, Name: "Laptop"})

	require.NoError(t, err)
	last := transport.requests[len(transport.requests)-1]
	assert.Equal(t, "/products/_doc/7", last.URL.Path, "document id is the product id")
}

func Test_ES_IndexProduct_CreatesMissingIndex(t *testing.T) {
	var createdIndex bool
	es, _ := newTestES(t, func(req *http.Request) (int, string) {
		switch {
		case req.Method == http.MethodHead:
			return http.StatusNotFound, ""
		case req.Method == http.MethodPut && req.URL.Path == "/products":
			createdIndex = true
			return http.StatusOK, `{"acknowledged": true}`
		default:
			return http.StatusCreated, `{"result": "created"}`
		}
	})

	err := es.IndexProduct(context.Background(), domain.Product{ID: 1})

	require.NoError(t, err)
	assert.True(t, createdIndex, "a missing index is created with its mapping first")
}

func Test_ES_DeleteProduct_ToleratesMissingDocument(t *testing.T) {
	es, _ := newTestES(t, func(_ *http.Request) (int, string) {
		return http.StatusNotFound, `{"result": "not_found"}`
	})

	err := es.DeleteProduct(context.Background(), 42)

	assert.NoError(t, err, "deleting an unindexed document is not an error")
}

func Test_ES_BulkIndex(t *testing.T) {
	const response = `{
		"errors": true,
		"items": [
			{"index": {"_id": "1", "status": 201}},
			{"index": {"_id": "2", "status": 400, "error": {"type": "mapper_parsing_exception"}}},
			{"index": {"_id": "3", "status": 201}}
		]
	}`
	var bulkBody string
	es, _ := newTestES(t, func(req *http.Request) (int, string) {
		if req.Method == http.MethodHead {
			return http.StatusOK, ""
		}
		raw, _ := io.ReadAll(req.Body)
		bulkBody = string(raw)
		return http.StatusOK, response
	})

	report, err := es.BulkIndex(context.Background(), []domain.Product{{ID: 1}, {ID: 2}, {ID: 3}})

	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, []int64{2}, report.FailedIDs)
	assert.Equal(t, 6, strings.Count(bulkBody, "\n"), "one action and one document line per product")
}

func Test_ES_BulkIndex_Empty(t *testing.T) {
	es, transport := newTestES(t, func(req *http.Request) (int, string) {
		if req.Method == http.MethodHead {
			return http.StatusOK, ""
		}
		t.Fatal("no bulk request expected for an empty product set")
		return 0, ""
	})

	report, err := es.BulkIndex(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, report.Indexed)
	assert.Empty(t, report.FailedIDs)
	require.Len(t, transport.requests, 1, "only the index existence check goes out")
}
