package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/tvmanh/goshop/internal/domain"
)

const indexName = "products"

// indexMapping declares the document layout: analyzed text for full-text
// fields (name with a keyword sub-field for sorting), keyword for
// exact-match fields, typed numerics and booleans for range/term filters.
const indexMapping = `{
	"mappings": {
		"properties": {
			"id":            {"type": "long"},
			"name":          {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"description":   {"type": "text"},
			"price":         {"type": "double"},
			"category":      {"type": "keyword"},
			"image":         {"type": "keyword"},
			"stock":         {"type": "integer"},
			"rating":        {"type": "double"},
			"totalReviews":  {"type": "integer"},
			"isActive":      {"type": "boolean"},
			"isOnPromotion": {"type": "boolean"},
			"views":         {"type": "long"},
			"createdAt":     {"type": "date"},
			"updatedAt":     {"type": "date"}
		}
	}
}`

// ES implements Searcher on an Elasticsearch cluster.
type ES struct {
	client *elasticsearch.Client
	logger *slog.Logger
}

// NewES creates a Searcher backed by the given Elasticsearch client.
func NewES(client *elasticsearch.Client, logger *slog.Logger) *ES {
	return &ES{
		client: client,
		logger: logger.With("component", "search"),
	}
}

// EnsureIndex creates the products index with its mapping if it is missing.
func (e *ES) EnsureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists([]string{indexName},
		e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer closeBody(res)
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("unexpected response checking index: %s", res.Status())
	}

	createRes, err := e.client.Indices.Create(indexName,
		e.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		e.client.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer closeBody(createRes)
	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.Status())
	}
	return nil
}

// IndexProduct inserts or replaces the document for one product. The
// document id is the product id, so repeating the same write is idempotent.
func (e *ES) IndexProduct(ctx context.Context, p domain.Product) error {
	if err := e.EnsureIndex(ctx); err != nil {
		return err
	}

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode product document: %w", err)
	}

	res, err := e.client.Index(indexName, bytes.NewReader(doc),
		e.client.Index.WithDocumentID(strconv.FormatInt(p.ID, 10)),
		e.client.Index.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to index product %d: %w", p.ID, err)
	}
	defer closeBody(res)
	if res.IsError() {
		return fmt.Errorf("failed to index product %d: %s", p.ID, res.Status())
	}
	return nil
}

// DeleteProduct removes the document for a product id. A document that was
// never indexed is not an error.
func (e *ES) DeleteProduct(ctx context.Context, id int64) error {
	res, err := e.client.Delete(indexName, strconv.FormatInt(id, 10),
		e.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete product %d from index: %w", id, err)
	}
	defer closeBody(res)
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("failed to delete product %d from index: %s", id, res.Status())
	}
	return nil
}

// BulkIndex writes all given products in one bulk request and reports the
// ids of any documents the index rejected.
func (e *ES) BulkIndex(ctx context.Context, products []domain.Product) (*BulkReport, error) {
	if err := e.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return &BulkReport{}, nil
	}

	var buf bytes.Buffer
	for _, p := range products {
		action := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, indexName, strconv.FormatInt(p.ID, 10))
		buf.WriteString(action)
		buf.WriteByte('\n')
		doc, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to encode product document %d: %w", p.ID, err)
		}
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	res, err := e.client.Bulk(bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithRefresh("true"),
		e.client.Bulk.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("bulk indexing failed: %w", err)
	}
	defer closeBody(res)
	if res.IsError() {
		return nil, fmt.Errorf("bulk indexing failed: %s", res.Status())
	}

	var bulk bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return nil, fmt.Errorf("failed to decode bulk response: %w", err)
	}

	report := &BulkReport{}
	for _, item := range bulk.Items {
		if item.Index.Error != nil {
			id, _ := strconv.ParseInt(item.Index.ID, 10, 64)
			report.FailedIDs = append(report.FailedIDs, id)
			continue
		}
		report.Indexed++
	}
	return report, nil
}

// Search executes a filter spec against the index and returns one page of
// documents with the total hit count.
func (e *ES) Search(ctx context.Context, f domain.Filter) (*Result, error) {
	body, err := json.Marshal(BuildSearchBody(f))
	if err != nil {
		return nil, fmt.Errorf("failed to encode search body: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(indexName),
		e.client.Search.WithBody(bytes.NewReader(body)),
		e.client.Search.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer closeBody(res)
	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.Status())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	result := &Result{
		Products: make([]domain.Product, 0, len(sr.Hits.Hits)),
		Total:    sr.Hits.Total.Value,
	}
	for _, hit := range sr.Hits.Hits {
		result.Products = append(result.Products, hit.Source)
	}
	return result, nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string         `json:"_id"`
			Source domain.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID    string          `json:"_id"`
			Error json.RawMessage `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// closeBody drains and closes an esapi response body so the underlying
// connection can be reused.
func closeBody(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}
}
