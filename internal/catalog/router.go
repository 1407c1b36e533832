package catalog

import "github.com/tvmanh/goshop/internal/domain"

// Backend identifies which store serves a list/search request.
type Backend int

const (
	// BackendRecordStore serves the request from the relational database.
	BackendRecordStore Backend = iota
	// BackendSearchIndex serves the request from the search index.
	BackendSearchIndex
)

// Endpoint identifies which read endpoint a request arrived on.
type Endpoint int

const (
	// EndpointList is the plain product listing endpoint.
	EndpointList Endpoint = iota
	// EndpointSearch is the dedicated search endpoint.
	EndpointSearch
)

// DecideBackend is the pure routing decision for a single read request.
//
// The search endpoint always prefers the index. The listing endpoint only
// moves to the index when the filter carries parameters the record store
// cannot serve. With the index disabled everything stays on the record
// store; advanced filters are then dropped to the supported subset.
//
// A search-index failure at query time is handled by the caller with the
// same record-store fallback, so the routing policy is uniform.
func DecideBackend(f domain.Filter, endpoint Endpoint, searchEnabled bool) Backend {
	if !searchEnabled {
		return BackendRecordStore
	}
	if endpoint == EndpointSearch {
		return BackendSearchIndex
	}
	if f.Advanced() {
		return BackendSearchIndex
	}
	return BackendRecordStore
}
