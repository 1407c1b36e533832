// Package domain holds the types shared by the relational store, the search
// index and the transport layer: the product record, the per-request filter
// spec and the pagination envelope.
package domain

import "time"

// Product is the authoritative product record. The search index stores the
// same shape, keyed by the stringified id; the JSON field names below are
// both the API contract and the index document layout.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Image         string    `json:"image"`
	Stock         int32     `json:"stock"`
	Rating        float64   `json:"rating"`
	TotalReviews  int32     `json:"totalReviews"`
	IsActive      bool      `json:"isActive"`
	IsOnPromotion bool      `json:"isOnPromotion"`
	Views         int64     `json:"views"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
