// Package web contains HTTP helpers shared by all transport handlers:
// the response envelope, middleware and query parameter parsing.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes carried in the EC field of every response envelope.
// Zero means success, positive codes are expected domain failures
// (validation, not-found), -1 is an unexpected server failure.
const (
	CodeOK     = 0
	CodeDomain = 1
	CodeServer = -1
)

// Envelope is the canonical response shape returned by every endpoint,
// regardless of which backend served the request.
type Envelope struct {
	EC         int    `json:"EC"`
	EM         string `json:"EM,omitempty"`
	Data       any    `json:"data,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
}

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondError writes an error envelope with the given EC code and message.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, code int, message string) {
	RespondJSON(w, logger, status, Envelope{EC: code, EM: message})
}
