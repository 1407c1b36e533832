// Package rest provides the HTTP handlers for the shop API.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/tvmanh/goshop/internal/catalog"
	"github.com/tvmanh/goshop/internal/domain"
	gserrors "github.com/tvmanh/goshop/internal/errors"
	"github.com/tvmanh/goshop/pkg/web"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ProductHandler serves the catalog endpoints.
type ProductHandler struct {
	service  catalog.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewProductHandler(service catalog.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes mounts the public catalog routes and the admin CRUD
// routes. The admin group runs behind the provided middleware chain.
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/v1/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/categories", h.Categories)
		r.Get("/{id}", h.FindByID)
	})
	r.Route("/v1/api/admin/products", func(r chi.Router) {
		r.Use(adminMiddleware...)
		r.Post("/", h.Create)
		r.Post("/reindex", h.Reindex)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

// List serves the plain catalog listing. Advanced filter parameters are
// accepted here too and route the request to the search index.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	f, err := parseFilter(r, "search")
	if err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, err.Error())
		return
	}
	result, err := h.service.List(r.Context(), f)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error listing products", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK,
		web.Envelope{EC: web.CodeOK, Data: result.Products, Pagination: result.Page})
}

// Search serves the full-text search endpoint.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	f, err := parseFilter(r, "q")
	if err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, err.Error())
		return
	}
	result, err := h.service.Search(r.Context(), f)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error searching products", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to search products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK,
		web.Envelope{EC: web.CodeOK, Data: result.Products, Pagination: result.Page})
}

// Categories returns the distinct category names of active products.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error listing categories", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to fetch categories")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{EC: web.CodeOK, Data: categories})
}

// FindByID returns a single active product. A non-numeric id is treated
// the same as an unknown one.
func (h *ProductHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		web.RespondError(w, mLogger, http.StatusNotFound, web.CodeDomain, "Product not found")
		return
	}
	product, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, gserrors.ErrProductNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, web.CodeDomain, "Product not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "id", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to fetch product")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{EC: web.CodeOK, Data: product})
}

// Create adds a new product to the catalog.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto catalog.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		mLogger.WarnContext(r.Context(), "Product validation failed", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain,
			"Name, price, and category are required")
		return
	}
	product, err := h.service.Create(r.Context(), dto)
	if err != nil {
		if errors.Is(err, gserrors.ErrMissingFields) {
			web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain,
				"Name, price, and category are required")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created", "id", product.ID)
	web.RespondJSON(w, mLogger, http.StatusCreated,
		web.Envelope{EC: web.CodeOK, EM: "Product created", Data: product})
}

// Update applies a partial update to a product.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		web.RespondError(w, mLogger, http.StatusNotFound, web.CodeDomain, "Product not found")
		return
	}
	var dto catalog.ProductUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		mLogger.WarnContext(r.Context(), "Product validation failed", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, web.CodeDomain, "Invalid product fields")
		return
	}
	product, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		if errors.Is(err, gserrors.ErrProductNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, web.CodeDomain, "Product not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "id", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to update product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated", "id", id)
	web.RespondJSON(w, mLogger, http.StatusOK,
		web.Envelope{EC: web.CodeOK, EM: "Product updated", Data: product})
}

// Delete soft-deletes a product so it disappears from listings while the
// row survives for history.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		web.RespondError(w, mLogger, http.StatusNotFound, web.CodeDomain, "Product not found")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, gserrors.ErrProductNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, web.CodeDomain, "Product not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "id", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to delete product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted", "id", id)
	web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{EC: web.CodeOK, EM: "Product deleted"})
}

// Reindex rebuilds the search index from the record store.
func (h *ProductHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	report, err := h.service.Reindex(r.Context())
	if err != nil {
		if errors.Is(err, gserrors.ErrSearchDisabled) {
			web.RespondError(w, mLogger, http.StatusServiceUnavailable, web.CodeDomain,
				"Search index is not configured")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error rebuilding search index", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, web.CodeServer, "Failed to rebuild search index")
		return
	}
	if len(report.FailedIDs) > 0 {
		web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{
			EC:   web.CodeServer,
			EM:   "Some products failed to index",
			Data: report,
		})
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, web.Envelope{EC: web.CodeOK, Data: report})
}

// parseFilter normalizes query parameters into a Filter. The free-text
// parameter name differs between the listing and search endpoints, so the
// caller passes it in.
func parseFilter(r *http.Request, queryParam string) (domain.Filter, error) {
	var f domain.Filter
	var err error

	f.Query = r.URL.Query().Get(queryParam)
	f.Category = r.URL.Query().Get("category")
	f.SortBy = r.URL.Query().Get("sortBy")
	f.SortOrder = r.URL.Query().Get("sortOrder")

	if f.Page, err = web.QueryInt(r, "page", defaultPage); err != nil {
		return f, err
	}
	if f.Limit, err = web.QueryInt(r, "limit", defaultLimit); err != nil {
		return f, err
	}
	f.Page = max(f.Page, 1)
	f.Limit = web.Clamp(f.Limit, 1, maxLimit)

	if f.MinPrice, err = web.QueryOptFloat(r, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = web.QueryOptFloat(r, "maxPrice"); err != nil {
		return f, err
	}
	if f.MinRating, err = web.QueryOptFloat(r, "minRating"); err != nil {
		return f, err
	}
	if f.MinViews, err = web.QueryOptInt64(r, "minViews"); err != nil {
		return f, err
	}
	if f.MaxViews, err = web.QueryOptInt64(r, "maxViews"); err != nil {
		return f, err
	}
	if f.Promotion, err = web.QueryOptBool(r, "isOnPromotion"); err != nil {
		return f, err
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return f, errors.New("minPrice must be non-negative")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return f, errors.New("maxPrice must be non-negative")
	}
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > 5) {
		return f, errors.New("minRating must be between 0 and 5")
	}
	if f.MinViews != nil && *f.MinViews < 0 {
		return f, errors.New("minViews must be non-negative")
	}
	if f.MaxViews != nil && *f.MaxViews < 0 {
		return f, errors.New("maxViews must be non-negative")
	}
	return f, nil
}

func (h *ProductHandler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
