package transport

import (
	"errors"
	"net/http"

	"ecomarket/internal/middleware"
	"ecomarket/internal/repository"
	"ecomarket/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves the public storefront catalog.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{id}", h.GetProduct)
	r.Get("/api/categories", h.ListCategories)
}

// ListProducts handles GET /api/products?search=&category=&page=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.catalog.ListProducts(r.Context(), service.CatalogQuery{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Page:     service.ParsePage(q.Get("page")),
	})
	if err != nil {
		h.logger.Error("Failed to list catalog products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not load products, please try again later")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCatalogPageView(page))
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if errors.Is(err, repository.ErrProductNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to load product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not load product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newProductView(product))
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not load categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
