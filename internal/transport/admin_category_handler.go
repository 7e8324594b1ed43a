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

const categoryNotFoundMessage = "category not found"

// AdminCategoryHandler serves category management for the back-office.
type AdminCategoryHandler struct {
	categories service.CategoryService
	logger     *zap.Logger
}

func NewAdminCategoryHandler(categories service.CategoryService, logger *zap.Logger) *AdminCategoryHandler {
	return &AdminCategoryHandler{categories: categories, logger: logger}
}

func (h *AdminCategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/admin/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /api/admin/categories
func (h *AdminCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not load categories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// Get handles GET /api/admin/categories/{id}
func (h *AdminCategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, categoryNotFoundMessage)
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, categoryNotFoundMessage)
		return
	}
	if err != nil {
		h.logger.Error("Failed to load category", zap.Int64("category_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not load category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Create handles POST /api/admin/categories
func (h *AdminCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := middleware.DecodeJSON(w, r, &in); err != nil {
		respondInvalidBody(w)
		return
	}

	category, err := h.categories.Create(r.Context(), in)
	if err != nil {
		respondActionError(w, h.logger, err, categoryNotFoundMessage)
		return
	}
	middleware.RespondWithAction(w, http.StatusCreated, middleware.ActionSucceeded("category created successfully", category))
}

// Update handles PUT /api/admin/categories/{id}
func (h *AdminCategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithAction(w, http.StatusNotFound, middleware.ActionFailed(categoryNotFoundMessage, nil))
		return
	}

	var in service.CategoryInput
	if err := middleware.DecodeJSON(w, r, &in); err != nil {
		respondInvalidBody(w)
		return
	}

	category, err := h.categories.Update(r.Context(), id, in)
	if err != nil {
		respondActionError(w, h.logger, err, "the category to update was not found", repository.ErrCategoryNotFound)
		return
	}
	middleware.RespondWithAction(w, http.StatusOK, middleware.ActionSucceeded("category updated successfully", category))
}

// Delete handles DELETE /api/admin/categories/{id}. Categories that still
// have products answer 409 with the product count in the message.
func (h *AdminCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithAction(w, http.StatusNotFound, middleware.ActionFailed(categoryNotFoundMessage, nil))
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		respondActionError(w, h.logger, err, "the category to delete was not found", repository.ErrCategoryNotFound)
		return
	}
	middleware.RespondWithAction(w, http.StatusOK, middleware.ActionSucceeded("category deleted successfully", nil))
}
