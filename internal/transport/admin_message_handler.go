package transport

import (
	"net/http"

	"ecomarket/internal/middleware"
	"ecomarket/internal/repository"
	"ecomarket/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const messageNotFoundMessage = "message not found (it may have already been deleted)"

// AdminMessageHandler serves the contact inbox and dashboard counters.
type AdminMessageHandler struct {
	messages service.ContactService
	summary  service.SummaryService
	logger   *zap.Logger
}

func NewAdminMessageHandler(messages service.ContactService, summary service.SummaryService, logger *zap.Logger) *AdminMessageHandler {
	return &AdminMessageHandler{messages: messages, summary: summary, logger: logger}
}

func (h *AdminMessageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/admin/summary", h.Summary)
	r.Route("/api/admin/messages", func(r chi.Router) {
		r.Get("/", h.List)
		r.Patch("/{id}/read", h.MarkRead)
		r.Delete("/{id}", h.Delete)
	})
}

// Summary handles GET /api/admin/summary
func (h *AdminMessageHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summary.Summary(r.Context())
	if err != nil {
		h.logger.Error("Failed to load dashboard summary", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not load the dashboard")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// List handles GET /api/admin/messages
func (h *AdminMessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list contact messages", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not load messages")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// MarkRead handles PATCH /api/admin/messages/{id}/read
func (h *AdminMessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithAction(w, http.StatusBadRequest, middleware.ActionFailed("invalid message id", nil))
		return
	}

	if err := h.messages.MarkRead(r.Context(), id); err != nil {
		respondActionError(w, h.logger, err, messageNotFoundMessage, repository.ErrMessageNotFound)
		return
	}
	middleware.RespondWithAction(w, http.StatusOK, middleware.ActionSucceeded("message marked as read", nil))
}

// Delete handles DELETE /api/admin/messages/{id}
func (h *AdminMessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.RespondWithAction(w, http.StatusBadRequest, middleware.ActionFailed("invalid message id", nil))
		return
	}

	if err := h.messages.Delete(r.Context(), id); err != nil {
		respondActionError(w, h.logger, err, messageNotFoundMessage, repository.ErrMessageNotFound)
		return
	}
	middleware.RespondWithAction(w, http.StatusOK, middleware.ActionSucceeded("message deleted successfully", nil))
}
