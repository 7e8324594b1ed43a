package transport

import (
	"net/http"

	"ecomarket/internal/middleware"
	"ecomarket/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContactHandler receives the public contact form.
type ContactHandler struct {
	contacts service.ContactService
	limiter  func(http.Handler) http.Handler
	logger   *zap.Logger
}

// NewContactHandler creates the handler. limiter may be nil to disable rate
// limiting.
func NewContactHandler(contacts service.ContactService, limiter func(http.Handler) http.Handler, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, limiter: limiter, logger: logger}
}

func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	if h.limiter != nil {
		r = r.With(h.limiter)
	}
	r.Post("/api/contact", h.Submit)
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if err := middleware.DecodeJSON(w, r, &in); err != nil {
		h.logger.Debug("Contact form decode failed", zap.Error(err))
		respondInvalidBody(w)
		return
	}

	msg, err := h.contacts.Submit(r.Context(), in)
	if err != nil {
		respondActionError(w, h.logger, err, "")
		return
	}

	middleware.RespondWithAction(w, http.StatusCreated, middleware.ActionSucceeded(
		"Thank you for your message! We will get back to you soon.",
		map[string]int64{"id": msg.ID},
	))
}
