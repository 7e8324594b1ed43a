package transport

import (
	"errors"
	"net/http"
	"strconv"

	"ecomarket/internal/middleware"
	"ecomarket/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errInvalidID = errors.New("invalid id")

// pathID reads the positive integer {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}

// respondActionError maps a service failure onto an action result. notFound
// lists the sentinel errors that mean the target does not exist.
func respondActionError(w http.ResponseWriter, logger *zap.Logger, err error, notFoundMessage string, notFound ...error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		middleware.RespondWithAction(w, http.StatusBadRequest, middleware.ActionFailed(verr.Message, verr.Fields))
		return
	}

	var inUse *service.CategoryInUseError
	if errors.As(err, &inUse) {
		middleware.RespondWithAction(w, http.StatusConflict, middleware.ActionFailed(inUse.Error(), nil))
		return
	}

	for _, target := range notFound {
		if errors.Is(err, target) {
			middleware.RespondWithAction(w, http.StatusNotFound, middleware.ActionFailed(notFoundMessage, nil))
			return
		}
	}

	if errors.Is(err, service.ErrImageStorageDisabled) {
		middleware.RespondWithAction(w, http.StatusServiceUnavailable, middleware.ActionFailed("image uploads are not available", nil))
		return
	}

	logger.Error("Action failed", zap.Error(err))
	middleware.RespondWithAction(w, http.StatusInternalServerError, middleware.ActionFailed("an unexpected error occurred, please try again", nil))
}

func respondInvalidBody(w http.ResponseWriter) {
	middleware.RespondWithAction(w, http.StatusBadRequest, middleware.ActionFailed("invalid request body", nil))
}
