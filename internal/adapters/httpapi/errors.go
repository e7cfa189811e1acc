package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/atvirokodosprendimai/bookstore/internal/apperr"
	"github.com/atvirokodosprendimai/bookstore/internal/core/domain"
	"github.com/atvirokodosprendimai/bookstore/internal/observability/metrics"
)

type errorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// renderError is the single place that turns an error into a response.
// Anything that is not an *apperr.Error is treated as internal.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		h.logger.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		appErr = apperr.Internal()
	}
	writeJSON(w, appErr.StatusCode, map[string]any{
		"error": errorBody{Message: appErr.Message, Status: appErr.StatusCode},
	})
}

// rejectInvalid receives schema validation failures.
func (h *Handler) rejectInvalid(w http.ResponseWriter, r *http.Request, err error) {
	if h.metrics != nil {
		h.metrics.ValidationRejections.WithLabelValues(metrics.RoutePattern(r)).Inc()
	}
	h.renderError(w, r, err)
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.renderError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// bookError maps domain errors to client-facing ones. Unknown errors pass through.
func bookError(err error, isbn string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperr.NotFound(fmt.Sprintf("There is no book with an isbn '%s'", isbn))
	case errors.Is(err, domain.ErrConflict):
		return apperr.Conflict(fmt.Sprintf("A book with isbn '%s' already exists", isbn))
	case errors.Is(err, domain.ErrInvalidISBN):
		return apperr.BadRequest(fmt.Sprintf("invalid isbn '%s'", isbn))
	default:
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Msg("encode json response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}
