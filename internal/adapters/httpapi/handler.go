package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/atvirokodosprendimai/bookstore/internal/apperr"
	"github.com/atvirokodosprendimai/bookstore/internal/core/domain"
	"github.com/atvirokodosprendimai/bookstore/internal/core/usecase"
	"github.com/atvirokodosprendimai/bookstore/internal/observability/logging"
	"github.com/atvirokodosprendimai/bookstore/internal/observability/metrics"
)

type Handler struct {
	bookService  *usecase.BookService
	auditService *usecase.AuditService
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	readiness    func(ctx context.Context) (int64, error)
}

type Option func(*Handler)

// WithMetrics enables request metrics and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithReadiness sets the /readyz probe; it reports the applied schema version.
func WithReadiness(check func(ctx context.Context) (int64, error)) Option {
	return func(h *Handler) { h.readiness = check }
}

func NewHandler(bookService *usecase.BookService, auditService *usecase.AuditService, opts ...Option) *Handler {
	h := &Handler{
		bookService:  bookService,
		auditService: auditService,
		logger:       logging.WithComponent("httpapi"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.recoverer)
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, r, apperr.NotFound("Not Found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, r, apperr.New("Method Not Allowed", http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)

	r.Route("/books", func(r chi.Router) {
		r.Get("/", h.listBooks)
		r.With(createBookValidator.Middleware(h.rejectInvalid)).Post("/", h.createBook)
		r.Get("/{isbn}", h.getBook)
		r.With(updateBookValidator.Middleware(h.rejectInvalid)).Put("/{isbn}", h.updateBook)
		r.Delete("/{isbn}", h.deleteBook)
		r.Get("/{isbn}/events", h.bookEvents)
	})

	return r
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if books == nil {
		books = []domain.Book{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	var book domain.Book
	if err := decodeBody(r, &book); err != nil {
		h.renderError(w, r, err)
		return
	}

	created, err := h.bookService.Create(r.Context(), book, mutationMetadata(r))
	if err != nil {
		h.renderError(w, r, bookError(err, book.ISBN))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"book": created})
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")
	book, err := h.bookService.Get(r.Context(), isbn)
	if err != nil {
		h.renderError(w, r, bookError(err, isbn))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"book": book})
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")
	var book domain.Book
	if err := decodeBody(r, &book); err != nil {
		h.renderError(w, r, err)
		return
	}
	book.ISBN = isbn

	updated, err := h.bookService.Update(r.Context(), book, mutationMetadata(r))
	if err != nil {
		h.renderError(w, r, bookError(err, isbn))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"book": updated})
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")
	if err := h.bookService.Delete(r.Context(), isbn, mutationMetadata(r)); err != nil {
		h.renderError(w, r, bookError(err, isbn))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted"})
}

func (h *Handler) bookEvents(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")
	filter := domain.BookEventFilter{ISBN: isbn}

	query := r.URL.Query()
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.renderError(w, r, apperr.BadRequest("limit must be integer"))
			return
		}
		filter.Limit = limit
	}
	if raw := query.Get("after"); raw != "" {
		after, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.renderError(w, r, apperr.BadRequest("after must be integer"))
			return
		}
		filter.AfterID = after
	}

	events, err := h.auditService.History(r.Context(), filter)
	if err != nil {
		h.renderError(w, r, bookError(err, isbn))
		return
	}
	if events == nil {
		events = []domain.BookEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.readiness == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	version, err := h.readiness(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("readiness check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "schema_version": version})
}

// decodeBody runs after schema validation, so a failure here means the body
// and the schema disagree.
func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperr.BadRequest("invalid json body")
	}
	return nil
}

func mutationMetadata(r *http.Request) domain.MutationMetadata {
	return domain.MutationMetadata{RequestID: middleware.GetReqID(r.Context())}
}
