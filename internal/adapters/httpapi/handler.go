// Package httpapi serves the named land record operations over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/patta/internal/apperr"
	"github.com/example/patta/internal/ctxutil"
)

// Request headers carrying the acting user and retry token.
const (
	HeaderActor          = "X-Patta-Actor"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// maxBodyBytes bounds an invoke request body.
const maxBodyBytes = 1 << 20

// Invoker runs a named operation.
type Invoker interface {
	Invoke(ctx context.Context, op string, args []string) (string, error)
}

// Handler handles the invoke, health and metrics endpoints.
type Handler struct {
	invoker  Invoker
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// New creates a Handler. A nil gatherer leaves /metrics unregistered.
func New(invoker Invoker, logger *slog.Logger, gatherer prometheus.Gatherer) *Handler {
	return &Handler{invoker: invoker, logger: logger, gatherer: gatherer}
}

// Register registers the routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	if h.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Post("/invoke/{op}", h.handleInvoke)
	})
}

// NewRouter builds the full router for h.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	h.Register(r)
	return r
}

// NewServer builds an HTTP server with the project's timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []byte(`{"status":"ok"}`))
}

// handleInvoke runs the operation named in the path. The body is a JSON array
// of string arguments; an empty body means no arguments.
func (h *Handler) handleInvoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	op := chi.URLParam(r, "op")
	requestID := middleware.GetReqID(ctx)

	args, err := decodeArgs(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid invoke request",
			"request_id", requestID,
			"op", op,
			"error", err.Error(),
		)
		writeError(w, apperr.InvalidInput(err, "request body must be a JSON array of strings"))
		return
	}

	if actor := r.Header.Get(HeaderActor); actor != "" {
		ctx = ctxutil.WithActorID(ctx, actor)
	}
	if token := r.Header.Get(HeaderIdempotencyKey); token != "" {
		ctx = ctxutil.WithIdempotencyKey(ctx, token)
	}

	out, err := h.invoker.Invoke(ctx, op, args)
	if err != nil {
		if StatusFor(err) >= http.StatusInternalServerError {
			h.logger.ErrorContext(ctx, "operation failed",
				"request_id", requestID,
				"op", op,
				"error", err.Error(),
			)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, []byte(out))
}

func decodeArgs(body io.Reader) ([]string, error) {
	var args []string
	err := json.NewDecoder(body).Decode(&args)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return args, err
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNone:
		return http.StatusOK
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAlreadyExists, apperr.KindAlreadyIssued:
		return http.StatusConflict
	case apperr.KindInvalidInput, apperr.KindNoDocuments:
		return http.StatusBadRequest
	case apperr.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	body := errorBody{Error: apperr.KindOf(err), Message: err.Error()}
	if status == http.StatusInternalServerError {
		body.Message = "internal error"
	}
	encoded, _ := json.Marshal(body)
	writeJSON(w, status, encoded)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
