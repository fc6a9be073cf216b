package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ekrsw/knowledge-app-sub001/knowledge"
	"github.com/ekrsw/knowledge-app-sub001/knowledge/service"
)

// App holds all application dependencies and services.
type App struct {
	Workflow service.WorkflowService
	Queue    service.QueueService
	Users    service.UserService
	Config   *knowledge.Config
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// SlogLoggingMiddleware logs HTTP requests using slog
func SlogLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"size", wrapped.size,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeError maps the workflow error taxonomy onto HTTP statuses:
// lookups 404, wrong state 409, missing authority 403, bad input 400.
func writeError(rw http.ResponseWriter, err error) {
	var statusErr *knowledge.StatusError
	var permErr *knowledge.PermissionError
	var validationErr *knowledge.ValidationError

	switch {
	case errors.Is(err, knowledge.ErrRevisionNotFound),
		errors.Is(err, knowledge.ErrUserNotFound),
		errors.Is(err, knowledge.ErrArticleNotFound):
		writeJSON(rw, http.StatusNotFound, errorBody{Error: err.Error(), Kind: "not_found"})
	case errors.As(err, &statusErr):
		writeJSON(rw, http.StatusConflict, errorBody{Error: err.Error(), Kind: "status"})
	case errors.As(err, &permErr):
		writeJSON(rw, http.StatusForbidden, errorBody{Error: err.Error(), Kind: "permission"})
	case errors.As(err, &validationErr):
		writeJSON(rw, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "validation"})
	default:
		slog.Error("unexpected error", "error", err)
		writeJSON(rw, http.StatusInternalServerError, errorBody{Error: "internal error", Kind: "internal"})
	}
}
