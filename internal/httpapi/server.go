package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adapterd/internal/manager"
	"adapterd/internal/prompt"
	"adapterd/internal/runtime"
	"adapterd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Health() types.HealthResponse
	AdapterNames() []string
	Assist(ctx context.Context, req types.Request) (types.Response, error)
	RunAdapter(ctx context.Context, name string, req types.Request) (types.Response, error)
	Ready() bool
}

// NewMux builds the chi router serving the public API.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Log-Level"},
		}))
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", handleHealth(svc))
	r.Get("/adapters", handleAdapters(svc))
	r.Post("/run/{adapter_name}", handleRun(svc))
	r.Post("/assistant", handleAssistant(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// handleHealth godoc
// @Summary Service health
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Router /health [get]
func handleHealth(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Health())
	}
}

// handleAdapters godoc
// @Summary List discovered adapters
// @Produce json
// @Success 200 {object} types.AdaptersResponse
// @Router /adapters [get]
func handleAdapters(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := svc.AdapterNames()
		writeJSON(w, http.StatusOK, types.AdaptersResponse{
			AvailableAdapters: names,
			Count:             len(names),
		})
	}
}

// handleRun godoc
// @Summary Run a named adapter
// @Accept json
// @Produce json
// @Param adapter_name path string true "Adapter name"
// @Param request body types.RunRequest true "Adapter payload"
// @Success 200 {object} types.RunResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 429 {object} types.ErrorResponse
// @Router /run/{adapter_name} [post]
func handleRun(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "adapter_name")
		var req types.RunRequest
		if !decodeBody(w, r, &req) {
			return
		}
		start := time.Now()
		logRequestStart(r, "run", name)
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		resp, err := svc.RunAdapter(joined, name, req.ToRequest())
		if err != nil {
			writePipelineError(w, r, err, start)
			return
		}
		logRequestEnd(r, http.StatusOK, start)
		writeJSON(w, http.StatusOK, types.RunResponse{
			Adapter:     name,
			Response:    resp.Payload,
			Status:      "success",
			Diagnostics: resp.Diagnostics,
		})
	}
}

// handleAssistant godoc
// @Summary Unified assistant entry point
// @Accept json
// @Produce json
// @Param request body types.AssistantRequest true "Assistant payload"
// @Success 200 {object} types.AssistantResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 429 {object} types.ErrorResponse
// @Router /assistant [post]
func handleAssistant(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AssistantRequest
		if !decodeBody(w, r, &req) {
			return
		}
		start := time.Now()
		logRequestStart(r, "assistant", req.Adapter)
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		resp, err := svc.Assist(joined, req.ToRequest())
		if err != nil {
			writePipelineError(w, r, err, start)
			return
		}
		logRequestEnd(r, http.StatusOK, start)
		writeJSON(w, http.StatusOK, types.AssistantResponse{
			Mode:        resp.Mode,
			Response:    resp.Payload,
			Status:      "success",
			Diagnostics: resp.Diagnostics,
		})
	}
}

// decodeBody enforces the JSON content type and body cap, then decodes into
// dst. Writes the error response itself and returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "bad_request", "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return false
	}
	return true
}

// writePipelineError maps pipeline errors onto HTTP status codes and stable
// error kinds.
func writePipelineError(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	// Client disconnect or shutdown: nothing useful to write.
	if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
		return
	}
	var status int
	var kind string
	switch {
	case manager.IsNotFound(err):
		status, kind = http.StatusNotFound, "not_found"
	case manager.IsBusy(err):
		status, kind = http.StatusTooManyRequests, "busy"
		IncrementBackpressure("gate_timeout")
	case prompt.IsSchemaMismatch(err):
		status, kind = http.StatusBadRequest, "schema_mismatch"
	case runtime.IsUnavailable(err):
		status, kind = http.StatusServiceUnavailable, "dependency_unavailable"
	case manager.IsAdapterLoad(err):
		status, kind = http.StatusInternalServerError, "adapter_load_error"
	case errors.Is(err, context.DeadlineExceeded):
		status, kind = http.StatusGatewayTimeout, "timeout"
	default:
		status, kind = http.StatusInternalServerError, "internal"
	}
	logRequestEnd(r, status, start)
	writeJSONError(w, status, kind, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing more to do than note it.
		logEncodeFailure(err)
	}
}
