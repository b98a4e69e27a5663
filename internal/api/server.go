// Package api implements the mindgrid HTTP API.
//
// Endpoints:
//
//	GET  /health                          — liveness and build info
//	POST /v1/ai/mindmap/generate          — prompt → mindmap tree JSON
//	POST /v1/ai/text-to-diagram/generate  — prompt → diagram definition text
//	POST /v1/scene/mindmap                — tree JSON → canvas elements (+ artifacts)
//
// Errors are returned as {"code": ..., "error": ...} with a matching HTTP
// status. Rate-limited upstream responses pass through as 429 with a
// Retry-After header.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mindgrid/pkg/buildinfo"
	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/genai"
	"github.com/matzehuels/mindgrid/pkg/pipeline"
)

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	runner    *pipeline.Runner
	generator genai.Generator
	logger    *log.Logger
}

// NewServer creates an API server. generator may be nil, in which case the
// generation endpoints return UNSUPPORTED.
func NewServer(runner *pipeline.Runner, generator genai.Generator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, generator: generator, logger: logger}
}

// Handler builds the chi router with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/ai/mindmap/generate", s.handleGenerate(kindMindmap))
		r.Post("/ai/text-to-diagram/generate", s.handleGenerate(kindDiagram))
		r.Post("/scene/mindmap", s.handleScene)
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// writeError maps structured error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeMissingTopic,
		errors.ErrCodeInvalidTheme, errors.ErrCodeInvalidFormat,
		errors.ErrCodeParseFailed:
		status = http.StatusBadRequest
	case errors.ErrCodeTooBig:
		status = http.StatusRequestEntityTooLarge
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
		var rle *errors.RateLimitedError
		if stderrors.As(err, &rle) && rle.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(rle.RetryAfter))
		}
	case errors.ErrCodeUpstream, errors.ErrCodeNetwork:
		status = http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}

	s.logger.Warn("request failed",
		"path", r.URL.Path,
		"status", status,
		"code", code,
		"err", err)
	writeJSON(w, status, errorBody{Code: code, Error: errors.UserMessage(err)})
}
