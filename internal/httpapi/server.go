// Package httpapi exposes paper generation over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/tutiful/papergen/internal/llm"
	"github.com/tutiful/papergen/internal/paper"
	"github.com/tutiful/papergen/internal/service"
)

// PaperService is the service surface the HTTP layer needs.
type PaperService interface {
	GeneratePaper(ctx context.Context, req service.Request) (*paper.Paper, error)
	Topics() []string
}

// Server wires the routes.
type Server struct {
	svc      PaperService
	provider llm.Provider
	log      *zap.Logger
}

// New creates a Server. The provider is only probed for health checks
// and may be nil.
func New(svc PaperService, provider llm.Provider, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, provider: provider, log: log}
}

// Router builds the chi handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/papers", s.handleGeneratePaper)
		r.Get("/topics", s.handleTopics)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)))
	})
}

// generateRequest is the POST /v1/papers body.
type generateRequest struct {
	Subject      string         `json:"subject"`
	Grade        string         `json:"grade"`
	Topics       []string       `json:"topics"`
	Count        int            `json:"question_count"`
	Distribution map[string]int `json:"distribution,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleGeneratePaper(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := s.svc.GeneratePaper(r.Context(), service.Request{
		Subject:      req.Subject,
		Grade:        req.Grade,
		Topics:       req.Topics,
		Count:        req.Count,
		Distribution: req.Distribution,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnsupportedSubject),
		errors.Is(err, service.ErrUnsupportedGrade),
		errors.Is(err, service.ErrNoTopicsAvailable):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error("paper generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleTopics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"topics": s.svc.Topics()})
}

type healthResponse struct {
	Status string `json:"status"`
	Oracle string `json:"oracle"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Oracle: "unconfigured"}
	if s.provider != nil {
		resp.Oracle = "unreachable"
		if prober, ok := s.provider.(llm.AvailabilityProber); !ok || prober.Available(r.Context()) {
			resp.Oracle = "ok"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
