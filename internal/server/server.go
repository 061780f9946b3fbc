// Package server exposes the acquisition facade over HTTP for the page
// renderers and the gallery builder.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/travelblogr/placemedia/internal/acquire"
	"github.com/travelblogr/placemedia/internal/hierarchy"
	"github.com/travelblogr/placemedia/internal/model"
	"github.com/travelblogr/placemedia/internal/provider"
	"github.com/travelblogr/placemedia/internal/ratelimit"
)

// Server wires the facade into an HTTP handler.
type Server struct {
	facade   *acquire.Facade
	tracker  *ratelimit.Tracker
	registry *provider.Registry
}

// New creates a Server.
func New(facade *acquire.Facade, tracker *ratelimit.Tracker, registry *provider.Registry) *Server {
	return &Server{facade: facade, tracker: tracker, registry: registry}
}

// acquireRequest is the HTTP payload. Callers either supply the hierarchy
// directly or a place for the server to resolve.
type acquireRequest struct {
	model.AcquisitionRequest
	Place *hierarchy.Place `json:"place,omitempty"`
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Post("/v1/acquire", s.handleAcquire)
	r.Post("/v1/refetch", s.handleRefetch)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleAcquire(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	result, err := s.facade.Acquire(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRefetch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	result, err := s.facade.Refetch(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	budgets := make(map[string]int)
	for _, id := range s.registry.IDs() {
		budgets[id] = s.tracker.Remaining(id)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"providers":        s.registry.IDs(),
		"budget_remaining": budgets,
	})
}

// decode parses the payload and resolves a place into a hierarchy when the
// caller did not send one.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (model.AcquisitionRequest, bool) {
	var body acquireRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return model.AcquisitionRequest{}, false
	}

	req := body.AcquisitionRequest
	if len(req.Hierarchy) == 0 && body.Place != nil {
		h, err := hierarchy.Resolve(*body.Place)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return model.AcquisitionRequest{}, false
		}
		req.Hierarchy = h
		if req.EntityKey == "" {
			req.EntityKey = body.Place.Name
		}
	}
	return req, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, hierarchy.ErrInvalidLocation) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	zap.L().Error("acquisition failed",
		zap.String("request_id", w.Header().Get("X-Request-Id")),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestID tags every request with a UUID for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}
