// Package server exposes the pipeline over HTTP for dashboard frontends.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/shfb-analytics/access-dashboard/internal/config"
	"github.com/shfb-analytics/access-dashboard/internal/pipeline"
)

// Server routes dashboard API requests into the pipeline.
type Server struct {
	pipe    *pipeline.Pipeline
	limiter *rate.Limiter
}

// New creates a Server over an already-loaded pipeline.
func New(pipe *pipeline.Pipeline, cfg config.ServerConfig) *Server {
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	return &Server{pipe: pipe, limiter: limiter}
}

// Router builds the chi router with middleware and all API routes.
func (s *Server) Router(cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/filters", s.handleFilters)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/map", s.handleMap)
		r.Get("/map.svg", s.handleMapSVG)
		r.Get("/tracts/{geoid}/agencies", s.handleTractAgencies)
	})

	return r
}

// rateLimit sheds load with 429 once the request budget is exhausted.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
