// Package server exposes the correlated datasets over HTTP for rendering
// collaborators (charts, tables, the map widget).
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/leina-lyt/inference-dashboard/internal/config"
	"github.com/leina-lyt/inference-dashboard/internal/metrics"
	"github.com/leina-lyt/inference-dashboard/internal/model"
	"github.com/leina-lyt/inference-dashboard/internal/pipeline"
)

// Server serves dashboard data built by the correlation pipeline.
type Server struct {
	pipe    *pipeline.Pipeline
	monitor config.MonitorConfig
	limiter *rate.Limiter
	group   singleflight.Group
}

// New creates a Server around an existing pipeline.
func New(pipe *pipeline.Pipeline, cfg config.ServerConfig, monitor config.MonitorConfig) *Server {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 20
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = int(rps) * 2
	}
	return &Server{
		pipe:    pipe,
		monitor: monitor,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// buildResult is one render pass over the log tree.
type buildResult struct {
	datasets map[string]*model.Dataset
	diags    []model.Diagnostic
	snap     *metrics.Snapshot
}

// build runs the pipeline for one render pass. Concurrent requests coalesce
// into a single run so the batch transform stays effectively single-threaded.
func (s *Server) build() *buildResult {
	v, _, _ := s.group.Do("correlate", func() (any, error) {
		datasets, diags := s.pipe.Correlate()
		return &buildResult{
			datasets: datasets,
			diags:    diags,
			snap:     metrics.Collect(datasets, diags),
		}, nil
	})
	return v.(*buildResult)
}

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/diagnostics", s.handleDiagnostics)
		r.Get("/countries", s.handleCountries)
		r.Get("/countries/{country}", s.handleCountry)
		r.Get("/countries/{country}/geojson", s.handleCountryGeoJSON)
	})

	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
