// Package server exposes the combination search over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/ohmkit/resistor-search/internal/config"
	"github.com/ohmkit/resistor-search/internal/logging"
	"github.com/ohmkit/resistor-search/internal/metrics"
	"github.com/ohmkit/resistor-search/pkg/engine"
	"github.com/ohmkit/resistor-search/pkg/eseries"
)

// Server wires the search engines, the result cache, and the instrumentation
// behind the HTTP API.
type Server struct {
	cfg     *config.Config
	logger  logr.Logger
	metrics *metrics.Metrics
	engines map[string]*engine.Engine
	cache   *resultCache
}

// New assembles a Server from the configuration: one engine per standard
// series over the configured decade range, plus one per catalog entry when a
// catalog file is configured. Catalog entries cannot shadow standard series
// names.
func New(cfg *config.Config, logger logr.Logger, m *metrics.Metrics) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engines := make(map[string]*engine.Engine)
	for _, s := range eseries.Supported() {
		table, err := eseries.Build(s, cfg.Search.MinDecade, cfg.Search.MaxDecade)
		if err != nil {
			return nil, err
		}
		eng, err := engine.New(table)
		if err != nil {
			return nil, err
		}
		engines[string(s)] = eng
	}

	if cfg.Search.CatalogPath != "" {
		catalog, err := config.LoadCatalog(logger, cfg.Search.CatalogPath)
		if err != nil {
			return nil, err
		}
		for name, values := range catalog {
			if _, taken := engines[name]; taken {
				logger.Info("Catalog entry shadows a standard series, skipping",
					"name", name)
				continue
			}
			eng, err := engine.New(values)
			if err != nil {
				return nil, err
			}
			engines[name] = eng
		}
	}

	return &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		engines: engines,
		cache:   newResultCache(cfg.Search.CacheSize),
	}, nil
}

// Handler returns the full route table of the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/search", s.handleSearch)
	mux.HandleFunc("GET /api/v1/values", s.handleValues)
	mux.HandleFunc("GET /api/v1/bands", s.handleBands)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /version", s.handleVersion)
	return s.withLogging(mux)
}

// Start serves the API until ctx is canceled, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging attaches the server logger to each request context and logs
// one line per request at DEBUG.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logging.IntoContext(r.Context(), s.logger)))
		s.logger.V(logging.DEBUG).Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String())
	})
}
