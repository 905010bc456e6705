// Package server owns the HTTP surface of the forecast service: routing,
// request handling, middleware and the dashboard page.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fxpredict/internal/forecast"
	"fxpredict/internal/metrics"
	"fxpredict/models"
)

// Server wires the handler, middleware and http.Server together.
type Server struct {
	srv    *http.Server
	logger zerolog.Logger
}

func New(cfg *models.Config, engine *forecast.Engine, m *metrics.Metrics) *Server {
	logger := log.With().Str("component", "server").Logger()
	handler := NewHandler(engine, m)
	limiter := newClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.Dashboard)
	mux.HandleFunc("/api/predict", handler.Predict)
	mux.HandleFunc("/api/predict_multi", handler.PredictMulti)
	mux.HandleFunc("/api/pairs", handler.Pairs)
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/test", handler.Test)
	mux.Handle("/metrics", promhttp.Handler())

	chain := observe(limiter.limit(mux, handler, m), logger, m)

	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      chain,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Routes exposes the middleware-wrapped handler, for tests that drive the
// full chain through httptest.
func (s *Server) Routes() http.Handler {
	return s.srv.Handler
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.srv.Addr).Msg("listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down")
	return s.srv.Shutdown(ctx)
}
