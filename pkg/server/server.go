// Package server exposes the analysis pipeline over HTTP for the mail client
// integration: analyze, anonymize and PDF report endpoints.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/veraxsec/mailguard/pkg/config"
	"github.com/veraxsec/mailguard/pkg/scan"
)

// Server is the mailguard HTTP API server.
type Server struct {
	cfg        config.Config
	pipeline   *scan.Pipeline
	metrics    *Metrics
	httpServer *http.Server
}

// New creates a server around the pipeline.
func New(cfg config.Config, pipeline *scan.Pipeline) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: pipeline,
		metrics:  NewMetrics(),
	}
}

// Routes returns the configured handler. Exposed for tests.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/anonymize", s.handleAnonymize)
	mux.HandleFunc("POST /api/report", s.handleReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return s.withRequestID(mux)
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("listen", s.cfg.Listen).Msg("Starting mailguard API server")
		errChan <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// withRequestID tags every request with an ID and writes an access log line.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		started := time.Now()
		next.ServeHTTP(w, r)

		log.Debug().
			Str("requestId", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(started)).
			Msg("Request handled")
	})
}
