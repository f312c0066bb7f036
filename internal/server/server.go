// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the checker and citation generator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/citecheck/internal/crossref"
	"github.com/pdiddy/citecheck/internal/generate"
	"github.com/pdiddy/citecheck/internal/history"
	"github.com/pdiddy/citecheck/pkg/types"
)

const defaultMaxUpload = 20 << 20

// Analyzer checks manuscript text. *analyze.Analyzer satisfies it.
type Analyzer interface {
	Analyze(text string) types.Report
}

// Generator builds citations from free input. *generate.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, input string) (generate.Result, error)
}

// Suggester completes partial DOIs. *crossref.Client satisfies it.
type Suggester interface {
	SuggestDOI(ctx context.Context, prefix string, limit int) ([]crossref.Suggestion, error)
}

// Recorder persists analyses. *history.Store satisfies it.
type Recorder interface {
	Save(ctx context.Context, run *history.Run) error
}

// Server is the HTTP API.
type Server struct {
	analyzer  Analyzer
	generator Generator
	suggester Suggester
	recorder  Recorder
	logger    *zap.Logger
	validator *validator.Validate
	cfg       types.ServeConfig
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRecorder saves every analysis to r.
func WithRecorder(r Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// New creates a server. The generator and suggester may be nil, in which
// case their endpoints answer 503.
func New(cfg types.ServeConfig, analyzer Analyzer, generator Generator, suggester Suggester, opts ...Option) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUpload
	}
	s := &Server{
		analyzer:  analyzer,
		generator: generator,
		suggester: suggester,
		logger:    zap.NewNop(),
		validator: validator.New(),
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API with metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze_document", s.handleAnalyze)
	mux.HandleFunc("POST /api/generate_citation", s.handleGenerate)
	mux.HandleFunc("GET /api/suggest_doi", s.handleSuggestDOI)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.withMetrics(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) logRequest(r *http.Request, status int, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", fields...)
		return
	}
	s.logger.Info("request", fields...)
}
