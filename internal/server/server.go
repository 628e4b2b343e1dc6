// Package server exposes the analysis core over HTTP: job processing,
// language-specific analysis, peer synchronization and record lookup.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rohankatakam/codeinsight/internal/analysis"
	"github.com/rohankatakam/codeinsight/internal/config"
	"github.com/rohankatakam/codeinsight/internal/peer"
	"github.com/rohankatakam/codeinsight/internal/storage"
)

// ServiceName is reported by /health
const ServiceName = "codeinsight"

// Action runs one /api/process action over the submitted text
type Action func(text string) (interface{}, error)

// Server routes HTTP requests to the analysis core. The store and the peer
// are injected; a nil peer disables /api/cross-language/sync.
type Server struct {
	store   storage.Store
	peer    peer.Analyzer
	logger  *slog.Logger
	actions map[string]Action
	maxBody int64
}

// New creates a server with the default process actions registered
func New(store storage.Store, remote peer.Analyzer, logger *slog.Logger, maxBodyBytes int64) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = config.Default().Server.MaxBodyBytes
	}

	s := &Server{
		store:   store,
		peer:    remote,
		logger:  logger.With("component", "server"),
		actions: make(map[string]Action),
		maxBody: maxBodyBytes,
	}

	s.RegisterAction("analyze", func(text string) (interface{}, error) {
		return analysis.ScanStructure(text), nil
	})
	s.RegisterAction("extract_patterns", func(text string) (interface{}, error) {
		return analysis.ExtractDesignPatterns(text), nil
	})
	s.RegisterAction("generate_report", func(text string) (interface{}, error) {
		return analysis.GenerateReport(text), nil
	})

	return s
}

// RegisterAction registers a /api/process action, replacing any action of
// the same name. Not safe to call while serving.
func (s *Server) RegisterAction(name string, action Action) {
	s.actions[name] = action
}

// Handler returns the routed, logged handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/process", s.handleProcess)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze/{language}", s.handleAnalyzeLanguage)
	mux.HandleFunc("POST /api/cross-language/sync", s.handleSync)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("GET /api/results/{id}", s.handleGetResult)
	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr, "peer", s.peer != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
