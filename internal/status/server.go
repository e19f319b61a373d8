// Package status exposes the watch process's local status endpoint. It is
// the primary signal for activation checks: if the probe answers, the
// extension engine is running.
package status

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Config describes server wiring.
type Config struct {
	ExtensionID string
	Version     string
	Logger      *slog.Logger
	Clock       func() time.Time
}

// Server answers capability probes for one extension identifier.
type Server struct {
	cfg     Config
	mux     *http.ServeMux
	handler http.Handler
	logger  *slog.Logger
	started time.Time
}

// New wires a status server with the provided configuration.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	s := &Server{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		logger:  cfg.Logger,
		started: cfg.Clock(),
	}
	s.registerRoutes()
	s.handler = withLogging(s.logger, s.mux)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /ping", s.handlePing)
	s.mux.HandleFunc("GET /extension/{id}/status", s.handleExtensionStatus)
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("PONG"))
}

func (s *Server) handleExtensionStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id != s.cfg.ExtensionID {
		http.NotFound(w, r)
		return
	}
	resp := struct {
		ID      string `json:"id"`
		Enabled bool   `json:"enabled"`
		Version string `json:"version,omitempty"`
		Uptime  int64  `json:"uptime_seconds"`
	}{
		ID:      id,
		Enabled: true,
		Version: s.cfg.Version,
		Uptime:  int64(s.cfg.Clock().Sub(s.started).Seconds()),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("status request", "method", r.Method, "path", r.URL.Path, "from", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
