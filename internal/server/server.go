package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/drewdunne/samwise/internal/config"
	"github.com/drewdunne/samwise/internal/metrics"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the health check response structure.
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]interface{} `json:"checks"`
}

// Server exposes health and metrics over HTTP while samwise runs.
type Server struct {
	cfg          config.ServerConfig
	mux          *http.ServeMux
	store        Pinger
	httpServer   *httpServer
	httpServerMu sync.RWMutex  // protects httpServer pointer
	ready        chan struct{} // closed when server is ready to accept connections
}

// New creates a new Server reporting on the given store.
func New(cfg config.ServerConfig, store Pinger) *Server {
	s := &Server{
		cfg:   cfg,
		mux:   http.NewServeMux(),
		store: store,
		ready: make(chan struct{}),
	}
	s.routes()
	return s
}

// Ready returns a channel that is closed when the server is ready to accept connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/metrics", s.handleMetrics)
}

// handleHealth responds with server health status. An unreachable store
// makes the service unavailable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	m := metrics.Get()
	checks := map[string]interface{}{
		"store":  true,
		"passes": m.Passes,
	}

	status, code := "ok", http.StatusOK
	if err := s.store.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "health check: store unreachable", "error", err)
		checks["store"] = false
		status, code = "degraded", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(HealthResponse{Status: status, Checks: checks})
}

// handleMetrics responds with current operational metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := metrics.Get()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}
