// Package modelserver serves model JSON files from a directory, together
// with health and metrics endpoints, so routes can be tried locally.
package modelserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/model"
)

// Server serves the model files of one directory.
type Server struct {
	dir     string
	metrics *metrics.Collector
	logger  *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	addr       string
}

func New(dir string, m *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{dir: dir, metrics: m, logger: logger}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/{name:[A-Za-z0-9_-]+}.json", s.modelHandler).Methods(http.MethodGet)
	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) modelHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	path := filepath.Join(s.dir, name+".json")
	logger := s.logger.With("model", name, "path", path)

	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("Model not found.")
			http.NotFound(w, r)
			return
		}
		logger.Error("Failed to read model.", "error", err)
		http.Error(w, "failed to read model", http.StatusInternalServerError)
		return
	}
	if _, err := model.Decode(body); err != nil {
		logger.Warn("Serving invalid model.", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	logger.Debug("Model served.", "bytes", len(body))
}

// Start listens on addr and serves in the background. Use ":0" for a free port.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.mu.Lock()
	s.httpServer = srv
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	go func() {
		s.logger.Info("Model server starting", "address", "http://"+ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Model server failed unexpectedly", "error", err)
		}
	}()
	return nil
}

// URL returns the base URL of a started server.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == "" {
		return ""
	}
	return "http://" + s.addr
}

// Shutdown stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	if srv == nil {
		s.logger.Debug("Model server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.logger.Debug("Shutting down model server...")
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("Model server shutdown failed", "error", err)
		return err
	}
	return nil
}
