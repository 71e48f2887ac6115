package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"glustermon/internal/config"
	"glustermon/internal/logs"
	"glustermon/internal/xosan"
	"glustermon/pkg/models"
)

// VendorLookup resolves a MAC address to its vendor
type VendorLookup interface {
	Lookup(mac string) *models.OUIEntry
}

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	methods map[string]*xosan.Method
	vendors VendorLookup
	history *logs.Manager
	logger  zerolog.Logger
	mux     *http.ServeMux
	httpSrv *http.Server
}

// NewServer creates a new web server. vendors may be nil.
func NewServer(cfg *config.Config, methods map[string]*xosan.Method, vendors VendorLookup, logger zerolog.Logger) *Server {
	server := &Server{
		cfg:     cfg,
		methods: methods,
		vendors: vendors,
		history: logs.NewManager(0),
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	if cfg.AdminPasswordHash == "" {
		logger.Warn().Msg("adminpasswordhash is not set, admin methods will be refused")
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures HTTP routes
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/methods", s.handleMethods)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("POST /api/{method}", s.handleCall)
}

// Handler returns the root handler with request logging
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.mux.ServeHTTP(w, r)
		s.logger.Debug().
			Str("remote", r.RemoteAddr).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.HTTPListen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
