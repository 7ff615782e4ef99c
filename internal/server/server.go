// package server contains middleware & handlers for the OKmusi HTTP API
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/okmusi/internal/auth"
	"github.com/desertthunder/okmusi/internal/catalog"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/desertthunder/okmusi/internal/tasks"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Options configures a [Server].
type Options struct {
	Config      shared.ServerConfig
	Driver      string // storage driver name reported by /health
	Store       models.Store
	Catalog     *catalog.Catalog
	AuthDelay   time.Duration
	SearchDelay time.Duration
	Logger      *log.Logger
}

// Server holds the dependencies of the HTTP API.
type Server struct {
	config  shared.ServerConfig
	driver  string
	store   models.Store
	catalog *catalog.Catalog
	auth    *auth.Service
	search  *tasks.SearchEngine
	logger  *log.Logger
	engine  *gin.Engine
}

// New creates a [Server] and registers its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}

	s := &Server{
		config:  opts.Config,
		driver:  opts.Driver,
		store:   opts.Store,
		catalog: opts.Catalog,
		auth:    auth.NewService(opts.AuthDelay),
		search:  tasks.NewSearchEngine(opts.Catalog, opts.SearchDelay),
		logger:  shared.WithLogger(opts.Logger, "component", "server"),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the gin engine as an [http.Handler].
func (s *Server) Handler() http.Handler {
	return s.engine
}

// HTTPServer returns an [http.Server] listening on the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
//
// ready, when non-nil, receives the bound address once the listener is open.
func (s *Server) Run(ctx context.Context, ready chan<- string) error {
	srv := s.HTTPServer()
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	addr := ln.Addr().String()
	s.logger.Info("listening", "addr", addr, "storage", s.driver)
	if ready != nil {
		ready <- addr
	}

	errs := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
