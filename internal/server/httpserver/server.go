// Package httpserver wires the local web UI: routes, middleware and lifecycle.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/projectsol/solclient/internal/config"
	derrors "github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/logfields"
	"github.com/projectsol/solclient/internal/metrics"
	"github.com/projectsol/solclient/internal/server/handlers"
	smw "github.com/projectsol/solclient/internal/server/middleware"
)

// Options carries optional dependencies.
type Options struct {
	// Health probes the platform from /healthz when set.
	Health handlers.HealthChecker
	// Registry is served on /metrics when the server config enables metrics.
	Registry *prom.Registry
}

// Server manages the local web UI HTTP endpoint.
type Server struct {
	cfg          config.ServerConfig
	opts         Options
	errorAdapter *derrors.HTTPErrorAdapter

	portalHandlers     *handlers.PortalHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	mchain func(http.Handler) http.Handler

	httpServer *http.Server
	addr       net.Addr
}

// New constructs the server without binding.
func New(cfg config.ServerConfig, portal handlers.Portal, opts Options) *Server {
	s := &Server{
		cfg:          cfg,
		opts:         opts,
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}
	s.portalHandlers = handlers.NewPortalHandlers(portal, s.errorAdapter)
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Health)
	s.mchain = smw.Chain(slog.Default(), s.errorAdapter)
	return s
}

// Handler returns the fully wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.portalHandlers.HandleIndex)
	mux.HandleFunc("GET /challenges/{id}", s.portalHandlers.HandleChallenge)
	mux.HandleFunc("POST /challenges/{id}/launch", s.portalHandlers.HandleLaunch)
	mux.HandleFunc("POST /challenges/{id}/submit", s.portalHandlers.HandleSubmit)
	mux.HandleFunc("POST /missions/{container}/stop", s.portalHandlers.HandleStop)
	mux.HandleFunc("GET /healthz", s.monitoringHandlers.HandleHealth)
	if s.cfg.Metrics {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	return s.mchain(mux)
}

// Start binds the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("http startup failed: %w", err)
	}
	s.addr = ln.Addr()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", logfields.Error(err))
		}
	}()
	slog.Info("Web UI listening", logfields.URL("http://"+s.addr.String()))
	return nil
}

// Addr returns the bound address after Start.
func (s *Server) Addr() net.Addr { return s.addr }

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
