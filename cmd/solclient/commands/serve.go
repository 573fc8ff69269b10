package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/projectsol/solclient/internal/logfields"
	"github.com/projectsol/solclient/internal/metrics"
	"github.com/projectsol/solclient/internal/reaper"
	"github.com/projectsol/solclient/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr     string `help:"Listen address (overrides server.addr)"`
	NoReaper bool   `name:"no-reaper" help:"Do not stop expired missions in the background"`
}

// Run executes the serve command.
func (c *ServeCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		registry *prom.Registry
		recorder metrics.Recorder = metrics.NoopRecorder{}
	)
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cfg.Server.Metrics {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	s, err := openSession(root, sessionOptions{cfg: cfg, recorder: recorder})
	if err != nil {
		return err
	}
	defer s.Close()

	serverCfg := s.cfg.Server
	if c.Addr != "" {
		serverCfg.Addr = c.Addr
	}
	srv := httpserver.New(serverCfg, s.portal, httpserver.Options{Health: s.client, Registry: registry})
	if err := srv.Start(ctx); err != nil {
		return err
	}

	if s.cfg.Reaper.Enabled && !c.NoReaper {
		r, err := reaper.New(s.client, s.journal, s.cfg.Reaper.TTL, s.cfg.Reaper.Interval, recorder)
		if err != nil {
			return err
		}
		if err := r.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := r.Stop(); err != nil {
				slog.Warn("reaper shutdown error", logfields.Error(err))
			}
		}()
	}

	<-ctx.Done()
	slog.Info("Shutting down web UI...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}
