// Package commands implements the solclient command line.
package commands

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"

	"github.com/projectsol/solclient/internal/api"
	"github.com/projectsol/solclient/internal/auth"
	"github.com/projectsol/solclient/internal/config"
	"github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/journal"
	"github.com/projectsol/solclient/internal/logfields"
	"github.com/projectsol/solclient/internal/metrics"
	"github.com/projectsol/solclient/internal/portal"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"solclient.yaml" env:"SOL_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render     RenderCmd     `cmd:"" help:"Render a writeup file to html, text or json"`
	Lint       LintCmd       `cmd:"" help:"Check writeups for syntax the renderer does not support"`
	Challenges ChallengesCmd `cmd:"" help:"List available challenges"`
	Show       ShowCmd       `cmd:"" help:"Show a challenge briefing with its writeup"`
	Launch     LaunchCmd     `cmd:"" help:"Start the mission environment for a challenge"`
	Submit     SubmitCmd     `cmd:"" help:"Submit a flag for a challenge"`
	Stop       StopCmd       `cmd:"" help:"Stop a running mission container"`
	History    HistoryCmd    `cmd:"" help:"Show the local mission journal"`
	Reap       ReapCmd       `cmd:"" help:"Stop missions that outlived the configured TTL"`
	Serve      ServeCmd      `cmd:"" help:"Serve the browser client locally"`
	Preview    PreviewCmd    `cmd:"" help:"Preview a local writeup with live reload"`
	Init       InitCmd       `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; the logger it installs is replaced once a
// command loads the config and its log section.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(config.LoggingConfig{}.NewLogger(os.Stderr, c.Verbose))
	return nil
}

// loadConfig reads the configuration and reinstalls the default logger from its log section.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr, root.Verbose))
	return cfg, nil
}

// session holds the online collaborators of a command.
type session struct {
	cfg     *config.Config
	client  *api.Client
	journal *journal.Store
	portal  *portal.Service
}

type sessionOptions struct {
	cfg      *config.Config // loaded from --config when nil
	recorder metrics.Recorder
}

// openSession connects the API client and opens the journal.
func openSession(root *CLI, opts sessionOptions) (*session, error) {
	cfg := opts.cfg
	if cfg == nil {
		var err error
		if cfg, err = loadConfig(root); err != nil {
			return nil, err
		}
	}
	if err := cfg.RequireAPI(); err != nil {
		return nil, err
	}

	tokens, err := auth.FromConfig(cfg.Auth, &http.Client{Timeout: cfg.API.Timeout})
	if err != nil {
		return nil, err
	}
	clientOpts := []api.Option{}
	if opts.recorder != nil {
		clientOpts = append(clientOpts, api.WithRecorder(opts.recorder))
	}
	client, err := api.NewFromConfig(cfg, tokens, clientOpts...)
	if err != nil {
		return nil, err
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:     cfg,
		client:  client,
		journal: store,
		portal:  portal.NewService(client, store, cfg.Writeup, opts.recorder),
	}, nil
}

func (s *session) Close() {
	if err := s.journal.Close(); err != nil {
		slog.Warn("failed to close journal", logfields.Error(err))
	}
}

// offlinePortal renders writeups without touching the platform.
func offlinePortal(cfg *config.Config, trusted bool) *portal.Service {
	wc := cfg.Writeup
	wc.Trusted = wc.Trusted || trusted
	return portal.NewService(nil, nil, wc, nil)
}

// hostMission turns a --host value into a mission for placeholder substitution.
func hostMission(host string) *api.Mission {
	if host == "" {
		return nil
	}
	return &api.Mission{URL: "http://" + host}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode output").Build()
	}
	return nil
}
