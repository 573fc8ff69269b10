package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/projectsol/solclient/internal/lint"
	"github.com/projectsol/solclient/internal/preview"
)

// PreviewCmd serves a local writeup and re-renders it on every save.
type PreviewCmd struct {
	File    string `arg:"" help:"Writeup file to watch"`
	Addr    string `default:"127.0.0.1:1314" help:"Listen address"`
	Host    string `help:"host:port substituted for the host placeholder"`
	Trusted bool   `help:"Keep raw markup instead of escaping it"`
	NoLint  bool   `name:"no-lint" help:"Do not log lint issues after each render"`
}

// Run executes the preview command.
func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	opts := preview.Options{Addr: p.Addr, Mission: hostMission(p.Host)}
	if !p.NoLint {
		opts.Linter = lint.NewLinter(&lint.Config{HostPlaceholder: cfg.Writeup.HostPlaceholder})
	}
	pv, err := preview.New(p.File, offlinePortal(cfg, p.Trusted), opts)
	if err != nil {
		return err
	}
	return pv.Run(ctx)
}
