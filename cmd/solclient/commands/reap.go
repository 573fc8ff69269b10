package commands

import (
	"context"
	"fmt"

	"github.com/projectsol/solclient/internal/reaper"
)

// ReapCmd implements the 'reap' command: one sweep of the reaper.
type ReapCmd struct{}

// Run executes the reap command.
func (c *ReapCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := reaper.New(s.client, s.journal, s.cfg.Reaper.TTL, s.cfg.Reaper.Interval, nil)
	if err != nil {
		return err
	}
	n, err := r.Sweep(context.Background())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "%d expired mission(s) stopped\n", n)
	return nil
}
