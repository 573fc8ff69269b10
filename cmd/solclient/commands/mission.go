package commands

import (
	"context"
	"fmt"

	"github.com/projectsol/solclient/internal/api"
)

// LaunchCmd implements the 'launch' command.
type LaunchCmd struct {
	ID     string `arg:"" help:"Challenge ID"`
	Format string `short:"f" default:"text" enum:"html,text,json" help:"Writeup output format"`
}

// Run executes the launch command.
func (c *LaunchCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	b, err := s.portal.Launch(context.Background(), c.ID)
	if err != nil {
		return err
	}
	return writeBriefing(g.out(), b, c.Format, textOptions(s.cfg.Writeup))
}

// SubmitCmd implements the 'submit' command.
type SubmitCmd struct {
	ID   string `arg:"" help:"Challenge ID"`
	Flag string `arg:"" help:"Flag to submit"`
	JSON bool   `help:"Print the verdict as JSON"`
}

// Run executes the submit command.
func (c *SubmitCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.portal.Submit(context.Background(), c.ID, c.Flag)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(g.out(), res)
	}
	_, _ = fmt.Fprintln(g.out(), verdict(res))
	return nil
}

func verdict(res *api.SubmitResult) string {
	return verdictMark(res.Correct) + " " + res.Message
}

// StopCmd implements the 'stop' command.
type StopCmd struct {
	Container string `arg:"" help:"Mission container ID"`
}

// Run executes the stop command.
func (c *StopCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.portal.Stop(context.Background(), c.Container); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "mission %s stopped\n", c.Container)
	return nil
}
