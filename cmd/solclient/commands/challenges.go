package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/projectsol/solclient/internal/api"
	"github.com/projectsol/solclient/internal/portal"
	"github.com/projectsol/solclient/internal/writeup"
)

// ChallengesCmd implements the 'challenges' command.
type ChallengesCmd struct {
	JSON bool `help:"Print challenges as JSON"`
}

// Run executes the challenges command.
func (c *ChallengesCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	challenges, err := s.portal.Challenges(context.Background())
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(g.out(), challenges)
	}
	return writeChallengeTable(g.out(), challenges)
}

func writeChallengeTable(w io.Writer, challenges []api.Challenge) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDIFFICULTY\tPOINTS")
	for _, ch := range challenges {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			ch.ID, ch.Title, ch.Category, stars(ch.Difficulty.Level()), ch.Points)
	}
	return tw.Flush()
}

func stars(n int) string {
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	ID     string `arg:"" help:"Challenge ID"`
	Format string `short:"f" default:"text" enum:"html,text,json" help:"Writeup output format"`
}

// Run executes the show command.
func (c *ShowCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	b, err := s.portal.Detail(context.Background(), c.ID)
	if err != nil {
		return err
	}
	return writeBriefing(g.out(), b, c.Format, textOptions(s.cfg.Writeup))
}

func writeBriefing(w io.Writer, b *portal.Briefing, format string, opts writeup.TextOptions) error {
	if format == "json" {
		return printJSON(w, b)
	}
	if format == "text" {
		ch := b.Challenge
		_, _ = fmt.Fprintf(w, "%s [%s] %s %d pts\n", ch.Title, ch.Category, stars(ch.Difficulty.Level()), ch.Points)
		if ch.Description != "" {
			_, _ = fmt.Fprintln(w, ch.Description)
		}
		if tags := ch.AllTags(); len(tags) > 0 {
			_, _ = fmt.Fprintf(w, "tags: %s\n", strings.Join(tags, ", "))
		}
		if b.Mission != nil {
			_, _ = fmt.Fprintf(w, "\n%s\ncontainer: %s\ntarget: %s\n", b.Mission.Message, b.Mission.ContainerID, portal.MissionHost(b.Mission))
		}
		_, _ = fmt.Fprintln(w)
	}
	return writeDocument(w, b.Writeup, format, opts)
}
