package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/projectsol/solclient/internal/journal"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" default:"20" help:"Number of entries to show"`
	JSON  bool `help:"Print entries as JSON"`
}

// Run executes the history command.
func (c *HistoryCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.portal.History(context.Background(), c.Limit)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(g.out(), entries)
	}
	return writeHistory(g.out(), entries)
}

func writeHistory(w io.Writer, entries []journal.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "WHEN\tEVENT\tCHALLENGE\tDETAIL")
	for _, e := range entries {
		detail := e.Detail
		switch e.Kind {
		case journal.EntryMissionStarted, journal.EntryMissionStopped:
			detail = e.ContainerID + " " + detail
		case journal.EntrySubmission:
			detail = verdictMark(e.Correct) + " " + detail
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.At.Local().Format(time.DateTime), e.Kind, e.ChallengeID, detail)
	}
	return tw.Flush()
}

func verdictMark(correct bool) string {
	if correct {
		return "✓"
	}
	return "✗"
}
