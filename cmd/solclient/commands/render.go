package commands

import (
	"io"
	"os"

	"github.com/projectsol/solclient/internal/config"
	"github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/writeup"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	File    string `arg:"" help:"Writeup file to render, or - for stdin"`
	Format  string `short:"f" default:"text" enum:"html,text,json" help:"Output format (html, text or json)"`
	Host    string `help:"host:port substituted for the host placeholder"`
	Trusted bool   `help:"Keep raw markup instead of escaping it"`
	Width   int    `help:"Wrap width for text output (0 uses the configured width)"`
}

// Run executes the render command.
func (c *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	source, err := readSource(c.File)
	if err != nil {
		return err
	}

	doc := offlinePortal(cfg, c.Trusted).Writeup(string(source), hostMission(c.Host))
	opts := textOptions(cfg.Writeup)
	opts.Sanitized = opts.Sanitized && !c.Trusted
	if c.Width > 0 {
		opts.Width = c.Width
	}
	return writeDocument(g.out(), doc, c.Format, opts)
}

// textOptions matches terminal output to how the portal prepared the writeup.
func textOptions(wc config.WriteupConfig) writeup.TextOptions {
	return writeup.TextOptions{Width: wc.Width, Sanitized: !wc.Trusted}
}

func readSource(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot read writeup").
			WithContext("path", path).
			Build()
	}
	return data, nil
}

func writeDocument(w io.Writer, doc writeup.Document, format string, opts writeup.TextOptions) error {
	var err error
	switch format {
	case "html":
		err = writeup.WriteHTML(w, doc)
	case "json":
		return printJSON(w, doc)
	default:
		err = writeup.WriteText(w, doc, opts)
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").Build()
	}
	return nil
}
