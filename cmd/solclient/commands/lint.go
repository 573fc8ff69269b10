package commands

import (
	"fmt"

	"github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Path   string `arg:"" optional:"" default:"." help:"Writeup file or directory to lint"`
	Format string `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
	Quiet  bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	Strict bool   `help:"Fail on warnings as well as errors"`
}

// Run executes the lint command.
func (c *LintCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	linter := lint.NewLinter(&lint.Config{
		Quiet:           c.Quiet,
		Format:          c.Format,
		HostPlaceholder: cfg.Writeup.HostPlaceholder,
	})
	result, err := linter.LintPath(c.Path)
	if err != nil {
		return err
	}

	if err := lint.NewFormatter(c.Format).Format(g.out(), result, c.Path); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "formatting output").Build()
	}

	switch {
	case result.HasErrors():
		return errors.ValidationError(fmt.Sprintf("%d writeup error(s) found", result.ErrorCount())).Build()
	case c.Strict && result.HasWarnings():
		return errors.ValidationError(fmt.Sprintf("%d writeup warning(s) found", result.WarningCount())).Build()
	}
	return nil
}
