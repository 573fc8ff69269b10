package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/projectsol/solclient/cmd/solclient/commands"
	"github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("solclient"),
		kong.Description("Terminal and browser client for the Project Sol challenge platform."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout})
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
