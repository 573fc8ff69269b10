// Package version carries build metadata injected at link time:
//
//	go build -ldflags "-X github.com/projectsol/solclient/internal/version.Version=v0.3.0"
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String formats the build metadata for --version output.
func String() string {
	return fmt.Sprintf("solclient %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}

// UserAgent is sent with every platform request.
func UserAgent() string {
	return "solclient/" + Version
}
