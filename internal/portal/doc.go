// Package portal is the agent-facing service behind the CLI and the local web UI.
//
// It joins the platform API client, the local mission journal and the writeup
// renderer: launching a mission records it locally and returns the challenge
// writeup with the container host filled in; submitting a flag records the verdict.
package portal
