// Command backlogmd converts Backlog wiki notation to Markdown.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/backlogmd/internal/cli"
	"github.com/yaklabco/backlogmd/internal/logging"
)

// Set with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // Linker-stamped build info.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date}).Execute()

	// Per-file failures have been reported already.
	if err != nil && !errors.Is(err, cli.ErrConversionFailed) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}
	os.Exit(cli.ExitCode(err))
}
