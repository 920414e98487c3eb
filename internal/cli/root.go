// Package cli wires the backlogmd commands: convert, rules, init and version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/backlogmd/internal/logging"
)

// BuildInfo is stamped into main by the linker.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand returns the backlogmd command tree. Flag parse failures
// are wrapped in ErrUsage.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var (
		debug      bool
		configPath string
		color      string
	)

	root := &cobra.Command{
		Use:   "backlogmd",
		Short: "Convert Backlog wiki notation to Markdown",
		Long: `backlogmd converts documents written in Backlog wiki notation into
GitHub-flavored Markdown.

It handles headings, tables, ordered and unordered lists, code and quote
blocks, and inline emphasis, links, and embeds. Whole directory trees can be
converted in parallel, with Shift_JIS and other legacy encodings decoded on
the way in.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&configPath, "config", "", "path to config file")
	pf.StringVar(&color, "color", "auto", "colorize output: auto, always, never")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	root.AddCommand(
		newConvertCommand(),
		newRulesCommand(),
		newInitCommand(),
		newVersionCommand(info),
	)

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(root)
	return root
}
