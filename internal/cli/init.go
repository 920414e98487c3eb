package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/backlogmd/internal/logging"
	"github.com/yaklabco/backlogmd/pkg/config"
	"github.com/yaklabco/backlogmd/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a backlogmd configuration file",
		Long: `Create a .backlogmd.yml configuration file in the current directory.
Every option is listed with its default value and a short explanation.

Examples:
  backlogmd init                      Create .backlogmd.yml
  backlogmd init --format json        Create .backlogmd.json instead
  backlogmd init --output custom.yml  Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: .backlogmd.yml or .backlogmd.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	if flags.format != "yaml" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".backlogmd.yml"
		if flags.format == formatJSON {
			outputPath = ".backlogmd.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	exists, err := fsutil.Exists(absPath)
	if err != nil {
		return fmt.Errorf("check %s: %w", outputPath, err)
	}
	if exists {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Format: flags.format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := fsutil.WriteAtomic(ctx, absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'backlogmd rules' to see the conversion rules")

	return nil
}
