package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/backlogmd/internal/configloader"
	"github.com/yaklabco/backlogmd/internal/logging"
	"github.com/yaklabco/backlogmd/pkg/config"
	"github.com/yaklabco/backlogmd/pkg/encoding"
	"github.com/yaklabco/backlogmd/pkg/notation"
	"github.com/yaklabco/backlogmd/pkg/reporter"
	"github.com/yaklabco/backlogmd/pkg/runner"
	"github.com/yaklabco/backlogmd/pkg/verify"
)

// stdinArg names standard input as the source.
const stdinArg = "-"

type convertFlags struct {
	crlf           bool
	promoteHeader  bool
	detectLanguage bool
	verify         bool
	overwrite      bool
	backup         bool
	dryRun         bool
	stdout         bool
	quiet          bool
	followSymlinks bool
	compact        bool
	encoding       string
	extensions     []string
	outputExt      string
	outputDir      string
	ignore         []string
	jobs           int
	format         string
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert Backlog files to Markdown",
		Long:  convertLongDescription + "\n\n" + envHelp(),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	addConvertFlags(cmd, flags)

	return cmd
}

const convertLongDescription = `Convert Backlog wiki notation files to Markdown.

By default, converts every .backlog and .bl file below the current directory,
writing <name>.md next to each source. Existing outputs are left alone unless
--overwrite is given. With no paths and piped input, or with "-" as the only
path, standard input is converted to standard output.

Examples:
  backlogmd convert                        # Convert the current directory
  backlogmd convert wiki/                  # Convert a directory tree
  backlogmd convert page.bl --stdout       # Print the Markdown instead of writing
  backlogmd convert wiki/ --output-dir md/ # Mirror the tree under md/
  backlogmd convert --overwrite --backup   # Replace outputs, keeping a copy
  cat page.bl | backlogmd convert          # Convert standard input
  backlogmd convert --format json          # Machine-readable report`

// envHelp lists the BACKLOGMD_* variables, aligned, in name order.
func envHelp() string {
	vars := configloader.ListEnvVars()
	names := slices.Sorted(maps.Keys(vars))
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	var b strings.Builder
	b.WriteString("Environment:")
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %-*s  %s", width, name, vars[name])
	}
	return b.String()
}

func addConvertFlags(cmd *cobra.Command, flags *convertFlags) {
	cmd.Flags().BoolVar(&flags.crlf, "crlf", false, "write CRLF line endings")
	cmd.Flags().BoolVar(&flags.promoteHeader, "promote-header", false,
		"use the first row of a header-less table as its header")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false,
		"tag fenced code blocks with a detected language")
	cmd.Flags().StringVar(&flags.encoding, "encoding", "",
		"charset of sources that are not UTF-8, or \"auto\" (default shift_jis)")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil,
		"source extensions picked up from directories (default .backlog,.bl)")
	cmd.Flags().StringVar(&flags.outputExt, "output-ext", "", "extension of written files (default .md)")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "write outputs under this directory")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVar(&flags.format, "format", "", "report format: text, table, json, diff (diff implies --dry-run)")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "parse each output and report lost structure")
	cmd.Flags().BoolVar(&flags.overwrite, "overwrite", false, "replace existing output files")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "back up outputs before overwriting them")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "convert without writing any files")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "print Markdown to stdout instead of writing files")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "only report files that need attention")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
}

// cliConfig builds the CLI configuration layer. Switches are only set when
// the flag was given so that config files can turn them on.
func cliConfig(cmd *cobra.Command, flags *convertFlags) *config.Config {
	cfg := &config.Config{
		InputEncoding:   flags.encoding,
		Extensions:      flags.extensions,
		OutputExtension: flags.outputExt,
		OutputDir:       flags.outputDir,
		Ignore:          flags.ignore,
		Jobs:            flags.jobs,
		Format:          config.OutputFormat(flags.format),
		Stdout:          flags.stdout,
		DryRun:          flags.dryRun,
	}

	switches := []struct {
		name  string
		value bool
		field **bool
	}{
		{"crlf", flags.crlf, &cfg.CRLF},
		{"promote-header", flags.promoteHeader, &cfg.PromoteHeader},
		{"detect-language", flags.detectLanguage, &cfg.DetectCodeLanguage},
		{"verify", flags.verify, &cfg.Verify},
		{"overwrite", flags.overwrite, &cfg.Overwrite},
		{"backup", flags.backup, &cfg.Backup},
	}
	for _, sw := range switches {
		if cmd.Flags().Changed(sw.name) {
			*sw.field = config.Bool(sw.value)
		}
	}

	return cfg
}

func runConvert(cmd *cobra.Command, args []string, flags *convertFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliConfig(cmd, flags),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	if cfg.Format == config.FormatDiff {
		cfg.DryRun = true
	}
	logger.Debug("configuration loaded",
		logging.FieldCharset, cfg.InputEncoding,
		logging.FieldOverwrite, config.Enabled(cfg.Overwrite),
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	useStdin, err := wantsStdin(cmd, args)
	if err != nil {
		return err
	}
	if useStdin {
		return convertStdin(ctx, cmd, cfg)
	}

	return convertFiles(ctx, cmd, args, workDir, cfg, flags)
}

// wantsStdin reports whether the run reads standard input: either "-" is
// the only path, or no path was given and input is piped.
func wantsStdin(cmd *cobra.Command, args []string) (bool, error) {
	if slices.Contains(args, stdinArg) {
		if len(args) > 1 {
			return false, fmt.Errorf("%w: %q cannot be combined with other paths", ErrUsage, stdinArg)
		}
		return true, nil
	}
	return len(args) == 0 && isPiped(cmd.InOrStdin()), nil
}

// isPiped reports whether r is a pipe or redirected file rather than a
// terminal or a character device such as /dev/null.
func isPiped(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	if term.IsTerminal(int(file.Fd())) {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeNamedPipe != 0 || info.Mode().IsRegular()
}

func convertStdin(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logger := logging.FromContext(ctx)

	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	decoded, err := encoding.Decode(content, cfg.InputEncoding)
	if err != nil {
		return fmt.Errorf("decode stdin: %w", err)
	}
	logger.Debug("decoded stdin", logging.FieldCharset, decoded.Charset)

	result := notation.New(cfg.NotationOptions()).ConvertWithStats(string(decoded.Text))

	if config.Enabled(cfg.Verify) {
		report := verify.Check(result.Markdown, result.Stats)
		for _, warning := range report.Warnings {
			logger.Warn("verification", logging.FieldPath, stdinArg, logging.FieldWarnings, warning)
		}
	}

	if cfg.DryRun {
		return nil
	}

	if _, err := io.WriteString(cmd.OutOrStdout(), result.Markdown); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}

func convertFiles(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
	workDir string,
	cfg *config.Config,
	flags *convertFlags,
) error {
	logger := logging.FromContext(ctx)

	runOpts := runner.OptionsFromConfig(args, cfg)
	runOpts.WorkingDir = workDir
	runOpts.FollowSymlinks = flags.followSymlinks

	logger.Debug("starting conversion run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(runner.NotationFactory(cfg.NotationOptions())).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("conversion run: %w", err)
	}

	reportWriter := cmd.OutOrStdout()
	if cfg.Stdout {
		if err := printMarkdown(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		reportWriter = cmd.ErrOrStderr()
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      reportWriter,
		Format:      format,
		Color:       colorMode,
		ShowSummary: true,
		Quiet:       flags.quiet,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrConversionFailed
	}
	return nil
}

// printMarkdown writes the Markdown of every printed outcome in order,
// keeping documents on separate lines.
func printMarkdown(w io.Writer, result *runner.Result) error {
	var errs []error
	for _, file := range result.Files {
		if file.Status != runner.StatusPrinted {
			continue
		}
		text := file.Markdown
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		if _, err := io.WriteString(w, text); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", file.Path, err))
		}
	}
	return errors.Join(errs...)
}
