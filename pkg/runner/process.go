package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/yaklabco/backlogmd/internal/logging"
	"github.com/yaklabco/backlogmd/pkg/config"
	"github.com/yaklabco/backlogmd/pkg/diff"
	"github.com/yaklabco/backlogmd/pkg/encoding"
	"github.com/yaklabco/backlogmd/pkg/fsutil"
	"github.com/yaklabco/backlogmd/pkg/verify"
)

// worker holds the per-goroutine state: its own converter and checker.
type worker struct {
	converter Converter
	checker   *verify.Checker
	cfg       *config.Config
	workDir   string
}

// process converts one source file and, depending on the config, writes,
// prints or only reports the result. Failures are recorded in the outcome.
func (w *worker) process(ctx context.Context, src Source) FileOutcome {
	start := time.Now()
	outcome := w.convert(ctx, src)
	outcome.Duration = time.Since(start)

	logger := logging.FromContext(ctx)
	if outcome.Error != nil {
		logger.Debug("conversion failed", logging.FieldPath, src.Path, logging.FieldError, outcome.Error)
	} else {
		logger.Debug("converted",
			logging.FieldPath, src.Path,
			logging.FieldOutput, outcome.OutputPath,
			logging.FieldStatus, outcome.Status,
			logging.FieldCharset, outcome.Charset,
			logging.FieldDuration, outcome.Duration,
		)
	}

	return outcome
}

func (w *worker) convert(ctx context.Context, src Source) FileOutcome {
	cfg := w.cfg
	outcome := FileOutcome{
		Path:       src.Path,
		OutputPath: OutputPath(src, cfg.OutputExtension, cfg.OutputDir, w.workDir),
	}

	fail := func(err error) FileOutcome {
		outcome.Status = StatusFailed
		outcome.Error = err
		return outcome
	}
	skip := func(reason error) FileOutcome {
		outcome.Status = StatusSkipped
		outcome.Skip = reason
		return outcome
	}

	if !cfg.Stdout && outcome.OutputPath == src.Path {
		return fail(ErrOutputIsSource)
	}

	content, info, err := fsutil.ReadFile(ctx, src.Path)
	if err != nil {
		return fail(err)
	}

	if encoding.IsBinary(content) {
		return skip(ErrBinary)
	}

	decoded, err := encoding.Decode(content, cfg.InputEncoding)
	if err != nil {
		return fail(fmt.Errorf("decode %s: %w", src.Path, err))
	}
	outcome.Charset = decoded.Charset

	result := w.converter.ConvertWithStats(string(decoded.Text))
	outcome.Stats = result.Stats

	if w.checker != nil {
		report := w.checker.Check(result.Markdown, result.Stats)
		outcome.Verification = &report
	}

	if cfg.Stdout {
		outcome.Status = StatusPrinted
		outcome.Markdown = result.Markdown
		return outcome
	}

	exists, err := fsutil.Exists(outcome.OutputPath)
	if err != nil {
		return fail(err)
	}
	if exists && !config.Enabled(cfg.Overwrite) {
		return skip(ErrOutputExists)
	}

	if cfg.DryRun {
		var previous []byte
		if exists {
			previous, _, err = fsutil.ReadFile(ctx, outcome.OutputPath)
			if err != nil {
				return fail(err)
			}
		}
		outcome.Status = StatusDryRun
		outcome.Markdown = result.Markdown
		outcome.Diff = diff.Compute(outcome.OutputPath, previous, []byte(result.Markdown))
		return outcome
	}

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return fail(err)
	}
	if modified {
		return skip(ErrSourceModified)
	}

	if exists && config.Enabled(cfg.Backup) {
		created, err := fsutil.CreateBackup(ctx, outcome.OutputPath)
		if err != nil {
			return fail(err)
		}
		if created {
			outcome.BackupPath = fsutil.BackupPath(outcome.OutputPath)
		}
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, outcome.OutputPath, []byte(result.Markdown), fsutil.DefaultFileMode)
	if err != nil {
		return fail(fmt.Errorf("write %s: %w", outcome.OutputPath, err))
	}

	if written {
		outcome.Status = StatusWritten
	} else {
		outcome.Status = StatusUnchanged
	}
	return outcome
}
