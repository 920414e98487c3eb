package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/backlogmd/internal/ui/pretty"
	"github.com/yaklabco/backlogmd/pkg/encoding"
	"github.com/yaklabco/backlogmd/pkg/notation"
	"github.com/yaklabco/backlogmd/pkg/runner"
)

// TextReporter formats results as styled terminal output, one line per file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(runner.Stats{}))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		if r.opts.Quiet && isClean(file) {
			continue
		}
		r.writeOutcome(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return failures(result), nil
}

func (r *TextReporter) writeOutcome(file runner.FileOutcome) {
	src := r.styles.FilePath.Render(displayPath(r.opts.WorkingDir, file.Path))

	if file.Status == runner.StatusFailed {
		fmt.Fprintf(r.bw, "%s: %s\n", src, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
		return
	}

	var line strings.Builder
	line.WriteString(src)
	if file.OutputPath != "" {
		line.WriteString(" ")
		line.WriteString(r.styles.Arrow.Render("->"))
		line.WriteString(" ")
		line.WriteString(r.styles.FilePath.Render(displayPath(r.opts.WorkingDir, file.OutputPath)))
	}
	line.WriteString("  ")
	line.WriteString(r.styles.FormatStatus(file.Status))

	if file.Status == runner.StatusSkipped {
		if file.Skip != nil {
			line.WriteString(": ")
			line.WriteString(r.styles.Message.Render(file.Skip.Error()))
		}
		fmt.Fprintln(r.bw, line.String())
		return
	}

	if counts := formatCounts(file.Stats); counts != "" {
		line.WriteString("  ")
		line.WriteString(r.styles.Counts.Render(counts))
	}
	if file.Charset != "" && file.Charset != encoding.UTF8 {
		line.WriteString("  ")
		line.WriteString(r.styles.Dim.Render("(" + file.Charset + ")"))
	}
	if file.BackupPath != "" {
		line.WriteString("  ")
		line.WriteString(r.styles.Dim.Render("backup: " + displayPath(r.opts.WorkingDir, file.BackupPath)))
	}
	if file.Diff.HasChanges() {
		line.WriteString("  ")
		line.WriteString(r.styles.DiffAdd.Render(fmt.Sprintf("+%d", file.Diff.Additions)))
		line.WriteString(" ")
		line.WriteString(r.styles.DiffRemove.Render(fmt.Sprintf("-%d", file.Diff.Deletions)))
	}
	fmt.Fprintln(r.bw, line.String())

	for _, warning := range file.Warnings() {
		fmt.Fprintf(r.bw, "  %s %s\n", r.styles.Warning.Render("warning:"), r.styles.Message.Render(warning))
	}
}

// isClean reports whether an outcome needs no attention.
func isClean(file runner.FileOutcome) bool {
	switch file.Status {
	case runner.StatusFailed, runner.StatusSkipped:
		return false
	default:
		return len(file.Warnings()) == 0
	}
}

// formatCounts renders the masked block counts, omitting zeros.
func formatCounts(stats notation.Stats) string {
	var parts []string
	add := func(n int, one, many string) {
		switch {
		case n == 1:
			parts = append(parts, "1 "+one)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %s", n, many))
		}
	}
	add(stats.CodeBlocks, "code block", "code blocks")
	add(stats.QuoteBlocks, "quote", "quotes")
	add(stats.Paragraphs, "paragraph", "paragraphs")
	return strings.Join(parts, ", ")
}
