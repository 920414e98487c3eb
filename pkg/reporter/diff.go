package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/backlogmd/internal/ui/pretty"
	"github.com/yaklabco/backlogmd/pkg/diff"
	"github.com/yaklabco/backlogmd/pkg/runner"
)

// DiffReporter prints git-style unified diffs of the outputs a dry run would
// change.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var files, additions, deletions int
	for _, file := range result.Files {
		if file.Status == runner.StatusFailed {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(displayPath(r.opts.WorkingDir, file.Path)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		if !file.Diff.HasChanges() {
			continue
		}

		files++
		additions += file.Diff.Additions
		deletions += file.Diff.Deletions
		r.writeDiff(strings.TrimPrefix(displayPath(r.opts.WorkingDir, file.OutputPath), "/"), file.Diff)
	}

	if r.opts.ShowSummary {
		r.writeSummary(files, additions, deletions)
	}

	return failures(result), nil
}

func (r *DiffReporter) writeDiff(path string, d *diff.Diff) {
	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)))
	fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+++ b/"+path))

	for _, hunk := range d.Hunks {
		fmt.Fprintln(r.bw, r.styles.DiffHunk.Render(hunk.Header()))
		for _, line := range hunk.Lines {
			switch line.Op {
			case diff.Insert:
				fmt.Fprintln(r.bw, r.styles.DiffAdd.Render(line.String()))
			case diff.Delete:
				fmt.Fprintln(r.bw, r.styles.DiffRemove.Render(line.String()))
			default:
				fmt.Fprintln(r.bw, r.styles.DiffContext.Render(line.String()))
			}
		}
	}

	fmt.Fprintln(r.bw)
}

func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	if files == 0 {
		fmt.Fprintln(r.bw, r.styles.Dim.Render("No changes"))
		return
	}

	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}

	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
