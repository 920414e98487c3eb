package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/backlogmd/pkg/diff"
	"github.com/yaklabco/backlogmd/pkg/notation"
	"github.com/yaklabco/backlogmd/pkg/reporter"
	"github.com/yaklabco/backlogmd/pkg/runner"
	"github.com/yaklabco/backlogmd/pkg/verify"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "unknown format", input: "xml", wantErr: true},
		{name: "sarif is not supported", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, reporter.FormatText.IsValid())
	assert.True(t, reporter.FormatTable.IsValid())
	assert.True(t, reporter.FormatJSON.IsValid())
	assert.True(t, reporter.FormatDiff.IsValid())
	assert.False(t, reporter.Format("unknown").IsValid())
	assert.False(t, reporter.Format("").IsValid())
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  reporter.Format
		want    any
		wantErr bool
	}{
		{format: "", want: &reporter.TextReporter{}},
		{format: reporter.FormatText, want: &reporter.TextReporter{}},
		{format: reporter.FormatTable, want: &reporter.TableReporter{}},
		{format: reporter.FormatJSON, want: &reporter.JSONReporter{}},
		{format: reporter.FormatDiff, want: &reporter.DiffReporter{}},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: tt.format})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, rep)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := reporter.DefaultOptions()

	assert.NotNil(t, opts.Writer)
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowSummary)
	assert.False(t, opts.Quiet)
}

func TestTextReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, "No files to convert\n", buf.String())
}

func TestTextReporter_Outcomes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  "/work",
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"a.bl -> a.md  written  2 code blocks, 1 quote, 3 paragraphs  (shift_jis)",
		"b.bl -> b.md  skipped: output exists",
		"c.bl: error: boom",
		"d.bl -> d.md  unchanged",
		"  warning: found no block quotes, expected 1",
		"Converted 2 files (1 written, 1 unchanged), 1 skipped, 1 failed, 1 file with warnings",
	}, lines)
}

func TestTextReporter_Quiet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:     &buf,
		Color:      "never",
		Quiet:      true,
		WorkingDir: "/work",
	})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	output := buf.String()
	assert.NotContains(t, output, "a.bl")
	assert.Contains(t, output, "b.bl")
	assert.Contains(t, output, "c.bl")
	assert.Contains(t, output, "d.bl")
	assert.NotContains(t, output, "Converted")
}

func TestTextReporter_Backup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", WorkingDir: "/work"})

	result := &runner.Result{
		Files: []runner.FileOutcome{{
			Path:       "/work/a.bl",
			OutputPath: "/work/a.md",
			Status:     runner.StatusWritten,
			Charset:    "utf-8",
			BackupPath: "/work/a.md.backlogmd.bak",
		}},
	}

	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, "a.bl -> a.md  written  backup: a.md.backlogmd.bak\n", buf.String())
}

func TestTableReporter_Outcomes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTableReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  "/work",
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	assert.Contains(t, output, "SOURCE")
	assert.Contains(t, output, "a.bl")
	assert.Contains(t, output, "output exists")
	assert.Contains(t, output, "Summary")
	assert.Contains(t, output, "Conversion failed for some files")
}

func TestTableReporter_EmptyResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTableReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	_, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Equal(t, "No files to convert\n", buf.String())
}

func TestJSONReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "1.0.0", output.Version)
	assert.Empty(t, output.Files)
	assert.Contains(t, buf.String(), `"files": []`)
}

func TestJSONReporter_Outcomes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: "/work"})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Files, 4)

	written := output.Files[0]
	assert.Equal(t, "a.bl", written.Path)
	assert.Equal(t, "a.md", written.Output)
	assert.Equal(t, "written", written.Status)
	assert.Equal(t, "shift_jis", written.Charset)
	assert.Equal(t, reporter.JSONBlocks{Code: 2, Quotes: 1, Paragraphs: 3}, written.Blocks)

	assert.Equal(t, "output exists", output.Files[1].Skipped)
	assert.Equal(t, "boom", output.Files[2].Error)

	require.NotNil(t, output.Files[3].Verification)
	assert.Equal(t, []string{"found no block quotes, expected 1"}, output.Files[3].Verification.Warnings)

	assert.Equal(t, reporter.JSONSummary{
		FilesDiscovered:   4,
		FilesConverted:    2,
		FilesWritten:      1,
		FilesUnchanged:    1,
		FilesSkipped:      1,
		FilesErrored:      1,
		FilesWithWarnings: 1,
		Blocks:            reporter.JSONBlocks{Code: 2, Quotes: 1, Paragraphs: 3},
	}, output.Summary)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestJSONReporter_IncludesMarkdownForDryRun(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	result := &runner.Result{
		Files: []runner.FileOutcome{{
			Path:     "a.bl",
			Status:   runner.StatusDryRun,
			Markdown: "# Title\n",
		}},
	}

	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "# Title\n", output.Files[0].Markdown)
	assert.Equal(t, "dry-run", output.Files[0].Status)
}

func TestDiffReporter_Outcomes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  "/work",
	})

	result := &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:       "/work/a.bl",
				OutputPath: "/work/a.md",
				Status:     runner.StatusDryRun,
				Diff:       diff.Compute("/work/a.md", []byte("# Old\nbody\n"), []byte("# New\nbody\n")),
			},
			{
				Path:       "/work/b.bl",
				OutputPath: "/work/b.md",
				Status:     runner.StatusDryRun,
			},
			{
				Path:   "/work/c.bl",
				Status: runner.StatusFailed,
				Error:  errors.New("boom"),
			},
		},
		Stats: runner.Stats{FilesErrored: 1},
	}

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, "diff --git a/a.md b/a.md\n"+
		"--- a/a.md\n"+
		"+++ b/a.md\n"+
		"@@ -1,2 +1,2 @@\n"+
		"-# Old\n"+
		"+# New\n"+
		" body\n"+
		"\n"+
		"c.bl: error: boom\n"+
		"1 file changed, 1 insertion(+), 1 deletion(-)\n",
		buf.String())
}

func TestDiffReporter_NoChanges(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	_, err := rep.Report(context.Background(), &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.bl", OutputPath: "a.md", Status: runner.StatusDryRun}},
	})
	require.NoError(t, err)
	assert.Equal(t, "No changes\n", buf.String())
}

func TestTextReporter_DryRunDiffStats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", WorkingDir: "/work"})

	_, err := rep.Report(context.Background(), &runner.Result{
		Files: []runner.FileOutcome{{
			Path:       "/work/a.bl",
			OutputPath: "/work/a.md",
			Status:     runner.StatusDryRun,
			Charset:    "utf-8",
			Diff:       diff.Compute("/work/a.md", nil, []byte("# A\n\nb\n")),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a.bl -> a.md  dry-run  +3 -0\n", buf.String())
}

func TestJSONReporter_IncludesDiff(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: "/work"})

	_, err := rep.Report(context.Background(), &runner.Result{
		Files: []runner.FileOutcome{{
			Path:       "/work/a.bl",
			OutputPath: "/work/a.md",
			Status:     runner.StatusDryRun,
			Diff:       diff.Compute("/work/a.md", []byte("x\n"), []byte("y\n")),
		}},
	})
	require.NoError(t, err)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "--- a/a.md\n+++ b/a.md\n@@ -1,1 +1,1 @@\n-x\n+y\n", output.Files[0].Diff)
}

func createTestResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:       "/work/a.bl",
				OutputPath: "/work/a.md",
				Status:     runner.StatusWritten,
				Charset:    "shift_jis",
				Stats:      notation.Stats{CodeBlocks: 2, CodeRestored: 2, QuoteBlocks: 1, QuotesRestored: 1, Paragraphs: 3, ParagraphsRestored: 3},
			},
			{
				Path:       "/work/b.bl",
				OutputPath: "/work/b.md",
				Status:     runner.StatusSkipped,
				Skip:       runner.ErrOutputExists,
			},
			{
				Path:       "/work/c.bl",
				OutputPath: "/work/c.md",
				Status:     runner.StatusFailed,
				Error:      errors.New("boom"),
			},
			{
				Path:         "/work/d.bl",
				OutputPath:   "/work/d.md",
				Status:       runner.StatusUnchanged,
				Charset:      "utf-8",
				Verification: &verify.Report{Warnings: []string{"found no block quotes, expected 1"}},
			},
		},
		Stats: runner.Stats{
			FilesDiscovered:   4,
			FilesConverted:    2,
			FilesWritten:      1,
			FilesUnchanged:    1,
			FilesSkipped:      1,
			FilesErrored:      1,
			FilesWithWarnings: 1,
			Blocks:            notation.Stats{CodeBlocks: 2, QuoteBlocks: 1, Paragraphs: 3},
		},
	}
}
