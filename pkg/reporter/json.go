package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/backlogmd/pkg/runner"
	"github.com/yaklabco/backlogmd/pkg/verify"
)

// jsonSchemaVersion identifies the layout of JSONOutput.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path         string         `json:"path"`
	Output       string         `json:"output,omitempty"`
	Status       string         `json:"status"`
	Charset      string         `json:"charset,omitempty"`
	Blocks       JSONBlocks     `json:"blocks"`
	Verification *verify.Report `json:"verification,omitempty"`
	Backup       string         `json:"backup,omitempty"`
	Markdown     string         `json:"markdown,omitempty"`
	Diff         string         `json:"diff,omitempty"`
	Skipped      string         `json:"skipped,omitempty"`
	Error        string         `json:"error,omitempty"`
	DurationMS   int64          `json:"durationMs"`
}

// JSONBlocks counts the blocks masked during conversion.
type JSONBlocks struct {
	Code       int `json:"code"`
	Quotes     int `json:"quotes"`
	Paragraphs int `json:"paragraphs"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered   int        `json:"filesDiscovered"`
	FilesConverted    int        `json:"filesConverted"`
	FilesWritten      int        `json:"filesWritten"`
	FilesUnchanged    int        `json:"filesUnchanged"`
	FilesSkipped      int        `json:"filesSkipped"`
	FilesErrored      int        `json:"filesErrored"`
	FilesWithWarnings int        `json:"filesWithWarnings"`
	Blocks            JSONBlocks `json:"blocks"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesErrored, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		entry := JSONFileResult{
			Path:         displayPath(r.opts.WorkingDir, file.Path),
			Output:       displayPath(r.opts.WorkingDir, file.OutputPath),
			Status:       string(file.Status),
			Charset:      file.Charset,
			Verification: file.Verification,
			Backup:       displayPath(r.opts.WorkingDir, file.BackupPath),
			Markdown:     file.Markdown,
			DurationMS:   file.Duration.Milliseconds(),
			Blocks: JSONBlocks{
				Code:       file.Stats.CodeBlocks,
				Quotes:     file.Stats.QuoteBlocks,
				Paragraphs: file.Stats.Paragraphs,
			},
		}
		if file.Diff.HasChanges() {
			labeled := *file.Diff
			labeled.Path = entry.Output
			entry.Diff = labeled.String()
		}
		if file.Skip != nil {
			entry.Skipped = file.Skip.Error()
		}
		if file.Error != nil {
			entry.Error = file.Error.Error()
		}
		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered:   stats.FilesDiscovered,
		FilesConverted:    stats.FilesConverted,
		FilesWritten:      stats.FilesWritten,
		FilesUnchanged:    stats.FilesUnchanged,
		FilesSkipped:      stats.FilesSkipped,
		FilesErrored:      stats.FilesErrored,
		FilesWithWarnings: stats.FilesWithWarnings,
		Blocks: JSONBlocks{
			Code:       stats.Blocks.CodeBlocks,
			Quotes:     stats.Blocks.QuoteBlocks,
			Paragraphs: stats.Blocks.Paragraphs,
		},
	}

	return output
}
