package runner

import (
	"errors"
	"time"

	"github.com/yaklabco/backlogmd/pkg/diff"
	"github.com/yaklabco/backlogmd/pkg/notation"
	"github.com/yaklabco/backlogmd/pkg/verify"
)

// Reasons a file was skipped, for use with errors.Is.
var (
	// ErrOutputExists means the output file exists and overwriting is off.
	ErrOutputExists = errors.New("output exists")

	// ErrBinary means the source looks like binary data.
	ErrBinary = errors.New("binary content")

	// ErrSourceModified means the source changed while it was converted.
	ErrSourceModified = errors.New("source modified during conversion")

	// ErrOutputConflict means two sources map to the same output path.
	ErrOutputConflict = errors.New("output path shared with another source")

	// ErrOutputIsSource means the output path is the source file itself.
	ErrOutputIsSource = errors.New("output path is the source file")
)

// Status describes what happened to one source file.
type Status string

const (
	// StatusWritten means the output was created or replaced.
	StatusWritten Status = "written"

	// StatusUnchanged means the output already held the converted Markdown.
	StatusUnchanged Status = "unchanged"

	// StatusDryRun means the file was converted but nothing was written.
	StatusDryRun Status = "dry-run"

	// StatusPrinted means the Markdown was kept for printing instead of written.
	StatusPrinted Status = "printed"

	// StatusSkipped means the file was not converted or not written; see Skip.
	StatusSkipped Status = "skipped"

	// StatusFailed means the file could not be processed; see Error.
	StatusFailed Status = "failed"
)

// FileOutcome is the result of processing one source file.
type FileOutcome struct {
	// Path is the source file path.
	Path string

	// OutputPath is where the Markdown is (or would be) written.
	OutputPath string

	// Status summarizes the outcome.
	Status Status

	// Charset is the charset the source was decoded from.
	Charset string

	// Stats are the conversion block counts.
	Stats notation.Stats

	// Verification is set when verification is enabled.
	Verification *verify.Report

	// Markdown holds the output for printed and dry-run outcomes.
	Markdown string

	// Diff compares a dry-run's Markdown with the output on disk.
	// It is nil when nothing would change.
	Diff *diff.Diff

	// BackupPath is set when an existing output was backed up.
	BackupPath string

	// Skip is the reason for a skipped outcome.
	Skip error

	// Error is set if the file could not be processed.
	Error error

	// Duration is the time spent on the file.
	Duration time.Duration
}

// Warnings returns the verification warnings for the file.
func (o FileOutcome) Warnings() []string {
	if o.Verification == nil {
		return nil
	}
	return o.Verification.Warnings
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesConverted is the number of files that were converted.
	// Skipped and failed files are not counted.
	FilesConverted int

	// FilesWritten is the number of outputs created or replaced.
	FilesWritten int

	// FilesUnchanged is the number of outputs that already matched.
	FilesUnchanged int

	// FilesSkipped is the number of files skipped.
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesWithWarnings is the number of files with verification warnings.
	FilesWithWarnings int

	// Blocks totals the conversion block counts over all converted files.
	Blocks notation.Stats
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// HasWarnings reports whether any file has verification warnings.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesWithWarnings > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch outcome.Status {
	case StatusFailed:
		r.Stats.FilesErrored++
		return
	case StatusSkipped:
		r.Stats.FilesSkipped++
		return
	case StatusWritten:
		r.Stats.FilesWritten++
	case StatusUnchanged:
		r.Stats.FilesUnchanged++
	case StatusDryRun, StatusPrinted:
	}

	r.Stats.FilesConverted++
	r.Stats.Blocks = addStats(r.Stats.Blocks, outcome.Stats)

	if len(outcome.Warnings()) > 0 {
		r.Stats.FilesWithWarnings++
	}
}

func addStats(a, b notation.Stats) notation.Stats {
	return notation.Stats{
		CodeBlocks:         a.CodeBlocks + b.CodeBlocks,
		CodeRestored:       a.CodeRestored + b.CodeRestored,
		QuoteBlocks:        a.QuoteBlocks + b.QuoteBlocks,
		QuotesRestored:     a.QuotesRestored + b.QuotesRestored,
		Paragraphs:         a.Paragraphs + b.Paragraphs,
		ParagraphsRestored: a.ParagraphsRestored + b.ParagraphsRestored,
	}
}
