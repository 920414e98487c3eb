package reporter

import (
	"io"
	"os"
)

// bufWriterSize sizes the buffered writer every reporter wraps around
// Options.Writer.
const bufWriterSize = 64 << 10

// Options controls what a Reporter prints and where.
type Options struct {
	Writer io.Writer
	Format Format

	// Color is "auto", "always" or "never".
	Color string

	ShowSummary bool

	// Quiet hides files that converted cleanly. Skips, failures and
	// verification warnings are still printed.
	Quiet bool

	// Compact writes single-line JSON.
	Compact bool

	// WorkingDir, when set, shortens printed paths below it.
	WorkingDir string
}

// DefaultOptions prints a text report with a summary to stderr.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		ShowSummary: true,
	}
}
