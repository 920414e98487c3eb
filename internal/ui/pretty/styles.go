// Package pretty renders the styled pieces of backlogmd's terminal output.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/backlogmd/pkg/runner"
)

// Styles holds the lipgloss styles shared by the reporters, the summary
// box and the rules listing.
type Styles struct {
	Error, Warning, Info lipgloss.Style

	// One line per file: path, arrow, output path, counts, message.
	FilePath, Arrow, Counts, Message lipgloss.Style

	// Outcome statuses.
	Written, Unchanged, Skipped, Failed lipgloss.Style

	RuleName, Section lipgloss.Style

	SummaryTitle, SummaryValue, Success, Failure lipgloss.Style

	TableHeader, TableSeparator lipgloss.Style

	DiffHeader, DiffAdd, DiffRemove, DiffHunk, DiffContext lipgloss.Style

	Dim, Bold lipgloss.Style
}

// ANSI palette indexes.
const (
	gray    = "8"
	red     = "9"
	green   = "10"
	yellow  = "11"
	blue    = "12"
	cyan    = "14"
	silver  = "7"
	noColor = ""
)

// NewStyles returns the colored styles, or plain ones that render text
// unchanged when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	style := func(fg string, attrs ...func(lipgloss.Style) lipgloss.Style) lipgloss.Style {
		st := lipgloss.NewStyle()
		if !colorEnabled {
			return st
		}
		if fg != noColor {
			st = st.Foreground(lipgloss.Color(fg))
		}
		for _, attr := range attrs {
			st = attr(st)
		}
		return st
	}
	bold := func(st lipgloss.Style) lipgloss.Style { return st.Bold(true) }
	underline := func(st lipgloss.Style) lipgloss.Style { return st.Underline(true) }

	return &Styles{
		Error:   style(red, bold),
		Warning: style(yellow, bold),
		Info:    style(blue, bold),

		FilePath: style(noColor, bold),
		Arrow:    style(gray),
		Counts:   style(gray),
		Message:  style(noColor),

		Written:   style(green),
		Unchanged: style(gray),
		Skipped:   style(yellow),
		Failed:    style(red, bold),

		RuleName: style(cyan),
		Section:  style(noColor, bold, underline),

		SummaryTitle: style(noColor, bold),
		SummaryValue: style(noColor),
		Success:      style(green, bold),
		Failure:      style(red, bold),

		TableHeader:    style(silver, bold),
		TableSeparator: style(gray),

		DiffHeader:  style(noColor, bold),
		DiffAdd:     style(green),
		DiffRemove:  style(red),
		DiffHunk:    style(cyan),
		DiffContext: style(noColor),

		Dim:  style(gray),
		Bold: style(noColor, bold),
	}
}

// FormatStatus returns a styled file status.
func (s *Styles) FormatStatus(status runner.Status) string {
	switch status {
	case runner.StatusWritten, runner.StatusPrinted:
		return s.Written.Render(string(status))
	case runner.StatusUnchanged, runner.StatusDryRun:
		return s.Unchanged.Render(string(status))
	case runner.StatusSkipped:
		return s.Skipped.Render(string(status))
	case runner.StatusFailed:
		return s.Failed.Render(string(status))
	default:
		return string(status)
	}
}

// IsColorEnabled resolves a --color mode for writer. Any mode other than
// "always" or "never" is auto: color only on a terminal with NO_COLOR unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
