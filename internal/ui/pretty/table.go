package pretty

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/backlogmd/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
	minPathWidth     = 16
	countColumnWidth = 5
)

// TableRow represents a single file in the outcome table.
type TableRow struct {
	Source string
	Output string
	Status runner.Status
	Code   int
	Quote  int
	Para   int
	Note   string
}

// TableFormatter formats run outcomes as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// OutcomeToTableRow converts a file outcome to a table row. Paths are shown
// relative to base when possible.
func OutcomeToTableRow(outcome runner.FileOutcome, base string) TableRow {
	row := TableRow{
		Source: relativeTo(base, outcome.Path),
		Output: relativeTo(base, outcome.OutputPath),
		Status: outcome.Status,
		Code:   outcome.Stats.CodeBlocks,
		Quote:  outcome.Stats.QuoteBlocks,
		Para:   outcome.Stats.Paragraphs,
	}

	switch {
	case outcome.Error != nil:
		row.Note = outcome.Error.Error()
	case outcome.Skip != nil:
		row.Note = outcome.Skip.Error()
	case len(outcome.Warnings()) > 0:
		row.Note = strings.Join(outcome.Warnings(), "; ")
	}

	return row
}

// FormatTable formats runner results as a styled table.
func (t *TableFormatter) FormatTable(result *runner.Result, base string) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(result.Files))
	for _, outcome := range result.Files {
		rows = append(rows, OutcomeToTableRow(outcome, base))
	}

	srcWidth, outWidth := t.pathWidths(rows)
	statusWidth := len(runner.StatusUnchanged)

	var builder strings.Builder

	header := fmt.Sprintf("%-*s  %-*s  %-*s  %*s  %*s  %*s",
		srcWidth, "SOURCE",
		outWidth, "OUTPUT",
		statusWidth, "STATUS",
		countColumnWidth, "CODE",
		countColumnWidth, "QUOTE",
		countColumnWidth, "PARA",
	)
	total := lipgloss.Width(header)

	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, srcWidth, outWidth, statusWidth))
		builder.WriteString("\n")
		if row.Note != "" {
			builder.WriteString(strings.Repeat(" ", tablePadding))
			builder.WriteString(t.styles.Dim.Render(truncateString(row.Note, t.termWidth-tablePadding)))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, total)))
	builder.WriteString("\n")

	return builder.String()
}

func (t *TableFormatter) formatRow(row TableRow, srcWidth, outWidth, statusWidth int) string {
	status := t.styles.FormatStatus(row.Status)
	// Pad on the plain text; styling adds invisible width.
	statusPad := strings.Repeat(" ", max(0, statusWidth-len(row.Status)))

	return fmt.Sprintf("%s  %s  %s%s  %*s  %*s  %*s",
		t.styles.FilePath.Render(padRight(truncateFilePath(row.Source, srcWidth), srcWidth)),
		padRight(truncateFilePath(row.Output, outWidth), outWidth),
		status, statusPad,
		countColumnWidth, strconv.Itoa(row.Code),
		countColumnWidth, strconv.Itoa(row.Quote),
		countColumnWidth, strconv.Itoa(row.Para),
	)
}

// pathWidths splits the width left after the fixed columns between the
// source and output columns.
func (t *TableFormatter) pathWidths(rows []TableRow) (int, int) {
	srcWidth, outWidth := len("SOURCE"), len("OUTPUT")
	for _, row := range rows {
		srcWidth = max(srcWidth, lipgloss.Width(row.Source))
		outWidth = max(outWidth, lipgloss.Width(row.Output))
	}

	fixed := len(runner.StatusUnchanged) + 3*countColumnWidth + 5*tablePadding
	available := max(2*minPathWidth, t.termWidth-fixed)
	if srcWidth+outWidth <= available {
		return srcWidth, outWidth
	}

	half := available / 2
	switch {
	case srcWidth <= half:
		outWidth = available - srcWidth
	case outWidth <= half:
		srcWidth = available - outWidth
	default:
		srcWidth, outWidth = half, available-half
	}
	return srcWidth, outWidth
}

func padRight(str string, width int) string {
	return str + strings.Repeat(" ", max(0, width-lipgloss.Width(str)))
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if maxLen <= 3 || len(str) <= maxLen {
		return str
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath shortens a path from the left, keeping the file name.
func truncateFilePath(path string, maxLen int) string {
	if lipgloss.Width(path) <= maxLen || maxLen <= 3 {
		return path
	}
	runes := []rune(path)
	return "..." + string(runes[len(runes)-(maxLen-3):])
}

func relativeTo(base, path string) string {
	if base == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
