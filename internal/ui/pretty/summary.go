package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/backlogmd/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func files(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "Converted 3 files (2 written, 1 unchanged), 1 skipped, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files to convert") + "\n"
	}

	var detail []string
	if stats.FilesWritten > 0 {
		detail = append(detail, fmt.Sprintf("%d written", stats.FilesWritten))
	}
	if stats.FilesUnchanged > 0 {
		detail = append(detail, fmt.Sprintf("%d unchanged", stats.FilesUnchanged))
	}

	head := fmt.Sprintf("Converted %d %s", stats.FilesConverted, files(stats.FilesConverted))
	if len(detail) > 0 {
		head += " (" + strings.Join(detail, ", ") + ")"
	}

	headStyle := s.Success
	if stats.FilesConverted == 0 {
		headStyle = s.Dim
	}

	parts := []string{headStyle.Render(head)}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	if stats.FilesWithWarnings > 0 {
		parts = append(parts, s.Warning.Render(
			fmt.Sprintf("%d %s with warnings", stats.FilesWithWarnings, files(stats.FilesWithWarnings))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value int, style func(...string) string) {
		builder.WriteString(fmt.Sprintf("  %-20s%s\n", label+":", style(strconv.Itoa(value))))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files discovered", stats.FilesDiscovered, s.SummaryValue.Render)
	row("Files converted", stats.FilesConverted, s.SummaryValue.Render)
	if stats.FilesWritten > 0 {
		row("Files written", stats.FilesWritten, s.Success.Render)
	}
	if stats.FilesUnchanged > 0 {
		row("Files unchanged", stats.FilesUnchanged, s.Dim.Render)
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", stats.FilesSkipped, s.Warning.Render)
	}
	if stats.FilesErrored > 0 {
		row("Files failed", stats.FilesErrored, s.Failure.Render)
	}

	builder.WriteString("\n")
	row("Code blocks", stats.Blocks.CodeBlocks, s.SummaryValue.Render)
	row("Quotes", stats.Blocks.QuoteBlocks, s.SummaryValue.Render)
	row("Paragraphs", stats.Blocks.Paragraphs, s.SummaryValue.Render)
	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Conversion failed for some files"))
	case stats.FilesWithWarnings > 0:
		builder.WriteString(s.Warning.Render("Conversion completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Conversion completed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
