// Package verify parses converted Markdown with goldmark and checks that the
// structure survived conversion.
package verify

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/backlogmd/pkg/notation"
)

// Report counts the block structure goldmark found in converted output.
type Report struct {
	Headings    int `json:"headings"`
	Tables      int `json:"tables"`
	Lists       int `json:"lists"`
	ListItems   int `json:"list_items"`
	Blockquotes int `json:"blockquotes"`
	FencedCode  int `json:"fenced_code"`
	Paragraphs  int `json:"paragraphs"`

	// Warnings describe structure that was captured but not found again.
	Warnings []string `json:"warnings,omitempty"`
}

// OK reports whether the check produced no warnings.
func (r Report) OK() bool {
	return len(r.Warnings) == 0
}

// Checker parses Markdown with the GitHub-flavored extensions enabled.
// A Checker is safe for concurrent use.
type Checker struct {
	md goldmark.Markdown
}

// New creates a Checker.
func New() *Checker {
	return &Checker{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Check parses markdown and compares it against the block counts recorded
// during conversion.
func (c *Checker) Check(markdown string, stats notation.Stats) Report {
	source := []byte(markdown)
	doc := c.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	var report Report
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node.Kind() {
		case ast.KindHeading:
			report.Headings++
		case extast.KindTable:
			report.Tables++
		case ast.KindList:
			report.Lists++
		case ast.KindListItem:
			report.ListItems++
		case ast.KindBlockquote:
			report.Blockquotes++
		case ast.KindFencedCodeBlock:
			report.FencedCode++
		case ast.KindParagraph:
			report.Paragraphs++
		}
		return ast.WalkContinue, nil
	})

	if report.FencedCode < stats.CodeBlocks {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("found %d fenced code blocks, expected %d", report.FencedCode, stats.CodeBlocks))
	}
	if report.Blockquotes < min(stats.QuoteBlocks, 1) {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("found no block quotes, expected %d", stats.QuoteBlocks))
	}
	if !stats.Complete() {
		report.Warnings = append(report.Warnings, "not every masked block was restored")
	}

	return report
}

// Check parses markdown with a fresh Checker.
func Check(markdown string, stats notation.Stats) Report {
	return New().Check(markdown, stats)
}
