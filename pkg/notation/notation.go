// Package notation converts Backlog wiki notation into GitHub-flavored
// Markdown.
//
// Conversion is a pipeline of whole-text rewrites. Code blocks, quote blocks
// and plain paragraph lines are first swapped for placeholder tokens so the
// structural rules (headings, tables, lists) cannot touch their content.
// After the structural rules run, the placeholders are restored with inline
// substitution applied where it belongs.
//
// Conversion never fails: any input produces some output, and text that
// matches no rule passes through unchanged.
package notation

import (
	"regexp"
	"strings"

	"github.com/yaklabco/backlogmd/pkg/langdetect"
)

// Options controls a conversion.
type Options struct {
	// CRLF emits "\r\n" line endings instead of "\n".
	CRLF bool

	// PromoteHeader uses the first row of a header-less table as its header
	// row. When false an empty header row is inserted instead.
	PromoteHeader bool

	// DetectCodeLanguage tags fenced code blocks with a detected language.
	DetectCodeLanguage bool
}

// Stats counts the blocks a conversion masked and restored. Restored counts
// lower than the masked counts mean a placeholder was lost by a rule.
type Stats struct {
	CodeBlocks         int `json:"code_blocks"`
	CodeRestored       int `json:"code_restored"`
	QuoteBlocks        int `json:"quote_blocks"`
	QuotesRestored     int `json:"quotes_restored"`
	Paragraphs         int `json:"paragraphs"`
	ParagraphsRestored int `json:"paragraphs_restored"`
}

// Complete reports whether every masked block was restored.
func (s Stats) Complete() bool {
	return s.CodeBlocks == s.CodeRestored &&
		s.QuoteBlocks == s.QuotesRestored &&
		s.Paragraphs == s.ParagraphsRestored
}

// Result is the output of one conversion.
type Result struct {
	Markdown string
	Stats    Stats
}

// Converter converts documents with a fixed set of options.
// A Converter holds no per-document state and is safe for concurrent use.
type Converter struct {
	opts   Options
	layout []Rule
}

// New returns a Converter for opts.
func New(opts Options) *Converter {
	return &Converter{
		opts:   opts,
		layout: layoutRules(opts),
	}
}

// Convert converts Backlog notation to Markdown using opts.
func Convert(source string, opts Options) string {
	return New(opts).Convert(source)
}

// Options returns the options the converter was built with.
func (c *Converter) Options() Options {
	return c.opts
}

// Convert converts one document.
func (c *Converter) Convert(source string) string {
	return c.ConvertWithStats(source).Markdown
}

// ConvertWithStats converts one document and reports block counts.
func (c *Converter) ConvertWithStats(source string) Result {
	store := &placeholderStore{}

	doc := normalize(source)
	doc = store.mask(doc)
	doc = applyRules(c.layout, doc)
	doc = collapseBlankLines(doc)

	doc = store.restore(doc, kindCode, c.renderCode)
	doc = store.restore(doc, kindQuote, func(content string) string {
		return c.renderQuote(store, content)
	})
	doc = store.restore(doc, kindParagraph, renderParagraph)

	return Result{
		Markdown: finish(doc, c.opts.CRLF),
		Stats:    store.stats(),
	}
}

// LayoutRules returns the structural rules in application order.
func (c *Converter) LayoutRules() []Rule {
	rules := make([]Rule, len(c.layout))
	copy(rules, c.layout)
	return rules
}

// renderCode turns captured code block content into a fenced code block.
func (c *Converter) renderCode(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return "\n```\n```\n"
	}

	info := ""
	if c.opts.DetectCodeLanguage {
		info = langdetect.FenceInfo([]byte(content))
	}
	return "\n```" + info + "\n" + content + "\n```\n"
}

// renderQuote turns captured quote content into a block quote. Code blocks
// nested in the quote are restored verbatim; the text around them gets
// inline substitution.
func (c *Converter) renderQuote(store *placeholderStore, content string) string {
	content = strings.TrimSpace(content)

	body := expandAround(tokenPatterns[kindCode], content, Inline, func(groups []string) string {
		return store.restore(groups[0], kindCode, c.renderCode)
	})
	body = strings.TrimSpace(body)

	return "\n> " + strings.ReplaceAll(body, "\n", "\n> ") + "\n"
}

// renderParagraph restores one prose line.
func renderParagraph(content string) string {
	return Inline(strings.TrimSpace(content))
}

// expandAround rewrites text by passing every match of re to onMatch and
// every stretch between matches to between.
func expandAround(re *regexp.Regexp, text string, between func(string) string, onMatch func(groups []string) string) string {
	var b strings.Builder

	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(between(text[last:loc[0]]))
		b.WriteString(onMatch(groups))
		last = loc[1]
	}
	b.WriteString(between(text[last:]))

	return b.String()
}
