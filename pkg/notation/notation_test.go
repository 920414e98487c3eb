package notation_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/backlogmd/pkg/notation"
)

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		opts   notation.Options
		want   string
	}{
		{
			name:   "empty document",
			source: "",
			want:   "",
		},
		{
			name:   "heading level 1",
			source: "* Title",
			want:   "# Title",
		},
		{
			name:   "heading level 3",
			source: "*** Deep",
			want:   "### Deep",
		},
		{
			name:   "heading escapes tags",
			source: "* Title with <tag>",
			want:   "# Title with &lt;tag&gt;",
		},
		{
			name:   "heading escapes ampersand",
			source: "* A & B",
			want:   "# A &amp; B",
		},
		{
			name:   "heading keeps written entities",
			source: "* Fish &amp; Chips &lt;fresh&gt;",
			want:   "# Fish &amp; Chips &lt;fresh&gt;",
		},
		{
			name:   "flat ordered list",
			source: "+ a\n+ b\n+ c\n+ d\n+ e",
			want:   "1. a\n2. b\n3. c\n4. d\n5. e",
		},
		{
			name:   "ordered item keeps later plus signs",
			source: "+ sum\n+ 1 + 2",
			want:   "1. sum\n2. 1 + 2",
		},
		{
			name:   "nested ordered list",
			source: "+ one\n++ two\n+ three",
			want:   "1. one\n    1. two\n2. three",
		},
		{
			name:   "nested level restarts after returning",
			source: "+ a\n++ b\n+ c\n++ d",
			want:   "1. a\n    1. b\n2. c\n    1. d",
		},
		{
			name:   "ordered list followed by paragraph",
			source: "+ a\n+ b\n\nafter",
			want:   "1. a\n2. b\n\nafter",
		},
		{
			name:   "nested unordered list",
			source: "- a\n-- b\n--- c",
			want:   "- a\n    - b\n        - c",
		},
		{
			name:   "horizontal rule",
			source: "----",
			want:   "----",
		},
		{
			name:   "unordered item escapes ampersand",
			source: "- Tom & Jerry",
			want:   "- Tom &amp; Jerry",
		},
		{
			name:   "unordered item keeps entities",
			source: "- a <b> c",
			want:   "- a &lt;b&gt; c",
		},
		{
			name:   "unordered item keeps written entities",
			source: "- Fish &amp; Chips",
			want:   "- Fish &amp; Chips",
		},
		{
			name:   "line break",
			source: "- a&br;b",
			want:   "- a <br>b",
		},
		{
			name:   "table without header promotes first row",
			source: "|a|b|c|\n|d|e|f|",
			opts:   notation.Options{PromoteHeader: true},
			want:   "|a|b|c|\n|:--|:--|:--|\n|d|e|f|",
		},
		{
			name:   "table without header gets blank header",
			source: "|a|b|c|\n|d|e|f|",
			want:   "||||\n|:--|:--|:--|\n|a|b|c|\n|d|e|f|",
		},
		{
			name:   "table with header row",
			source: "|~Name|~Age|h\n|Bob|30|",
			want:   "|Name|Age|\n|:--|:--|\n|Bob|30|",
		},
		{
			name:   "single row table pads empty cells",
			source: "|a||c|",
			opts:   notation.Options{PromoteHeader: true},
			want:   "|a| |c|\n|:--|:--|:--|",
		},
		{
			name:   "code block",
			source: "{code}\nfunc main() {}\n{/code}",
			want:   "```\nfunc main() {}\n```",
		},
		{
			name:   "code block content is verbatim",
			source: "{code}\n* not heading\n<b> & ''x''\n{/code}",
			want:   "```\n* not heading\n<b> & ''x''\n```",
		},
		{
			name:   "empty code block",
			source: "{code}{/code}",
			want:   "```\n```",
		},
		{
			name:   "code block with detected language",
			source: "{code}\npackage main\n{/code}",
			opts:   notation.Options{DetectCodeLanguage: true},
			want:   "```go\npackage main\n```",
		},
		{
			name:   "quote block",
			source: "{quote}\nhello ''world''\n{/quote}",
			want:   "> hello **world**",
		},
		{
			name:   "multi-line quote block",
			source: "{quote}\nline one\nline two\n{/quote}",
			want:   "> line one\n> line two",
		},
		{
			name:   "code block inside quote",
			source: "{quote}\nsee:\n{code}\nx := 1\n{/code}\n{/quote}",
			want:   "> see:\n> \n> ```\n> x := 1\n> ```",
		},
		{
			name:   "paragraph",
			source: "text",
			want:   "text",
		},
		{
			name:   "adjacent paragraphs",
			source: "first\nsecond",
			want:   "first\nsecond",
		},
		{
			name:   "paragraph before list",
			source: "Intro\n- a\n-- b\n\nEnd",
			want:   "Intro\n\n- a\n    - b\n\nEnd",
		},
		{
			name:   "nested emphasis",
			source: "''bold and 'italic' text''",
			want:   "**bold and *italic* text**",
		},
		{
			name:   "link with angle bracket",
			source: "[[Label>http://example.com]]",
			want:   "[Label](http://example.com)",
		},
		{
			name:   "link with colon",
			source: "[[Label:http://example.com]]",
			want:   "[Label](http://example.com)",
		},
		{
			name:   "attachment",
			source: "#attach(file.txt:1)",
			want:   "[file.txt][1]",
		},
		{
			name:   "image",
			source: "#image(pic.png)",
			want:   "![pic.png]",
		},
		{
			name:   "color",
			source: "&color(red){alert}",
			want:   `<span style="color: red;">alert</span>`,
		},
		{
			name:   "strikethrough",
			source: "%%gone%%",
			want:   "~~gone~~",
		},
		{
			name:   "table of contents",
			source: "#contents\n* H",
			want:   "[toc]\n\n# H",
		},
		{
			name:   "crlf output",
			source: "* A\r\nB",
			opts:   notation.Options{CRLF: true},
			want:   "# A\r\n\r\nB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := notation.Convert(tt.source, tt.opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_CRLFInputMatchesLF(t *testing.T) {
	t.Parallel()

	lf := "* Title\n+ a\n+ b\n\n|a|b|\n|c|d|\n\nsome text"
	crlf := strings.ReplaceAll(lf, "\n", "\r\n")

	assert.Equal(t, notation.Convert(lf, notation.Options{}), notation.Convert(crlf, notation.Options{}))
}

func TestConvert_CRLFOutputHasNoBareLF(t *testing.T) {
	t.Parallel()

	got := notation.Convert("* Title\n- a\n- b\n\ntext", notation.Options{CRLF: true})

	require.NotEmpty(t, got)
	assert.Equal(t, strings.Count(got, "\n"), strings.Count(got, "\r\n"))
}

func TestConvert_NoPlaceholdersLeak(t *testing.T) {
	t.Parallel()

	source := strings.Join([]string{
		"* Heading",
		"Intro paragraph with ''bold''",
		"{code}",
		"x := 1",
		"{/code}",
		"{quote}",
		"quoted",
		"{/quote}",
		"|a|b|",
		"|c|d|",
		"",
		"+ one",
		"++ two",
		"",
		"- item",
		"closing line",
	}, "\n")

	got := notation.Convert(source, notation.Options{})

	assert.NotContains(t, got, "{{BACKLOG2MD_")
	assert.Equal(t, strings.TrimSpace(got), got)
}

func TestConverter_ConvertWithStats(t *testing.T) {
	t.Parallel()

	conv := notation.New(notation.Options{})
	result := conv.ConvertWithStats("{quote}\nsee:\n{code}\nx := 1\n{/code}\n{/quote}\ntext\n{code}\ny\n{/code}")

	assert.Equal(t, notation.Stats{
		CodeBlocks:         2,
		CodeRestored:       2,
		QuoteBlocks:        1,
		QuotesRestored:     1,
		Paragraphs:         1,
		ParagraphsRestored: 1,
	}, result.Stats)
	assert.True(t, result.Stats.Complete())
	assert.Equal(t, result.Markdown, conv.Convert("{quote}\nsee:\n{code}\nx := 1\n{/code}\n{/quote}\ntext\n{code}\ny\n{/code}"))
}

func TestConverter_ConcurrentUse(t *testing.T) {
	t.Parallel()

	conv := notation.New(notation.Options{PromoteHeader: true})
	want := conv.Convert("|a|b|\n|c|d|")

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = conv.Convert("|a|b|\n|c|d|")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestConverter_LayoutRules(t *testing.T) {
	t.Parallel()

	conv := notation.New(notation.Options{})
	rules := conv.LayoutRules()

	require.NotEmpty(t, rules)
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		assert.NotEmpty(t, rule.Description, rule.Name)
		require.NotNil(t, rule.Apply, rule.Name)
		names = append(names, rule.Name)
	}

	assert.Equal(t, "heading", names[2])
	assert.Equal(t, "ampersand", names[len(names)-1])
	assert.Less(t, indexOf(names, "table-separate"), indexOf(names, "ordered-list"))
	assert.Less(t, indexOf(names, "ordered-list"), indexOf(names, "unordered-list"))

	// Mutating the returned slice must not affect the converter.
	rules[0] = notation.Rule{Name: "replaced"}
	assert.NotEqual(t, "replaced", conv.LayoutRules()[0].Name)
}

func TestConverter_Options(t *testing.T) {
	t.Parallel()

	opts := notation.Options{CRLF: true, DetectCodeLanguage: true}
	assert.Equal(t, opts, notation.New(opts).Options())
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
