package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteTables(t *testing.T) {
	t.Parallel()

	wrap := func(body, next string) string { return "[" + body + "]" + next }

	tests := []struct {
		name        string
		doc         string
		requireNext bool
		want        string
	}{
		{
			name: "single block",
			doc:  "\n|a|b|\n\n",
			want: "[a|b]\n",
		},
		{
			name: "rows joined by pipes stay in one block",
			doc:  "\n|a|\n|b|\nx",
			want: "[a|\n|b]x",
		},
		{
			name: "two blocks",
			doc:  "\n|a|\nx\n|b|\ny",
			want: "[a]x[b]y",
		},
		{
			name: "block runs to the first valid close",
			doc:  "\n|a\n\n|b|\n",
			want: "[a\n\n|b]",
		},
		{
			name: "no block",
			doc:  "plain\ntext\n",
			want: "plain\ntext\n",
		},
		{
			name:        "next character is consumed",
			doc:         "\n|a|\nxy",
			requireNext: true,
			want:        "[a]xy",
		},
		{
			name:        "block at end of text without next character",
			doc:         "\n|a|\n",
			requireNext: true,
			want:        "\n|a|\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, rewriteTables(tt.doc, tt.requireNext, wrap))
		})
	}
}

func TestNormalizeCells(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Name|Age", normalizeCells("~Name|~Age"))
	assert.Equal(t, "a| |c", normalizeCells("a||c"))
	assert.Equal(t, " |b| ", normalizeCells("|b|"))
	assert.Empty(t, normalizeCells(""))
}

func TestColumnCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, columnCount("a|b|c|"))
	assert.Equal(t, 3, columnCount("a||c"))
	assert.Equal(t, 1, columnCount("a"))
}

func TestLevelCounter(t *testing.T) {
	t.Parallel()

	var c levelCounter
	got := []int{
		c.next(1),
		c.next(2),
		c.next(2),
		c.next(3),
		c.next(1),
		c.next(2),
	}

	assert.Equal(t, []int{1, 1, 2, 1, 2, 3}, got)
}

func TestPlaceholderStore(t *testing.T) {
	t.Parallel()

	var store placeholderStore

	first := store.add(kindCode, "a")
	second := store.add(kindCode, "b")
	para := store.add(kindParagraph, "text")

	assert.Equal(t, "{{BACKLOG2MD_CODE-0}}", first)
	assert.Equal(t, "{{BACKLOG2MD_CODE-1}}", second)
	assert.Equal(t, "{{BACKLOG2MD_PARAGRAPH-0}}", para)

	got := store.restore(second+" "+first+" {{BACKLOG2MD_CODE-9}} {{BACKLOG2MD_CODE-x}}", kindCode, func(content string) string {
		return "<" + content + ">"
	})
	assert.Equal(t, "<b> <a> {{BACKLOG2MD_CODE-9}} {{BACKLOG2MD_CODE-x}}", got)

	stats := store.stats()
	assert.Equal(t, 2, stats.CodeBlocks)
	assert.Equal(t, 2, stats.CodeRestored)
	assert.Equal(t, 1, stats.Paragraphs)
	assert.Zero(t, stats.ParagraphsRestored)
	assert.False(t, stats.Complete())
}

func TestMask(t *testing.T) {
	t.Parallel()

	var store placeholderStore
	doc := store.mask(normalize("{code}\nx\n{/code}\nprose\n* heading\n {indented}\n)paren"))

	for _, line := range []string{"{{BACKLOG2MD_CODE-0}}", "{{BACKLOG2MD_PARAGRAPH-0}}\n", "* heading", " {indented}", ")paren"} {
		assert.Contains(t, doc, line)
	}
	require.Len(t, store.blocks[kindParagraph], 1)
	assert.Equal(t, "prose", store.blocks[kindParagraph][0])
	assert.Equal(t, "\nx\n", store.blocks[kindCode][0])
}

func TestCollapseBlankLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\n\nb", collapseBlankLines("a\n\n\n\n\n\nb"))
	assert.Equal(t, "a\n\nb", collapseBlankLines("a\n\nb"))
}
