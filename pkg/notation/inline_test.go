package notation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/backlogmd/pkg/notation"
)

func TestInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "tag is escaped", text: "a <b> c", want: "a &lt;b&gt; c"},
		{name: "lone less-than is escaped", text: "1 < 2", want: "1 &lt; 2"},
		{name: "greater-than is kept", text: "2 > 1", want: "2 > 1"},
		{name: "strong", text: "''bold''", want: " **bold** "},
		{name: "strong trims inner space", text: "'' bold ''", want: " **bold** "},
		{name: "emphasis", text: "'it'", want: " *it* "},
		{name: "strikethrough", text: "%%x%%", want: " ~~x~~ "},
		{name: "link label is trimmed", text: "[[ Label >http://x]]", want: "[Label](http://x)"},
		{name: "color", text: "&color(red){alert}", want: `<span style="color: red;">alert</span>`},
		{name: "color is case-insensitive and allows space", text: "&COLOR(#f00) {x}", want: `<span style="color: #f00;">x</span>`},
		{name: "image", text: "#image(a.png)", want: "![a.png]"},
		{name: "thumbnail", text: "#thumbnail(a.png)", want: "![a.png]"},
		{name: "attachment", text: "#attach(file.txt:1)", want: "[file.txt][1]"},
		{name: "double space collapses", text: "a  b", want: "a b"},
		{name: "plain text is unchanged", text: "nothing to do", want: "nothing to do"},
		{name: "empty", text: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, notation.Inline(tt.text))
		})
	}
}

func TestInlineRules_Order(t *testing.T) {
	t.Parallel()

	rules := notation.InlineRules()

	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.Name)
	}

	assert.Equal(t, []string{
		"escape-tag",
		"escape-lt",
		"strong",
		"emphasis",
		"strikethrough",
		"link",
		"color",
		"image",
		"thumbnail",
		"attachment",
		"double-space",
	}, names)
}

func TestInlineRules_ReturnsCopy(t *testing.T) {
	t.Parallel()

	rules := notation.InlineRules()
	rules[0] = notation.Rule{Name: "replaced"}

	assert.Equal(t, "escape-tag", notation.InlineRules()[0].Name)
}
