package notation

import "strings"

// inlineRules is the ordered inline substitution list.
//
// The two escape rules must stay first: later rules emit literal tags
// (<span>) that must not be escaped. New rules go after them. Strong
// emphasis must precede emphasis because '' also matches the ' pattern.
//
//nolint:gochecknoglobals // Immutable rule table.
var inlineRules = []Rule{
	literalRule("escape-tag",
		"escape tag-like <...> text to &lt;...&gt;",
		`<(.*?)>`, "&lt;${1}&gt;"),

	literalRule("escape-lt",
		"escape any remaining < (> is left alone)",
		`<`, "&lt;"),

	matchRule("strong",
		"''text'' to **text**",
		`''(.*?)''`,
		func(groups []string) string {
			return " **" + strings.TrimSpace(groups[1]) + "** "
		}),

	matchRule("emphasis",
		"'text' to *text*",
		`'(.*?)'`,
		func(groups []string) string {
			return " *" + strings.TrimSpace(groups[1]) + "* "
		}),

	matchRule("strikethrough",
		"%%text%% to ~~text~~",
		`%%(.*?)%%`,
		func(groups []string) string {
			return " ~~" + strings.TrimSpace(groups[1]) + "~~ "
		}),

	matchRule("link",
		"[[label>url]] and [[label:url]] to [label](url)",
		`\[\[(.*?)[:>](.*?)\]\]`,
		func(groups []string) string {
			return "[" + strings.TrimSpace(groups[1]) + "](" + groups[2] + ")"
		}),

	matchRule("color",
		"&color(c){text} to a styled <span>",
		`(?i)&color\((.*?)\)(\s+)?\{(.*?)\}`,
		func(groups []string) string {
			return `<span style="color: ` + groups[1] + `;">` + groups[3] + `</span>`
		}),

	matchRule("image",
		"#image(name) to ![name]",
		`#image\((.*?)\)`,
		func(groups []string) string {
			return "![" + groups[1] + "]"
		}),

	matchRule("thumbnail",
		"#thumbnail(name) to ![name]",
		`#thumbnail\((.*?)\)`,
		func(groups []string) string {
			return "![" + groups[1] + "]"
		}),

	matchRule("attachment",
		"#attach(label:ref) to [label][ref]",
		`#attach\((.*?):(.*?)\)`,
		func(groups []string) string {
			return "[" + groups[1] + "][" + groups[2] + "]"
		}),

	literalRule("double-space",
		"collapse each pair of spaces into one",
		` {2}`, " "),
}

// Inline applies the inline substitution rules to text: escaping, emphasis,
// strikethrough, links, color, images and attachments.
func Inline(text string) string {
	return applyRules(inlineRules, text)
}

// InlineRules returns the inline substitution rules in application order.
func InlineRules() []Rule {
	rules := make([]Rule, len(inlineRules))
	copy(rules, inlineRules)
	return rules
}
