package notation

import "strings"

// layoutRules assembles the structural rule list in application order.
func layoutRules(opts Options) []Rule {
	rules := []Rule{
		replaceRule("newline-carriage-return",
			`fold "\n\r" into "\n"`,
			"\n\r", "\n"),
		replaceRule("carriage-return",
			`turn stray "\r" into "\n"`,
			"\r", "\n"),
		headingRule(),
	}
	rules = append(rules, tableRules(opts.PromoteHeader)...)
	rules = append(rules, orderedListRules()...)
	rules = append(rules,
		unorderedListRule(),
		replaceRule("line-break",
			"&br; to <br>",
			"&br;", " <br>"),
		ampersandRule(),
	)
	return rules
}

func headingRule() Rule {
	return matchRule("heading",
		"* text to # text, one # per *",
		`(?m)^(\*+)(.*)$`,
		func(groups []string) string {
			return "\n" + strings.Repeat("#", len(groups[1])) + " " + Inline(strings.TrimSpace(groups[2])) + "\n"
		})
}

// unorderedListRule rewrites "-" items. A line made only of dashes is a
// horizontal rule and is kept as is.
func unorderedListRule() Rule {
	return matchRule("unordered-list",
		"- text to - text, indented four spaces per extra -",
		`(?m)^(-+)(.*)$`,
		func(groups []string) string {
			if groups[2] == "" {
				return groups[1]
			}
			return strings.Repeat(listIndent, len(groups[1])-1) + "- " + strings.TrimSpace(Inline(groups[2]))
		})
}

// ampersandRule escapes bare ampersands. Ampersands that already start a
// character reference (&lt;, &#39;, &#x27;) are kept.
func ampersandRule() Rule {
	return matchRule("ampersand",
		"escape & to &amp; unless it starts an entity",
		`&(#[0-9]+;|#[xX][0-9a-fA-F]+;|[A-Za-z][A-Za-z0-9]*;)?`,
		func(groups []string) string {
			if groups[1] != "" {
				return groups[0]
			}
			return "&amp;"
		})
}
