package notation

import (
	"regexp"
	"strings"
)

// Rule is a single whole-text rewrite step.
//
// Rules are pure: Apply takes the complete text and returns the rewritten
// text. Any scratch state a rule needs lives inside one Apply call.
type Rule struct {
	// Name is a short kebab-case identifier (e.g., "heading").
	Name string

	// Description explains what the rule rewrites.
	Description string

	// Apply rewrites the text.
	Apply func(text string) string
}

// applyRules runs each rule once, in order, feeding every rule the output
// of the previous one.
func applyRules(rules []Rule, text string) string {
	for _, rule := range rules {
		text = rule.Apply(text)
	}
	return text
}

// literalRule builds a rule that replaces every match of pattern with a
// fixed template. The template uses regexp expansion syntax ($1, ${name}).
func literalRule(name, description, pattern, template string) Rule {
	re := regexp.MustCompile(pattern)
	return Rule{
		Name:        name,
		Description: description,
		Apply: func(text string) string {
			return re.ReplaceAllString(text, template)
		},
	}
}

// replaceRule builds a rule that replaces every occurrence of old with new.
func replaceRule(name, description, old, replacement string) Rule {
	return Rule{
		Name:        name,
		Description: description,
		Apply: func(text string) string {
			return strings.ReplaceAll(text, old, replacement)
		},
	}
}

// matchRule builds a rule that replaces every match of pattern with the
// result of format. format receives the full match at index 0 followed by
// the capture groups; groups that did not participate are empty strings.
func matchRule(name, description, pattern string, format func(groups []string) string) Rule {
	re := regexp.MustCompile(pattern)
	return Rule{
		Name:        name,
		Description: description,
		Apply: func(text string) string {
			return replaceMatches(re, text, format)
		},
	}
}

// replaceMatches replaces all non-overlapping matches of re in text with the
// output of format.
func replaceMatches(re *regexp.Regexp, text string, format func(groups []string) string) string {
	indexes := re.FindAllStringSubmatchIndex(text, -1)
	if len(indexes) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	last := 0
	groups := make([]string, re.NumSubexp()+1)
	for _, loc := range indexes {
		for i := range groups {
			start, end := loc[2*i], loc[2*i+1]
			if start < 0 {
				groups[i] = ""
				continue
			}
			groups[i] = text[start:end]
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(format(groups))
		last = loc[1]
	}
	b.WriteString(text[last:])

	return b.String()
}
