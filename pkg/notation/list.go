package notation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

//nolint:gochecknoglobals // Compiled once.
var (
	orderedItemPattern   = regexp.MustCompile(`(?m)^(\++)(.*)$`)
	orderedIndentPattern = regexp.MustCompile(`(?m)^(\++)(.*)`)
)

const (
	orderedBlockPattern = `(?s)\n\+(.*?)\n\n`
	listIndent          = "    "
)

// orderedListRules returns the two ordered-list steps: the first isolates
// each list block with a trailing blank line, the second numbers it.
func orderedListRules() []Rule {
	return []Rule{
		matchRule("ordered-list-separate",
			"end every + list block with an extra blank line",
			orderedBlockPattern,
			func(groups []string) string {
				return "\n+" + groups[1] + "\n\n\n"
			}),
		matchRule("ordered-list",
			"number + list items per nesting level and indent nested items",
			orderedBlockPattern,
			func(groups []string) string {
				return "\n" + numberOrderedList(groups[1]) + "\n"
			}),
	}
}

// numberOrderedList renders one ordered-list block whose leading "+" has
// already been consumed.
func numberOrderedList(body string) string {
	block := "\n+" + strings.TrimSpace(body)
	block = replaceMatches(orderedItemPattern, block, func(groups []string) string {
		return groups[1] + " " + strings.TrimSpace(groups[2])
	})
	block = strings.TrimSpace(block)

	var (
		counter levelCounter
		b       strings.Builder
	)
	for _, line := range strings.Split(block, "\n") {
		n := counter.next(itemLevel(line))
		line = strings.Replace(line, "+ ", strconv.Itoa(n)+". ", 1)
		b.WriteString(Inline(line))
		b.WriteString("\n")
	}

	return replaceMatches(orderedIndentPattern, b.String(), func(groups []string) string {
		return strings.Repeat(listIndent, len(groups[1])) + groups[2]
	})
}

// itemLevel is the length of the line's first space-separated token, which
// for an item line is its run of "+" markers.
func itemLevel(line string) int {
	token, _, _ := strings.Cut(line, " ")
	return utf8.RuneCountInString(token)
}

// levelCounter numbers list items per nesting level. Returning to a
// shallower level restarts the level that was just left.
type levelCounter struct {
	current int
	counts  map[int]int
}

func (c *levelCounter) next(level int) int {
	if c.counts == nil {
		c.counts = make(map[int]int)
	}
	if level < c.current {
		delete(c.counts, c.current)
	}
	c.current = level
	c.counts[level]++
	return c.counts[level]
}
