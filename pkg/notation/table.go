package notation

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // Compiled once.
var alignmentCellPattern = regexp.MustCompile(`:-*`)

const (
	tableOpen      = "\n|"
	tableClose     = "|\n"
	alignmentCell  = "|:--"
	headerRowClose = "|h\n"
)

// tableRules returns the table rewriting steps in order. promoteHeader
// selects how a table without a header row gets one.
func tableRules(promoteHeader bool) []Rule {
	return []Rule{
		{
			Name:        "table-separate",
			Description: "end every table block with a blank line",
			Apply: func(text string) string {
				return rewriteTables(text, false, func(body, _ string) string {
					return tableOpen + body + tableClose + "\n"
				})
			},
		},
		{
			Name:        "table-alignment",
			Description: "insert an alignment row above tables that have no header row",
			Apply: func(text string) string {
				return rewriteTables(text, false, func(body, _ string) string {
					if strings.Contains(body, headerRowClose) {
						return tableOpen + body + tableClose
					}
					first, _, _ := strings.Cut(body, "\n")
					row := alignmentRow(columnCount(first))
					return "\n" + row + tableOpen + body + tableClose
				})
			},
		},
		matchRule("table-row",
			"strip ~ header markers and pad empty cells in table rows",
			`(?m)^\|(.*)\|(\s?)$`,
			func(groups []string) string {
				return "|" + normalizeCells(groups[1]) + "|" + groups[2]
			}),
		matchRule("table-header",
			"turn a |...|h row into a header followed by an alignment row",
			`(?m)^\|(.*)\|h\s?$`,
			func(groups []string) string {
				row := alignmentRow(len(strings.Split(groups[1], "|")))
				return tableOpen + normalizeCells(groups[1]) + tableClose + row
			}),
		{
			Name:        "table-inline",
			Description: "apply inline substitution inside table blocks",
			Apply: func(text string) string {
				return rewriteTables(text, true, func(body, next string) string {
					return tableOpen + Inline(body) + tableClose + "\n" + next
				})
			},
		},
		{
			Name:        "table-spacing",
			Description: "surround every table block with blank lines",
			Apply: func(text string) string {
				return rewriteTables(text, false, func(body, _ string) string {
					return "\n" + tableOpen + body + tableClose + "\n"
				})
			},
		},
		matchRule("table-missing-header",
			"give tables that start with an alignment row a header row",
			`(?m)^\n(\|:.*)\n(.*)$`,
			func(groups []string) string {
				if promoteHeader {
					return "\n" + groups[2] + "\n" + groups[1]
				}
				blank := alignmentCellPattern.ReplaceAllString(groups[1], "")
				return "\n" + blank + "\n" + groups[1] + "\n" + groups[2]
			}),
	}
}

// alignmentRow returns a left-aligned delimiter row with n cells.
func alignmentRow(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(alignmentCell, n) + "|"
}

// columnCount counts the cells of a table row whose leading "|" has been
// stripped. The closing "|" may or may not be present.
func columnCount(row string) int {
	row = strings.TrimSuffix(row, "|")
	return strings.Count(row, "|") + 1
}

// normalizeCells cleans the interior of one table row: ~ header markers are
// dropped and empty cells get a single space.
func normalizeCells(cells string) string {
	cells = strings.ReplaceAll(cells, "|~", "|")
	cells = strings.TrimPrefix(cells, "~")
	cells = strings.ReplaceAll(cells, "||", "| |")
	if strings.HasPrefix(cells, "|") {
		cells = " " + cells
	}
	if strings.HasSuffix(cells, "|") {
		cells += " "
	}
	return cells
}

// rewriteTables finds table blocks and replaces each with replace(body, next).
//
// A block opens at "\n|" and closes at the first "|\n" that is not directly
// followed by another "|". body is the text between the opening and closing
// pipes. When requireNext is set the block must be followed by one more
// character, which is consumed and passed as next. Scanning stops at the
// first opening with no valid close.
func rewriteTables(doc string, requireNext bool, replace func(body, next string) string) string {
	var b strings.Builder
	b.Grow(len(doc))

	pos := 0
	for {
		rel := strings.Index(doc[pos:], tableOpen)
		if rel < 0 {
			break
		}
		start := pos + rel

		end, ok := tableClosing(doc, start+len(tableOpen), requireNext)
		if !ok {
			break
		}

		body := doc[start+len(tableOpen) : end]
		after := end + len(tableClose)
		next := ""
		if requireNext {
			next = doc[after : after+1]
			after++
		}

		b.WriteString(doc[pos:start])
		b.WriteString(replace(body, next))
		pos = after
	}
	b.WriteString(doc[pos:])

	return b.String()
}

// tableClosing returns the index of the "|\n" that ends the block whose body
// starts at from.
func tableClosing(doc string, from int, requireNext bool) (int, bool) {
	for j := from; j+len(tableClose) <= len(doc); j++ {
		if doc[j] != '|' || doc[j+1] != '\n' {
			continue
		}
		k := j + len(tableClose)
		if k < len(doc) && doc[k] == '|' {
			continue
		}
		if requireNext && k >= len(doc) {
			return 0, false
		}
		return j, true
	}
	return 0, false
}
