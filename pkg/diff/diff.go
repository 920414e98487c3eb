// Package diff computes line-based unified diffs between the Markdown already
// on disk and the Markdown a conversion would write.
package diff

import (
	"fmt"
	"strings"
)

// ContextLines is the number of unchanged lines kept around each change.
const ContextLines = 3

// maxCells bounds the LCS table. Inputs whose differing middle section
// exceeds it are diffed as one replacement hunk.
const maxCells = 4 << 20

// Op is the kind of a diff line.
type Op int

const (
	// Equal marks a line present in both inputs.
	Equal Op = iota
	// Delete marks a line only present in the old input.
	Delete
	// Insert marks a line only present in the new input.
	Insert
)

// Line is one line of a hunk.
type Line struct {
	Op   Op
	Text string
}

// String renders the line with its unified diff prefix.
func (l Line) String() string {
	switch l.Op {
	case Delete:
		return "-" + l.Text
	case Insert:
		return "+" + l.Text
	default:
		return " " + l.Text
	}
}

// Hunk is a contiguous group of changes with surrounding context.
// Starts are 1-based line numbers.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Header renders the "@@ -a,b +c,d @@" line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// Diff is the set of hunks turning one text into another.
type Diff struct {
	// Path labels the diff headers.
	Path string

	Hunks     []Hunk
	Additions int
	Deletions int
}

// HasChanges reports whether the diff holds at least one hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	var b strings.Builder
	label := strings.TrimPrefix(d.Path, "/")
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", label, label)
	for _, hunk := range d.Hunks {
		b.WriteString(hunk.Header())
		b.WriteByte('\n')
		for _, line := range hunk.Lines {
			b.WriteString(line.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Compute diffs before against after. It returns nil when both hold the same
// lines.
func Compute(path string, before, after []byte) *Diff {
	if string(before) == string(after) {
		return nil
	}

	ops := lineOps(splitLines(string(before)), splitLines(string(after)))

	d := &Diff{Path: path}
	for _, op := range ops {
		switch op.Op {
		case Insert:
			d.Additions++
		case Delete:
			d.Deletions++
		}
	}
	d.Hunks = group(ops)
	if len(d.Hunks) == 0 {
		return nil
	}
	return d
}

// splitLines splits on newlines, dropping the empty element after a final
// newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineOps produces the edit script from a to b. Common prefix and suffix are
// matched directly and only the middle goes through the LCS table.
func lineOps(a, b []string) []Line {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]Line, 0, len(a)+len(b))
	for _, line := range a[:prefix] {
		ops = append(ops, Line{Op: Equal, Text: line})
	}
	ops = append(ops, middleOps(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])...)
	for _, line := range a[len(a)-suffix:] {
		ops = append(ops, Line{Op: Equal, Text: line})
	}
	return ops
}

func middleOps(a, b []string) []Line {
	ops := make([]Line, 0, len(a)+len(b))

	if len(a)*len(b) > maxCells {
		for _, line := range a {
			ops = append(ops, Line{Op: Delete, Text: line})
		}
		for _, line := range b {
			ops = append(ops, Line{Op: Insert, Text: line})
		}
		return ops
	}

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, Line{Op: Equal, Text: a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, Line{Op: Delete, Text: a[i]})
			i++
		default:
			ops = append(ops, Line{Op: Insert, Text: b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, Line{Op: Delete, Text: a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, Line{Op: Insert, Text: b[j]})
	}
	return ops
}

// group splits the edit script into hunks, merging changes whose context
// windows touch.
func group(ops []Line) []Hunk {
	// oldLine[k] and newLine[k] are the 1-based positions op k sits at.
	oldLine := make([]int, len(ops))
	newLine := make([]int, len(ops))
	o, n := 1, 1
	for k, op := range ops {
		oldLine[k], newLine[k] = o, n
		if op.Op != Insert {
			o++
		}
		if op.Op != Delete {
			n++
		}
	}

	var hunks []Hunk
	start, end := -1, -1
	flush := func() {
		if start < 0 {
			return
		}
		hunks = append(hunks, buildHunk(ops[start:end], oldLine[start], newLine[start]))
	}

	for k, op := range ops {
		if op.Op == Equal {
			continue
		}
		lo := max(0, k-ContextLines)
		hi := min(len(ops), k+1+ContextLines)
		if start >= 0 && lo <= end {
			end = max(end, hi)
			continue
		}
		flush()
		start, end = lo, hi
	}
	flush()

	return hunks
}

func buildHunk(lines []Line, oldStart, newStart int) Hunk {
	hunk := Hunk{
		OldStart: oldStart,
		NewStart: newStart,
		Lines:    append([]Line(nil), lines...),
	}
	for _, line := range lines {
		if line.Op != Insert {
			hunk.OldCount++
		}
		if line.Op != Delete {
			hunk.NewCount++
		}
	}
	// An empty side points at the line before the hunk.
	if hunk.OldCount == 0 {
		hunk.OldStart--
	}
	if hunk.NewCount == 0 {
		hunk.NewStart--
	}
	return hunk
}
