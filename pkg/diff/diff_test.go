package diff_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/backlogmd/pkg/diff"
)

func TestCompute_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, diff.Compute("a.md", nil, nil))
	assert.Nil(t, diff.Compute("a.md", []byte("x\ny\n"), []byte("x\ny\n")))
	// Only the trailing newline differs.
	assert.Nil(t, diff.Compute("a.md", []byte("x\ny"), []byte("x\ny\n")))

	var d *diff.Diff
	assert.False(t, d.HasChanges())
	assert.Empty(t, d.String())
}

func TestCompute_SingleLineChange(t *testing.T) {
	t.Parallel()

	d := diff.Compute("a.md", []byte("a\nb\nc\n"), []byte("a\nB\nc\n"))
	require.NotNil(t, d)

	assert.Equal(t, 1, d.Additions)
	assert.Equal(t, 1, d.Deletions)
	assert.Equal(t,
		"--- a/a.md\n+++ b/a.md\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n",
		d.String())
}

func TestCompute_NewFile(t *testing.T) {
	t.Parallel()

	d := diff.Compute("/out/a.md", nil, []byte("x\ny\n"))
	require.NotNil(t, d)

	assert.Equal(t, 2, d.Additions)
	assert.Zero(t, d.Deletions)
	assert.Equal(t, "--- a/out/a.md\n+++ b/out/a.md\n@@ -0,0 +1,2 @@\n+x\n+y\n", d.String())
}

func TestCompute_RemovedContent(t *testing.T) {
	t.Parallel()

	d := diff.Compute("a.md", []byte("x\ny\n"), []byte(""))
	require.NotNil(t, d)
	require.Len(t, d.Hunks, 1)

	assert.Equal(t, "@@ -1,2 +0,0 @@", d.Hunks[0].Header())
	assert.Equal(t, 2, d.Deletions)
}

func TestCompute_SeparateHunks(t *testing.T) {
	t.Parallel()

	before := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\n"
	after := "L1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nL10\n"

	d := diff.Compute("a.md", []byte(before), []byte(after))
	require.NotNil(t, d)
	require.Len(t, d.Hunks, 2)

	assert.Equal(t, "@@ -1,4 +1,4 @@", d.Hunks[0].Header())
	assert.Equal(t, "@@ -7,4 +7,4 @@", d.Hunks[1].Header())
	assert.Equal(t, 2, d.Additions)
	assert.Equal(t, 2, d.Deletions)
}

func TestCompute_NearbyChangesMerge(t *testing.T) {
	t.Parallel()

	d := diff.Compute("a.md", []byte("a\nb\nc\nd\ne\n"), []byte("A\nb\nc\nd\nE\n"))
	require.NotNil(t, d)

	require.Len(t, d.Hunks, 1)
	assert.Equal(t, "@@ -1,5 +1,5 @@", d.Hunks[0].Header())
}

func TestCompute_Insertion(t *testing.T) {
	t.Parallel()

	d := diff.Compute("a.md", []byte("# T\n\nbody\n"), []byte("# T\n\n```\ncode\n```\n\nbody\n"))
	require.NotNil(t, d)

	assert.Equal(t, 4, d.Additions)
	assert.Zero(t, d.Deletions)

	var inserted []string
	for _, line := range d.Hunks[0].Lines {
		if line.Op == diff.Insert {
			inserted = append(inserted, line.Text)
		}
	}
	assert.Equal(t, []string{"```", "code", "```", ""}, inserted)
}

func TestLine_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, " x", diff.Line{Op: diff.Equal, Text: "x"}.String())
	assert.Equal(t, "-x", diff.Line{Op: diff.Delete, Text: "x"}.String())
	assert.Equal(t, "+x", diff.Line{Op: diff.Insert, Text: "x"}.String())
}

func TestCompute_LargeInput(t *testing.T) {
	t.Parallel()

	var before, after strings.Builder
	for i := range 3000 {
		before.WriteString("old line ")
		before.WriteString(strings.Repeat("a", i%7))
		before.WriteByte('\n')
		after.WriteString("new line\n")
	}

	d := diff.Compute("a.md", []byte(before.String()), []byte(after.String()))
	require.NotNil(t, d)

	assert.Equal(t, 3000, d.Additions)
	assert.Equal(t, 3000, d.Deletions)
}
