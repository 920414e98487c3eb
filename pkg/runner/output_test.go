package runner_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/backlogmd/pkg/runner"
)

func TestOutputPath(t *testing.T) {
	t.Parallel()

	work := filepath.FromSlash("/work")
	src := runner.Source{
		Path: filepath.FromSlash("/work/wiki/team/page.backlog"),
		Rel:  filepath.FromSlash("team/page.backlog"),
	}

	tests := []struct {
		name      string
		ext       string
		outputDir string
		want      string
	}{
		{name: "next to source", ext: ".md", want: "/work/wiki/team/page.md"},
		{name: "custom extension", ext: ".markdown", want: "/work/wiki/team/page.markdown"},
		{name: "relative output dir", ext: ".md", outputDir: "out", want: "/work/out/team/page.md"},
		{name: "absolute output dir", ext: ".md", outputDir: filepath.FromSlash("/docs"), want: "/docs/team/page.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runner.OutputPath(src, tt.ext, tt.outputDir, work)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}
