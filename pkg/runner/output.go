package runner

import (
	"path/filepath"
	"strings"
)

// OutputPath returns where the Markdown for src is written. The source
// extension is replaced by outputExt. With an empty outputDir the output
// sits next to the source; otherwise src.Rel is mirrored below outputDir,
// which is resolved against workDir when relative.
func OutputPath(src Source, outputExt, outputDir, workDir string) string {
	if outputDir == "" {
		return replaceExt(src.Path, outputExt)
	}
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(workDir, outputDir)
	}
	return filepath.Join(outputDir, replaceExt(src.Rel, outputExt))
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
