package notation

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // Compiled once.
var contentsPattern = regexp.MustCompile(`(?m)^#contents$`)

// normalize converts CRLF to LF, pads the document so every line (including
// the first and last) is newline-delimited, and swaps #contents lines for a
// [toc] marker.
func normalize(source string) string {
	doc := strings.ReplaceAll(source, "\r\n", "\n")
	doc = "\n" + doc + "\n\n"
	return contentsPattern.ReplaceAllString(doc, "[toc]\n")
}

// collapseBlankLines reduces every run of three or more newlines to exactly
// two, repeating until no run is left.
func collapseBlankLines(doc string) string {
	for strings.Contains(doc, "\n\n\n") {
		doc = strings.ReplaceAll(doc, "\n\n\n", "\n\n")
	}
	return doc
}

// finish trims the document and applies the requested line endings.
func finish(doc string, crlf bool) string {
	doc = strings.TrimSpace(doc)
	if crlf {
		doc = strings.ReplaceAll(doc, "\n", "\r\n")
	}
	return doc
}
