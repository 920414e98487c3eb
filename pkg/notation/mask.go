package notation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// blockKind identifies one of the three masked block categories.
type blockKind int

const (
	kindCode blockKind = iota
	kindQuote
	kindParagraph

	kindCount
)

// tokenNames are the reserved placeholder vocabulary. Source documents are
// assumed never to contain them.
//
//nolint:gochecknoglobals // Read-only lookup table.
var tokenNames = [kindCount]string{
	kindCode:      "BACKLOG2MD_CODE",
	kindQuote:     "BACKLOG2MD_QUOTE",
	kindParagraph: "BACKLOG2MD_PARAGRAPH",
}

//nolint:gochecknoglobals // Compiled once; regexp.Regexp is safe for concurrent use.
var (
	codeBlockPattern  = regexp.MustCompile(`(?s)\n\{code\}(.*?)\{/code\}\n`)
	quoteBlockPattern = regexp.MustCompile(`(?s)\n\{quote\}(.*?)\{/quote\}\n`)

	tokenPatterns = [kindCount]*regexp.Regexp{
		kindCode:      regexp.MustCompile(`\{\{BACKLOG2MD_CODE-(.*?)\}\}`),
		kindQuote:     regexp.MustCompile(`\{\{BACKLOG2MD_QUOTE-(.*?)\}\}`),
		kindParagraph: regexp.MustCompile(`\{\{BACKLOG2MD_PARAGRAPH-(.*?)\}\}`),
	}
)

// paragraphExcludedPrefixes are the first characters that keep a line out of
// paragraph masking. Whitespace is excluded separately.
const paragraphExcludedPrefixes = "*|-+>)`"

// tokenPrefix returns the opening part of a placeholder, e.g. "{{BACKLOG2MD_CODE-".
func tokenPrefix(kind blockKind) string {
	return "{{" + tokenNames[kind] + "-"
}

// placeholder returns the token for the block stored at index.
func placeholder(kind blockKind, index int) string {
	return tokenPrefix(kind) + strconv.Itoa(index) + "}}"
}

// placeholderStore holds masked block content for one conversion.
// Each sequence is append-only; a token's index is its position.
type placeholderStore struct {
	blocks   [kindCount][]string
	restored [kindCount]int
}

// add stores content and returns its placeholder token.
func (s *placeholderStore) add(kind blockKind, content string) string {
	s.blocks[kind] = append(s.blocks[kind], content)
	return placeholder(kind, len(s.blocks[kind])-1)
}

// lookup resolves the index text captured from a token.
func (s *placeholderStore) lookup(kind blockKind, index string) (string, bool) {
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 || i >= len(s.blocks[kind]) {
		return "", false
	}
	return s.blocks[kind][i], true
}

// stats reports how many blocks of each kind were masked and restored.
func (s *placeholderStore) stats() Stats {
	return Stats{
		CodeBlocks:         len(s.blocks[kindCode]),
		CodeRestored:       s.restored[kindCode],
		QuoteBlocks:        len(s.blocks[kindQuote]),
		QuotesRestored:     s.restored[kindQuote],
		Paragraphs:         len(s.blocks[kindParagraph]),
		ParagraphsRestored: s.restored[kindParagraph],
	}
}

// mask hides code blocks, then quote blocks, then plain paragraph lines
// behind placeholders. Afterwards every raw line is blank or starts with a
// structural marker.
func (s *placeholderStore) mask(doc string) string {
	doc = s.maskDelimited(doc, kindCode, codeBlockPattern)
	doc = s.maskDelimited(doc, kindQuote, quoteBlockPattern)
	doc = s.maskParagraphs(doc)
	return separateParagraphRuns(doc)
}

// maskDelimited replaces each {kind}...{/kind} region with a placeholder line.
func (s *placeholderStore) maskDelimited(doc string, kind blockKind, re *regexp.Regexp) string {
	return replaceMatches(re, doc, func(groups []string) string {
		return "\n" + s.add(kind, groups[1]) + "\n"
	})
}

// maskParagraphs replaces every plain prose line with its own placeholder.
func (s *placeholderStore) maskParagraphs(doc string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		if isParagraphLine(line) {
			lines[i] = s.add(kindParagraph, line)
		}
	}
	return strings.Join(lines, "\n")
}

// isParagraphLine reports whether line is prose: non-empty, not a code or
// quote placeholder, and not starting with whitespace or a structural marker.
func isParagraphLine(line string) bool {
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, tokenPrefix(kindCode)) || strings.HasPrefix(line, tokenPrefix(kindQuote)) {
		return false
	}

	first, _ := utf8.DecodeRuneInString(line)
	if unicode.IsSpace(first) {
		return false
	}
	return !strings.ContainsRune(paragraphExcludedPrefixes, first)
}

// separateParagraphRuns puts a blank line after the last paragraph
// placeholder of each run, unless another placeholder follows directly.
func separateParagraphRuns(doc string) string {
	lines := strings.Split(doc, "\n")
	for i := 1; i+1 < len(lines); i++ {
		if isToken(lines[i], kindParagraph) && !strings.HasPrefix(lines[i+1], "{{") {
			lines[i] += "\n"
		}
	}
	return strings.Join(lines, "\n")
}

// isToken reports whether line is exactly one placeholder of kind.
func isToken(line string, kind blockKind) bool {
	return strings.HasPrefix(line, tokenPrefix(kind)) && strings.HasSuffix(line, "}}")
}

// restore replaces every placeholder of kind in doc with render(content).
// Tokens with an unknown index are left as they are.
func (s *placeholderStore) restore(doc string, kind blockKind, render func(content string) string) string {
	return replaceMatches(tokenPatterns[kind], doc, func(groups []string) string {
		content, ok := s.lookup(kind, groups[1])
		if !ok {
			return groups[0]
		}
		s.restored[kind]++
		return render(content)
	})
}
