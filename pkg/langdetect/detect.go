// Package langdetect guesses the programming language of a code block so the
// converter can tag the Markdown fence it emits. Detection is built on
// go-enry with a handful of cheap pattern checks in front of the classifier.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned by Detect when no language could be determined.
const Text = "text"

// classifierCandidates are the go-enry names the classifier may choose from.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C#", "PHP", "C", "C++", "SQL",
	"JSON", "YAML", "HTML", "XML", "CSS", "Dockerfile",
}

// sample is a code block prepared once for all hint checks.
type sample struct {
	raw     []byte
	trimmed []byte
	text    string
}

// hint maps a cheap textual check to a fence tag.
type hint struct {
	lang  string
	match func(s sample) bool
}

// hints are tried in order and the first match wins, so the more
// distinctive markers come first.
//
//nolint:gochecknoglobals // Read-only rule table.
var hints = []hint{
	{"go", func(s sample) bool { return bytes.HasPrefix(s.trimmed, []byte("package ")) }},
	{"php", func(s sample) bool { return bytes.HasPrefix(s.trimmed, []byte("<?php")) }},
	{"xml", func(s sample) bool { return bytes.HasPrefix(s.trimmed, []byte("<?xml")) }},
	{"csharp", func(s sample) bool { return containsAny(s.text, "using System", "Console.WriteLine") }},
	{"java", func(s sample) bool {
		return containsAny(s.text, "System.out.print", "public static void main(String")
	}},
	{"python", isPython},
	{"html", func(s sample) bool {
		return containsAny(strings.ToLower(string(s.trimmed)), "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(s sample) bool {
		return hasPrefixAny(string(s.trimmed), "{", "[") && bytes.ContainsRune(s.trimmed, '"')
	}},
	{"dockerfile", isDockerfile},
	{"sql", func(s sample) bool {
		return hasPrefixAny(strings.ToUpper(string(s.trimmed)), "SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE ")
	}},
	{"rust", func(s sample) bool { return containsAny(s.text, "fn main()", "println!", "let mut ") }},
	{"javascript", func(s sample) bool { return containsAny(s.text, "=>", "const ", "let ", "console.log") }},
	{"yaml", isYAML},
}

// FenceInfo returns the info string for a fenced code block holding
// content, or "" when the language is unknown.
func FenceInfo(content []byte) string {
	if lang := Detect(content); lang != Text {
		return lang
	}
	return ""
}

// Detect returns the fence tag for content, or Text. A shebang wins over
// everything else; the go-enry classifier is only consulted when no hint
// matches and its answer is unambiguous.
func Detect(content []byte) string {
	if len(content) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fenceTag(lang)
	}

	s := sample{raw: content, trimmed: bytes.TrimSpace(content), text: string(content)}
	for _, h := range hints {
		if h.match(s) {
			return h.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return fenceTag(lang)
	}
	return Text
}

func isPython(s sample) bool {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return true
	}
	// "import (" is Go.
	if strings.Contains(s.text, "import ") && !strings.Contains(s.text, "import (") &&
		(strings.Contains(s.text, "from ") || bytes.HasPrefix(s.trimmed, []byte("import "))) {
		return true
	}
	return containsAny(s.text, "__name__", "__main__")
}

func isDockerfile(s sample) bool {
	switch {
	case bytes.HasPrefix(s.trimmed, []byte("FROM ")):
		return true
	case strings.Contains(s.text, "\nFROM ") && strings.Contains(s.text, "\nRUN "):
		return true
	default:
		return strings.Contains(s.text, "WORKDIR ") && strings.Contains(s.text, "COPY ")
	}
}

// isYAML counts "key: value" lines and root list items; two or more make
// the block YAML. Lines that look like code are not counted.
func isYAML(s sample) bool {
	count := 0
	for line := range bytes.SplitSeq(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({") && line[0] != '"' {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count >= 2
}

// fenceTag converts a go-enry language name to a fence tag.
func fenceTag(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C#":
		return "csharp"
	case "C++":
		return "cpp"
	default:
		return strings.ToLower(lang)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasPrefixAny(s string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
