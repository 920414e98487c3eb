// Package encoding turns Backlog exports into UTF-8 text.
//
// Backlog wiki exports are frequently Shift_JIS. Decode strips byte order
// marks, passes valid UTF-8 through untouched, and otherwise decodes the
// content with the configured fallback charset.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Auto selects charset detection instead of a fixed fallback charset.
const Auto = "auto"

// DefaultCharset is the fallback charset for content that is not UTF-8.
const DefaultCharset = "shift_jis"

// UTF8 is the canonical name reported for UTF-8 content.
const UTF8 = "utf-8"

const (
	// nullCheckLen bounds the prefix inspected by IsBinary.
	nullCheckLen = 1024
	// nullThreshold is the share of NUL bytes above which content is binary.
	nullThreshold = 0.15
)

// autoCandidates are tried in order when the fallback is Auto and the
// content is not UTF-8. The first charset that decodes without
// replacement characters wins.
//
//nolint:gochecknoglobals // Read-only candidate list.
var autoCandidates = []string{"shift_jis", "euc-jp", "iso-2022-jp", "windows-1252"}

// ErrUnknownCharset is returned for charset names that cannot be resolved.
var ErrUnknownCharset = errors.New("unknown charset")

//nolint:gochecknoglobals // Byte order mark constants.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decoded is UTF-8 text plus a record of how it was produced.
type Decoded struct {
	// Text is the content as UTF-8.
	Text []byte

	// Charset is the canonical name of the source charset.
	Charset string

	// BOM reports whether a byte order mark was stripped.
	BOM bool
}

// Decode converts content to UTF-8. fallback names the charset used when
// content carries no byte order mark and is not valid UTF-8; Auto enables
// detection. An empty fallback means DefaultCharset.
func Decode(content []byte, fallback string) (Decoded, error) {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return Decoded{Text: content[len(bomUTF8):], Charset: UTF8, BOM: true}, nil
	case bytes.HasPrefix(content, bomUTF16LE), bytes.HasPrefix(content, bomUTF16BE):
		enc, name, _ := charset.DetermineEncoding(content, "")
		text, err := decodeWith(enc, content)
		if err != nil {
			return Decoded{}, fmt.Errorf("decode %s: %w", name, err)
		}
		return Decoded{Text: trimRuneBOM(text), Charset: name, BOM: true}, nil
	}

	if utf8.Valid(content) {
		return Decoded{Text: content, Charset: UTF8}, nil
	}

	if fallback == "" {
		fallback = DefaultCharset
	}
	if strings.EqualFold(fallback, Auto) {
		return detect(content)
	}

	enc, name, err := Lookup(fallback)
	if err != nil {
		return Decoded{}, err
	}
	text, err := decodeWith(enc, content)
	if err != nil {
		return Decoded{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return Decoded{Text: text, Charset: name}, nil
}

// Lookup resolves a charset label (e.g. "Shift_JIS", "sjis", "cp932") to its
// encoding and canonical name.
func Lookup(label string) (xencoding.Encoding, string, error) {
	enc, name := charset.Lookup(normalizeLabel(label))
	if enc == nil {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownCharset, label)
	}
	return enc, name, nil
}

// Valid reports whether label is Auto or a resolvable charset label.
func Valid(label string) bool {
	if strings.EqualFold(label, Auto) {
		return true
	}
	_, _, err := Lookup(label)
	return err == nil
}

// IsBinary reports whether content looks like binary data: more than 15% of
// its first kilobyte is NUL bytes.
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	prefix := content[:min(len(content), nullCheckLen)]
	nulls := bytes.Count(prefix, []byte{0x00})
	return float64(nulls)/float64(len(prefix)) > nullThreshold
}

// detect tries each candidate charset and keeps the first clean decode.
func detect(content []byte) (Decoded, error) {
	for _, label := range autoCandidates {
		enc, name, err := Lookup(label)
		if err != nil {
			continue
		}
		text, err := decodeWith(enc, content)
		if err != nil || bytes.ContainsRune(text, utf8.RuneError) {
			continue
		}
		return Decoded{Text: text, Charset: name}, nil
	}

	enc, name, _ := charset.DetermineEncoding(content, "")
	text, err := decodeWith(enc, content)
	if err != nil {
		return Decoded{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return Decoded{Text: text, Charset: name}, nil
}

func decodeWith(enc xencoding.Encoding, content []byte) ([]byte, error) {
	reader := transform.NewReader(bytes.NewReader(content), enc.NewDecoder())
	text, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	return text, nil
}

// trimRuneBOM drops a leading U+FEFF left behind by BOM-agnostic decoders.
func trimRuneBOM(text []byte) []byte {
	return bytes.TrimPrefix(text, bomUTF8)
}

// normalizeLabel maps common aliases that the WHATWG label table lacks.
func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "cp932", "ms932", "sjis", "shiftjis", "windows-31j":
		return "shift_jis"
	case "eucjp":
		return "euc-jp"
	case "utf8":
		return UTF8
	}
	return label
}
