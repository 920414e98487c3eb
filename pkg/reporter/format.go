package reporter

import (
	"fmt"
	"slices"
)

// Format names a report layout.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatDiff  Format = "diff"
)

//nolint:gochecknoglobals // Read-only list of known formats.
var formats = []Format{FormatText, FormatTable, FormatJSON, FormatDiff}

// ParseFormat maps a --format value to a Format. The empty string is text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	if f := Format(s); f.IsValid() {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: text, table, json, diff", s)
}

func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is one of the known formats.
func (f Format) IsValid() bool {
	return slices.Contains(formats, f)
}
