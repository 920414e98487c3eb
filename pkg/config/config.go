// Package config defines the configuration types for backlogmd.
// These types are plain data with no dependency on how they are loaded.
package config

import (
	"github.com/yaklabco/backlogmd/pkg/encoding"
	"github.com/yaklabco/backlogmd/pkg/notation"
)

// OutputFormat specifies the format of the run report.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatDiff  OutputFormat = "diff"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// Default values for file selection and output naming.
const (
	DefaultOutputExtension = ".md"
)

// DefaultExtensions returns the source extensions converted by default.
func DefaultExtensions() []string {
	return []string{".backlog", ".bl"}
}

// Config is the root configuration structure for backlogmd.
//
// Boolean switches are pointers so that a layer can turn a switch off again
// after a lower layer turned it on.
type Config struct {
	// CRLF emits two-character line endings.
	CRLF *bool `yaml:"crlf,omitempty"`

	// PromoteHeader turns the first data row of a headerless table into its
	// header instead of inserting an empty header row.
	PromoteHeader *bool `yaml:"promote_header,omitempty"`

	// DetectCodeLanguage adds a language hint to restored code fences.
	DetectCodeLanguage *bool `yaml:"detect_code_language,omitempty"`

	// InputEncoding is the charset used for input that is not UTF-8,
	// or "auto" for detection.
	InputEncoding string `yaml:"input_encoding,omitempty"`

	// Extensions lists the source file extensions picked up from directories.
	Extensions []string `yaml:"extensions,omitempty"`

	// OutputExtension replaces the source extension on written files.
	OutputExtension string `yaml:"output_extension,omitempty"`

	// OutputDir places outputs under this directory, mirroring the layout
	// below each input root. Empty writes next to the source.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Verify parses each output with a Markdown parser and reports
	// structure that went missing.
	Verify *bool `yaml:"verify,omitempty"`

	// Overwrite replaces existing output files.
	Overwrite *bool `yaml:"overwrite,omitempty"`

	// Backup copies an existing output aside before it is overwritten.
	Backup *bool `yaml:"backup,omitempty"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Format specifies the report format.
	Format OutputFormat `yaml:"-"`

	// Stdout prints converted Markdown instead of writing files.
	Stdout bool `yaml:"-"`

	// DryRun converts without writing anything.
	DryRun bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		CRLF:               Bool(false),
		PromoteHeader:      Bool(false),
		DetectCodeLanguage: Bool(false),
		InputEncoding:      encoding.DefaultCharset,
		Extensions:         DefaultExtensions(),
		OutputExtension:    DefaultOutputExtension,
		Verify:             Bool(false),
		Overwrite:          Bool(false),
		Backup:             Bool(false),
		Format:             FormatText,
		Jobs:               0, // 0 means use NumCPU
	}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

// Enabled reports whether a switch is set. A nil switch is off.
func Enabled(v *bool) bool {
	return v != nil && *v
}

// NotationOptions returns the converter options selected by the config.
func (c *Config) NotationOptions() notation.Options {
	return notation.Options{
		CRLF:               Enabled(c.CRLF),
		PromoteHeader:      Enabled(c.PromoteHeader),
		DetectCodeLanguage: Enabled(c.DetectCodeLanguage),
	}
}
