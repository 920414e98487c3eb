package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
// The YAML template documents every key; the JSON template carries the
// default values only.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(NewConfig())
	}

	defaults := NewConfig()

	var buf strings.Builder
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, `# Use CRLF line endings in generated Markdown
crlf: false

# Promote the first row of a table without a header row to be its header.
# When false an empty header row is inserted instead.
promote_header: false

# Add a detected language to fenced code blocks (e.g. `+"```go"+`)
detect_code_language: false

# Charset of input that is not UTF-8: an IANA name or "auto"
input_encoding: %s

# Source file extensions converted when a directory is given
extensions:
`, defaults.InputEncoding)
	for _, ext := range defaults.Extensions {
		fmt.Fprintf(&buf, "  - %q\n", ext)
	}
	fmt.Fprintf(&buf, `
# Extension of generated files
output_extension: %q

# Write outputs below this directory instead of next to the sources
# output_dir: docs

# File patterns to skip (glob patterns)
# ignore:
#   - "archive/**"

# Parse generated Markdown and warn about blocks that went missing
verify: false

# Replace existing output files
overwrite: false

# Keep a copy of an output before it is overwritten
backup: false
`, defaults.OutputExtension)

	return []byte(buf.String()), nil
}

// templateToJSON renders the persisted fields of cfg as indented JSON.
func templateToJSON(cfg *Config) ([]byte, error) {
	out := map[string]any{
		"crlf":                 Enabled(cfg.CRLF),
		"promote_header":       Enabled(cfg.PromoteHeader),
		"detect_code_language": Enabled(cfg.DetectCodeLanguage),
		"input_encoding":       cfg.InputEncoding,
		"extensions":           cfg.Extensions,
		"output_extension":     cfg.OutputExtension,
		"verify":               Enabled(cfg.Verify),
		"overwrite":            Enabled(cfg.Overwrite),
		"backup":               Enabled(cfg.Backup),
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# backlogmd configuration
# See: https://github.com/yaklabco/backlogmd`
}
