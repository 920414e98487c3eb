package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/backlogmd/pkg/config"
	"github.com/yaklabco/backlogmd/pkg/encoding"
)

// ValidationError is one problem found in a config layer.
type ValidationError struct {
	Field    string // e.g. "extensions[1]"
	Value    any
	Message  string
	FilePath string // empty for the merged config
	Line     int    // zero when unknown
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.FilePath != "" {
		b.WriteString(e.FilePath)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidationResult splits findings into errors, which stop loading, and
// warnings, which are printed and ignored.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

func (r *ValidationResult) Valid() bool       { return len(r.Errors) == 0 }
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// AllMessages lists errors then warnings, each with a severity prefix.
func (r *ValidationResult) AllMessages() []string {
	out := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for i := range r.Errors {
		out = append(out, "error: "+r.Errors[i].Error())
	}
	for i := range r.Warnings {
		out = append(out, "warning: "+r.Warnings[i].Error())
	}
	return out
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, msg string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: msg})
}

// Validate checks cfg. A nil config is valid.
func Validate(cfg *config.Config) *ValidationResult {
	res := &ValidationResult{}
	if cfg == nil {
		return res
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		res.fail("format", cfg.Format, "invalid format %q; must be one of: text, table, json, diff", cfg.Format)
	}
	if cfg.Jobs < 0 {
		res.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.InputEncoding != "" && !encoding.Valid(cfg.InputEncoding) {
		res.fail("input_encoding", cfg.InputEncoding, "unknown charset %q", cfg.InputEncoding)
	}

	for i, ext := range cfg.Extensions {
		if !isExtension(ext) {
			res.fail(fmt.Sprintf("extensions[%d]", i), ext, "invalid extension %q; must start with a dot", ext)
		}
	}
	if out := cfg.OutputExtension; out != "" {
		switch {
		case !isExtension(out):
			res.fail("output_extension", out, "invalid extension %q; must start with a dot", out)
		case containsFold(cfg.Extensions, out):
			res.fail("output_extension", out, "output extension %q is also a source extension", out)
		}
	}

	// Patterns are checked with the same matcher discovery uses.
	for i, pattern := range cfg.Ignore {
		p := strings.TrimSuffix(strings.TrimPrefix(filepath.ToSlash(pattern), "./"), "/")
		if _, err := glob.Compile(p, '/'); err != nil {
			res.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	if config.Enabled(cfg.Backup) && !config.Enabled(cfg.Overwrite) {
		res.warn("backup", true, "backup has no effect without overwrite")
	}
	return res
}

// ValidateWithFile is Validate with every finding attributed to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	res := Validate(cfg)
	for i := range res.Errors {
		res.Errors[i].FilePath = filePath
	}
	for i := range res.Warnings {
		res.Warnings[i].FilePath = filePath
	}
	return res
}

func isExtension(ext string) bool {
	return len(ext) > 1 && ext[0] == '.' && !strings.ContainsAny(ext, `/\`)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
