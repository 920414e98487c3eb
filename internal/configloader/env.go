package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/backlogmd/pkg/config"
)

const envVarPrefix = "BACKLOGMD_"

// envMapping ties one BACKLOGMD_* variable to a config key.
type envMapping struct {
	field       string
	description string
	apply       func(cfg *config.Config, raw string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"CRLF": {"crlf", "Emit CRLF line endings: true or false",
		boolSetter(func(c *config.Config) **bool { return &c.CRLF })},
	"PROMOTE_HEADER": {"promote_header", "Promote the first table row to header: true or false",
		boolSetter(func(c *config.Config) **bool { return &c.PromoteHeader })},
	"DETECT_CODE_LANGUAGE": {"detect_code_language", "Add detected languages to code fences: true or false",
		boolSetter(func(c *config.Config) **bool { return &c.DetectCodeLanguage })},
	"VERIFY": {"verify", "Verify generated Markdown: true or false",
		boolSetter(func(c *config.Config) **bool { return &c.Verify })},
	"OVERWRITE": {"overwrite", "Replace existing outputs: true or false",
		boolSetter(func(c *config.Config) **bool { return &c.Overwrite })},
	"BACKUP": {"backup", "Back up outputs before replacing them: true or false",
		boolSetter(func(c *config.Config) **bool { return &c.Backup })},

	"INPUT_ENCODING": {"input_encoding", "Charset of non-UTF-8 input, or auto",
		func(c *config.Config, raw string) error { c.InputEncoding = raw; return nil }},
	"OUTPUT_EXTENSION": {"output_extension", "Extension of generated files",
		func(c *config.Config, raw string) error { c.OutputExtension = raw; return nil }},
	"OUTPUT_DIR": {"output_dir", "Directory receiving generated files",
		func(c *config.Config, raw string) error { c.OutputDir = raw; return nil }},
	"FORMAT": {"format", "Report format: text, table, json, or diff",
		func(c *config.Config, raw string) error { c.Format = config.OutputFormat(raw); return nil }},

	"EXTENSIONS": {"extensions", "Comma-separated list of source extensions",
		func(c *config.Config, raw string) error { c.Extensions = splitList(raw); return nil }},
	"IGNORE": {"ignore", "Comma-separated list of ignore patterns",
		func(c *config.Config, raw string) error { c.Ignore = splitList(raw); return nil }},

	"JOBS": {"jobs", "Number of parallel workers (0 = auto)",
		func(c *config.Config, raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("invalid integer %q", raw)
			}
			c.Jobs = n
			return nil
		}},
}

func boolSetter(field func(*config.Config) **bool) func(*config.Config, string) error {
	return func(c *config.Config, raw string) error {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", raw)
		}
		*field(c) = config.Bool(v)
		return nil
	}
}

// LoadFromEnv applies every non-empty BACKLOGMD_* variable to cfg.
// Variables are applied in name order, so the first bad one reported is
// stable across runs.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, suffix := range slices.Sorted(maps.Keys(envMappings)) {
		name := envVarPrefix + suffix
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		if err := envMappings[suffix].apply(cfg, raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// splitList splits a comma-separated value and drops empty items.
func splitList(raw string) []string {
	var out []string
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GetEnvVarName returns the variable that sets field, or "".
func GetEnvVarName(field string) string {
	for suffix, m := range envMappings {
		if m.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars maps each supported variable to its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, m := range envMappings {
		vars[envVarPrefix+suffix] = m.description
	}
	return vars
}
