package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// ToYAML encodes c with two-space indentation. A nil config encodes to nil.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// ToYAMLWithHeader is ToYAML preceded by header and a blank line.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	body, err := c.ToYAML()
	if err != nil || header == "" {
		return body, err
	}

	header = strings.TrimSuffix(header, "\n")
	out := make([]byte, 0, len(header)+2+len(body))
	out = append(out, header...)
	out = append(out, "\n\n"...)
	return append(out, body...), nil
}

// FromYAML decodes a config file body. Absent keys stay nil or empty so
// the layer merge can tell them apart from explicit values.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// Clone returns a copy of c that shares no pointers or slices with it.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := *c
	for _, p := range []**bool{
		&out.CRLF, &out.PromoteHeader, &out.DetectCodeLanguage,
		&out.Verify, &out.Overwrite, &out.Backup,
	} {
		if *p != nil {
			*p = Bool(**p)
		}
	}
	out.Extensions = slices.Clone(c.Extensions)
	out.Ignore = slices.Clone(c.Ignore)
	return &out
}
