// Package configloader resolves the effective backlogmd configuration from
// defaults, config files, BACKLOGMD_* variables and command-line flags.
package configloader

import (
	"context"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/backlogmd/pkg/config"
)

// LoadOptions selects which layers Load reads.
type LoadOptions struct {
	// WorkingDir anchors the project config search. Empty means the
	// process working directory.
	WorkingDir string

	// ExplicitPath is the --config file. It is read even when the other
	// file layers are skipped.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig holds the flags the user actually set.
	CLIConfig *config.Config
}

// LoadResult is the merged configuration plus where it came from.
type LoadResult struct {
	Config     *config.Config
	Paths      *ConfigPaths
	LoadedFrom []string // files read, lowest precedence first
	Warnings   []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (BACKLOGMD_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.backlogmd.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/backlogmd/config.yaml)
//  6. System config (/etc/backlogmd/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	cfg := config.NewConfig()

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath
	result.Paths = paths

	layers := []struct {
		name    string
		path    string
		skipped bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}

	for _, layer := range layers {
		if layer.skipped || layer.path == "" {
			continue
		}

		fileCfg, warnings, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}

		validation := ValidateWithFile(fileCfg, layer.path)
		if !validation.Valid() {
			return nil, &validation.Errors[0]
		}

		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
		result.Warnings = append(result.Warnings, warnings...)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}

	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file.
// Keys the configuration does not know are returned as warnings.
func loadConfigFile(path string) (*config.Config, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse YAML: %w", err)
	}

	var warnings []string
	for _, key := range unknownKeys(raw) {
		warnings = append(warnings, fmt.Sprintf("%s: unknown key %q; it will be ignored", path, key))
	}

	return cfg, warnings, nil
}

// knownKeys lists the keys a config file may carry.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownKeys = []string{
	"crlf",
	"promote_header",
	"detect_code_language",
	"input_encoding",
	"extensions",
	"output_extension",
	"output_dir",
	"ignore",
	"verify",
	"overwrite",
	"backup",
}

func unknownKeys(raw map[string]any) []string {
	var unknown []string
	for key := range raw {
		if !slices.Contains(knownKeys, key) {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	return unknown
}
