package configloader

import (
	"slices"

	"github.com/yaklabco/backlogmd/pkg/config"
)

// merge lays override on top of base and returns a new config.
// Empty strings and zero jobs in override do not count as set. Switches
// count when non-nil, so a layer can turn one off. Lists replace rather
// than append. Stdout and DryRun only ever switch on.
func merge(base, override *config.Config) *config.Config {
	switch {
	case base == nil:
		return override
	case override == nil:
		return base
	}

	out := base.Clone()

	overrideIfSet(&out.InputEncoding, override.InputEncoding)
	overrideIfSet(&out.OutputExtension, override.OutputExtension)
	overrideIfSet(&out.OutputDir, override.OutputDir)
	overrideIfSet(&out.Format, override.Format)
	overrideIfSet(&out.Jobs, override.Jobs)

	overrideSwitch(&out.CRLF, override.CRLF)
	overrideSwitch(&out.PromoteHeader, override.PromoteHeader)
	overrideSwitch(&out.DetectCodeLanguage, override.DetectCodeLanguage)
	overrideSwitch(&out.Verify, override.Verify)
	overrideSwitch(&out.Overwrite, override.Overwrite)
	overrideSwitch(&out.Backup, override.Backup)

	out.Stdout = out.Stdout || override.Stdout
	out.DryRun = out.DryRun || override.DryRun

	if override.Extensions != nil {
		out.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		out.Ignore = slices.Clone(override.Ignore)
	}
	return out
}

func overrideIfSet[T comparable](dst *T, src T) {
	var zero T
	if src != zero {
		*dst = src
	}
}

func overrideSwitch(dst **bool, src *bool) {
	if src != nil {
		*dst = config.Bool(*src)
	}
}

// MergeAll folds configs left to right; later ones win.
func MergeAll(configs ...*config.Config) *config.Config {
	var out *config.Config
	for _, cfg := range configs {
		out = merge(out, cfg)
	}
	return out
}
