// Package runner converts many Backlog files concurrently.
package runner

import (
	"github.com/yaklabco/backlogmd/pkg/config"
	"github.com/yaklabco/backlogmd/pkg/notation"
)

// Options controls a multi-file conversion run.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of source file extensions (with leading dot)
	// picked up from directories. Defaults to config.DefaultExtensions().
	// Files named explicitly in Paths are converted whatever their extension.
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories,
	// relative to WorkingDir.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Config is the resolved configuration for this run.
	// Nil means config.NewConfig().
	Config *config.Config
}

// OptionsFromConfig builds run options for paths from a resolved config.
func OptionsFromConfig(paths []string, cfg *config.Config) Options {
	return Options{
		Paths:        paths,
		Extensions:   cfg.Extensions,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Config:       cfg,
	}
}

// ConverterFactory returns a converter for one worker.
type ConverterFactory func() Converter

// Converter turns Backlog notation into Markdown.
// *notation.Converter satisfies it.
type Converter interface {
	ConvertWithStats(source string) notation.Result
}

// NotationFactory returns a factory producing notation converters for opts.
func NotationFactory(opts notation.Options) ConverterFactory {
	return func() Converter {
		return notation.New(opts)
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveConfig() *config.Config {
	if o.Config == nil {
		return config.NewConfig()
	}
	return o.Config
}
