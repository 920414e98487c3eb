package cli

import (
	"errors"

	"github.com/yaklabco/backlogmd/pkg/runner"
)

// Exit codes for backlogmd.
const (
	// ExitSuccess indicates every file converted.
	ExitSuccess = 0

	// ExitConversionFailed indicates at least one file failed to convert.
	ExitConversionFailed = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65
)

var (
	// ErrConversionFailed is returned when one or more files failed.
	// The failures themselves are already in the report.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrUsage marks invalid arguments or flags.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration that could not be loaded or validated.
	ErrConfig = errors.New("configuration error")
)

// ExitCodeFromResult determines the exit code for a finished run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitConversionFailed
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitConversionFailed
	}
}
