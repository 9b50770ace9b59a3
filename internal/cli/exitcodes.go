package cli

import "github.com/yaklabco/diffprep/pkg/runner"

// Exit codes for diffprep.
const (
	// ExitSuccess indicates successful execution with no problems.
	ExitSuccess = 0

	// ExitIngestErrors indicates ingestion completed but some files failed.
	ExitIngestErrors = 1

	// ExitIngestWarnings indicates ingestion completed with soft diagnostics
	// (when strict mode).
	ExitIngestWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitIngestErrors
	}

	if strict && result.HasWarnings() {
		return ExitIngestWarnings
	}

	return ExitSuccess
}
