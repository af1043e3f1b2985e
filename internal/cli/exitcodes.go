package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/rubynest/internal/configloader"
	"github.com/yaklabco/rubynest/pkg/fsutil"
	"github.com/yaklabco/rubynest/pkg/runner"
)

// Exit codes for rubynest.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitInvalid indicates a check found snippets with syntax errors, or
	// indent --check found files to reindent.
	ExitInvalid = 1

	// ExitIncomplete indicates a strict check found snippets left open.
	ExitIncomplete = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrIssuesFound is returned when a check finds invalid snippets.
	ErrIssuesFound = errors.New("invalid snippets found")

	// ErrIncomplete is returned when a strict check finds incomplete
	// snippets.
	ErrIncomplete = errors.New("incomplete snippets found")

	// ErrChangesFound is returned when indent --check finds files to
	// reindent.
	ErrChangesFound = errors.New("files need reindenting")

	// ErrUsage marks command-line usage errors.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration errors.
	ErrConfig = errors.New("configuration error")
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasInvalid():
		return ExitInvalid
	case strict && result.HasIncomplete():
		return ExitIncomplete
	default:
		return ExitSuccess
	}
}

// errorFromExitCode returns the sentinel error for a check exit code.
func errorFromExitCode(code int) error {
	switch code {
	case ExitInvalid:
		return ErrIssuesFound
	case ExitIncomplete:
		return ErrIncomplete
	default:
		return nil
	}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError
	var pathErr *fs.PathError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrIssuesFound), errors.Is(err, ErrChangesFound):
		return ExitInvalid
	case errors.Is(err, ErrIncomplete):
		return ExitIncomplete
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validation):
		return ExitConfigError
	case errors.As(err, &pathErr), errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrModified):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsReported reports whether err only signals an exit code for problems
// the command has already printed.
func IsReported(err error) bool {
	return errors.Is(err, ErrIssuesFound) || errors.Is(err, ErrIncomplete) || errors.Is(err, ErrChangesFound)
}
