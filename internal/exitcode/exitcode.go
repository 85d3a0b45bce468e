package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/testrank/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// InputError indicates an unreadable or malformed scenario, stats or hints file
	InputError = 3

	// ConfigError indicates an invalid configuration
	ConfigError = 4

	// Interrupted indicates the run was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error to an exit code. Coded errors map by
// code family; anything else falls back to message inspection.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	code := string(errors.CodeOf(err))
	switch {
	case code == string(errors.ErrCodeCancelled):
		return Interrupted
	case strings.HasPrefix(code, "CONFIG-"):
		return ConfigError
	case strings.HasPrefix(code, "IO-"), strings.HasPrefix(code, "SCENARIO-"):
		return InputError
	case code != "":
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "accepts") {
		return UsageError
	}
	if strings.Contains(errMsg, "unknown format") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case InputError:
		return "Input error (unreadable or malformed file)"
	case ConfigError:
		return "Configuration error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
