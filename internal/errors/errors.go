package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Scenario ingestion errors (SCENARIO-001 to SCENARIO-099)
	ErrCodeScenarioMissingID   ErrorCode = "SCENARIO-001"
	ErrCodeScenarioDuplicateID ErrorCode = "SCENARIO-002"
	ErrCodeScenarioMissingRef  ErrorCode = "SCENARIO-003"
	ErrCodeScenarioInvalid     ErrorCode = "SCENARIO-004"

	// Advisor errors (ADVISOR-001 to ADVISOR-099)
	ErrCodeAdvisorFailed    ErrorCode = "ADVISOR-001"
	ErrCodeAdvisorMalformed ErrorCode = "ADVISOR-002"

	// Dependency errors (DEP-001 to DEP-099)
	ErrCodeDependencyCycle ErrorCode = "DEP-001"

	// Historical stats errors (STATS-001 to STATS-099)
	ErrCodeStatsUnavailable ErrorCode = "STATS-001"

	// Execution errors (EXEC-001 to EXEC-099)
	ErrCodeExecFailed  ErrorCode = "EXEC-001"
	ErrCodeExecTimeout ErrorCode = "EXEC-002"

	// Run errors (RUN-001 to RUN-099)
	ErrCodeCancelled ErrorCode = "RUN-001"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"
)

// RankError represents an enhanced error with code and suggestions
type RankError struct {
	Code        ErrorCode
	Message     string
	ScenarioID  string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *RankError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *RankError) Unwrap() error {
	return e.Cause
}

// New creates a new RankError
func New(code ErrorCode, message string) *RankError {
	return &RankError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new RankError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *RankError {
	return &RankError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *RankError) WithSuggestion(suggestion string) *RankError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithScenario attaches the scenario the error is about
func (e *RankError) WithScenario(id string) *RankError {
	e.ScenarioID = id
	return e
}

// CodeOf returns the code of the first RankError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var rankErr *RankError
	if errors.As(err, &rankErr) {
		return rankErr.Code
	}
	return ""
}

// NewMissingIDError reports a scenario record without an id. Position is the
// record's zero-based index in the input.
func NewMissingIDError(position int) *RankError {
	return New(ErrCodeScenarioMissingID, fmt.Sprintf("scenario at position %d has no scenario_id", position)).
		WithSuggestion("Every scenario needs a unique scenario_id")
}

// NewDuplicateIDError reports a scenario id seen more than once in a batch
func NewDuplicateIDError(id string) *RankError {
	return New(ErrCodeScenarioDuplicateID, fmt.Sprintf("duplicate scenario_id %q", id)).
		WithScenario(id).
		WithSuggestion("The first occurrence is kept; rename or remove the later records")
}

// NewMissingReferenceError reports a depends_on entry pointing outside the batch
func NewMissingReferenceError(id, ref string) *RankError {
	return New(ErrCodeScenarioMissingRef, fmt.Sprintf("scenario %q depends on %q which is not in the batch", id, ref)).
		WithScenario(id)
}

// NewCycleError reports a scenario left unresolved by a dependency cycle
func NewCycleError(id string) *RankError {
	return New(ErrCodeDependencyCycle, fmt.Sprintf("scenario %q is part of or blocked by a dependency cycle", id)).
		WithScenario(id).
		WithSuggestion("Break the cycle in depends_on; the scenario is scheduled last until then")
}

// NewAdvisorError wraps an advisor failure
func NewAdvisorError(cause error) *RankError {
	return Wrap(ErrCodeAdvisorFailed, "advisor unavailable, using heuristic risk scores", cause)
}

// NewAdvisorMalformedError reports an unusable advisor suggestion
func NewAdvisorMalformedError(id, detail string) *RankError {
	return New(ErrCodeAdvisorMalformed, fmt.Sprintf("advisor suggestion for %q rejected: %s", id, detail)).
		WithScenario(id)
}

// NewExecError wraps a real-execution failure for one scenario
func NewExecError(id string, cause error) *RankError {
	code := ErrCodeExecFailed
	if errors.Is(cause, context.DeadlineExceeded) {
		code = ErrCodeExecTimeout
	}
	return Wrap(code, fmt.Sprintf("execution of scenario %q produced no outcome", id), cause).
		WithScenario(id)
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *RankError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Run 'testrank config show' to see the effective configuration").
		WithSuggestion("Run 'testrank config init' to write a default configuration file")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *RankError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *RankError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
