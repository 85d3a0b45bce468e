package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeScenarioInvalid, "test error message")

	if err.Code != ErrCodeScenarioInvalid {
		t.Errorf("expected code %s, got %s", ErrCodeScenarioInvalid, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeFileReadFailed, "failed to read file", cause)

	if err.Code != ErrCodeFileReadFailed {
		t.Errorf("expected code %s, got %s", ErrCodeFileReadFailed, err.Code)
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *RankError
		contains []string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeConfigInvalid, "bad weights"),
			contains: []string{"[CONFIG-001]", "bad weights"},
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeFileReadFailed, "read failed", fmt.Errorf("permission denied")),
			contains: []string{"[IO-002]", "read failed", "permission denied"},
		},
		{
			name:     "error with suggestions",
			err:      NewDuplicateIDError("login-1"),
			contains: []string{"[SCENARIO-002]", "login-1", "Suggestions:", "first occurrence"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want it to contain %q", msg, want)
				}
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewCycleError("a"))
	if got := CodeOf(wrapped); got != ErrCodeDependencyCycle {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeDependencyCycle)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
}

func TestNewExecError(t *testing.T) {
	timeout := NewExecError("s1", fmt.Errorf("run: %w", context.DeadlineExceeded))
	if timeout.Code != ErrCodeExecTimeout {
		t.Errorf("deadline cause code = %s, want %s", timeout.Code, ErrCodeExecTimeout)
	}
	if timeout.ScenarioID != "s1" {
		t.Errorf("ScenarioID = %q, want s1", timeout.ScenarioID)
	}

	failed := NewExecError("s2", fmt.Errorf("browser crashed"))
	if failed.Code != ErrCodeExecFailed {
		t.Errorf("generic cause code = %s, want %s", failed.Code, ErrCodeExecFailed)
	}
}

func TestMissingIDError(t *testing.T) {
	err := NewMissingIDError(3)
	if !strings.Contains(err.Error(), "position 3") {
		t.Errorf("expected position in message, got %q", err.Error())
	}
}
