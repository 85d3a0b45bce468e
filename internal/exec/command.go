package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	osexec "os/exec"
	"strings"

	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// Placeholders substituted into CommandExecutor arguments.
const (
	PlaceholderID       = "{id}"
	PlaceholderCategory = "{category}"
)

// CommandExecutor runs an external command per scenario, for example a
// browser driver script, and reads a JSON Result from its stdout. A
// non-zero exit status is still parsed when stdout carries a result, since
// drivers commonly exit 1 on a failed step.
type CommandExecutor struct {
	Command []string
	Env     []string
}

// Execute implements RealExecutor
func (c *CommandExecutor) Execute(ctx context.Context, s scenario.Scenario) (*Result, error) {
	if len(c.Command) == 0 {
		return nil, fmt.Errorf("no command configured")
	}

	args := buildArgs(c.Command, s)
	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if stdout.Len() == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("run %s: %w: %s", args[0], runErr, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("command %s produced no output", args[0])
	}

	var res Result
	if err := json.Unmarshal(lastLine(stdout.Bytes()), &res); err != nil {
		return nil, fmt.Errorf("parse result of %s: %w", args[0], err)
	}
	return &res, nil
}

func buildArgs(template []string, s scenario.Scenario) []string {
	replacer := strings.NewReplacer(
		PlaceholderID, s.ID,
		PlaceholderCategory, s.Category,
	)
	args := make([]string, len(template))
	for i, a := range template {
		args[i] = replacer.Replace(a)
	}
	return args
}

// lastLine returns the last non-empty line, so drivers may log before
// printing their JSON result.
func lastLine(out []byte) []byte {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	return bytes.TrimSpace(lines[len(lines)-1])
}
