// Package supervisor is a thin query/command adapter over an external,
// always-on process manager (pm2). It never owns processes; it asks the
// manager to start or restart them and reads back its process table.
package supervisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/surgent-dev/opencode-config/pkg/lib"
	"github.com/surgent-dev/opencode-config/pkg/lib/runner"
)

// Supervisor is what the pipeline needs from a process manager.
type Supervisor interface {
	// IsOnline is fail-closed: any doubt reads as not running.
	IsOnline(ctx context.Context, name string) bool
	Start(ctx context.Context, name, command string) error
	// Restart flushes the process's buffered logs first, then restarts it.
	Restart(ctx context.Context, name string) error
	List(ctx context.Context) ([]lib.ProcessRecord, error)
}

// Executor runs one command to completion. *runner.Runner satisfies it.
type Executor interface {
	RunCommand(ctx context.Context, command lib.Command) (*runner.Result, error)
}

// SupervisorError reports a manager command that could not be run or exited
// non-zero. Output carries whatever it printed, for diagnostics.
type SupervisorError struct {
	Op       string
	Name     string
	ExitCode int
	Output   string
	Err      error
}

func (e *SupervisorError) Error() string {
	target := e.Op
	if e.Name != "" {
		target += " " + e.Name
	}
	if e.Err != nil {
		return fmt.Sprintf("supervisor %s: %v", target, e.Err)
	}
	return fmt.Sprintf("supervisor %s: exit code %d", target, e.ExitCode)
}

func (e *SupervisorError) Unwrap() error { return e.Err }

// ParseError is returned when the process list output does not have the
// expected shape.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "supervisor: unparsable process list: " + e.Reason
}

// Find returns the record called name.
func Find(records []lib.ProcessRecord, name string) (lib.ProcessRecord, bool) {
	for _, r := range records {
		if r.Name == name {
			return r, true
		}
	}
	return lib.ProcessRecord{}, false
}

// combinedOutput joins both streams of a result for error reports.
func combinedOutput(res *runner.Result) string {
	if res == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
		parts = append(parts, out)
	}
	if errOut := strings.TrimRight(res.Stderr, "\n"); errOut != "" {
		parts = append(parts, errOut)
	}
	return strings.Join(parts, "\n")
}
