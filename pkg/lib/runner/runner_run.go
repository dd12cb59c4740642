package runner

import (
	"context"
	"time"

	"github.com/surgent-dev/opencode-config/pkg/lib"
)

// Result is the outcome of a command that ran to completion. A non-zero exit
// code is a normal Result, not an error.
type Result struct {
	ID       string
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Succeeded reports a zero exit code.
func (r *Result) Succeeded() bool {
	return r != nil && r.ExitCode == 0
}

// Wait blocks until the command exits. If ctx ends first the process group
// is killed and ctx's error is returned.
func (runner *Runner) Wait(ctx context.Context, id string) (*StatusResult, error) {
	pe, err := runner.getProcess(id)
	if err != nil {
		return nil, err
	}
	select {
	case <-pe.done:
	case <-ctx.Done():
		runner.logger.Debug("context done, stopping command", "id", lib.ShortID(id))
		_, _ = runner.Stop(id)
		return nil, ctx.Err()
	}
	status := pe.lockAndGetStatus()
	return &StatusResult{Command: &pe.command, Status: &status}, nil
}

// Run executes line in the runner's directory and waits for it, returning
// the captured output.
func (runner *Runner) Run(ctx context.Context, line string) (*Result, error) {
	return runner.RunCommand(ctx, lib.Command{Line: line})
}

// RunCommand is Run for a fully specified command.
func (runner *Runner) RunCommand(ctx context.Context, command lib.Command) (*Result, error) {
	started, err := runner.Start(ctx, command)
	if err != nil {
		return nil, err
	}
	defer runner.forget(started.ID)

	st, err := runner.Wait(ctx, started.ID)
	if err != nil {
		return nil, err
	}

	pe, err := runner.getProcess(started.ID)
	if err != nil {
		return nil, err
	}
	res := &Result{
		ID:       started.ID,
		Command:  command.String(),
		ExitCode: -1,
		Stdout:   pe.stdout.String(),
		Stderr:   pe.stderr.String(),
	}
	if st.Status.ExitCode != nil {
		res.ExitCode = *st.Status.ExitCode
	}
	if st.Status.EndTime != nil {
		res.Duration = st.Status.EndTime.Sub(st.Status.StartTime)
	}
	return res, nil
}
