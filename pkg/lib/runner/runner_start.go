package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/surgent-dev/opencode-config/pkg/lib"
	"github.com/surgent-dev/opencode-config/pkg/lib/output_storage"
)

// ErrEmptyCommand is returned when asked to start a blank command line.
var ErrEmptyCommand = errors.New("command is required")

const pipeWaitDelay = 2 * time.Second

type StartResult struct {
	ID     string
	pid    int
	Status *lib.ExitStatus
}

// Start launches the command (command.Line through the shell, or command.Args
// directly) in its own process group and returns immediately. Output is
// captured, never streamed to the terminal.
func (runner *Runner) Start(ctx context.Context, command lib.Command) (*StartResult, error) {
	if strings.TrimSpace(command.Line) == "" && len(command.Args) == 0 {
		return nil, ErrEmptyCommand
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	processID := lib.NewID()

	var cmd *exec.Cmd
	if len(command.Args) > 0 {
		cmd = exec.Command(command.Args[0], command.Args[1:]...)
	} else {
		cmd = exec.Command(runner.shell, "-c", command.Line)
	}
	cmd.Dir = command.Dir
	if cmd.Dir == "" {
		cmd.Dir = runner.dir
	}
	cmd.Env = runner.environ(command.Env)
	cmd.SysProcAttr = sysProcAttr()
	// daemons forked by the command (pm2 spawns one) may inherit the pipes
	cmd.WaitDelay = pipeWaitDelay

	stdout := output_storage.NewOutputStorage()
	stderr := output_storage.NewOutputStorage()

	// stdin stays nil, so the command reads /dev/null
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	entry := &processEntry{
		id:      processID,
		command: command,
		cmd:     cmd,
		done:    make(chan struct{}),
		running: true,
		start:   time.Now(),
		stdout:  stdout,
		stderr:  stderr,
	}

	runner.logger.Debug("starting command", "id", lib.ShortID(processID), "command", command.String(), "dir", cmd.Dir)
	if err := cmd.Start(); err != nil {
		runner.logger.Debug("failed to start command", "id", lib.ShortID(processID), "error", err)
		return nil, fmt.Errorf("start %q: %w", command.String(), err)
	}

	go runner.wait(entry)

	runner.mu.Lock()
	runner.processes[processID] = entry
	runner.mu.Unlock()

	status := entry.lockAndGetStatus()
	return &StartResult{ID: processID, pid: cmd.Process.Pid, Status: &status}, nil
}

func (runner *Runner) wait(entry *processEntry) {
	err := entry.cmd.Wait()

	entry.mu.Lock()
	// ProcessState is set whenever the process was reaped, including when
	// Wait gives up on pipes still held by a forked child (exec.ErrWaitDelay).
	// The exit status comes from the process, not from the copy error.
	if ps := entry.cmd.ProcessState; ps != nil {
		code := ps.ExitCode()
		entry.exitCode = &code
	}
	now := time.Now()
	entry.end = &now
	entry.running = false
	entry.mu.Unlock()

	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, exec.ErrWaitDelay):
		runner.logger.Debug("command exited, output pipes still held by a child", "id", lib.ShortID(entry.id))
	case err != nil && !errors.As(err, &exitErr):
		runner.logger.Debug("command finished with error", "id", lib.ShortID(entry.id), "error", err)
	default:
		runner.logger.Debug("command finished", "id", lib.ShortID(entry.id))
	}
	close(entry.done)
}
