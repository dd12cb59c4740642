package supervisor

import (
	"context"
	"log/slog"

	"github.com/surgent-dev/opencode-config/pkg/lib"
	"github.com/surgent-dev/opencode-config/pkg/lib/logging"
	"github.com/surgent-dev/opencode-config/pkg/lib/runner"
)

const defaultBinary = "pm2"

// PM2 drives the pm2 CLI.
type PM2 struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

type PM2Option func(*PM2)

// WithBinary points at a specific pm2 executable.
func WithBinary(binary string) PM2Option {
	return func(p *PM2) {
		if binary != "" {
			p.binary = binary
		}
	}
}

func WithLogger(logger *slog.Logger) PM2Option {
	return func(p *PM2) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPM2 creates an adapter that runs pm2 through exec.
func NewPM2(exec Executor, opts ...PM2Option) *PM2 {
	p := &PM2{
		binary: defaultBinary,
		exec:   exec,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ Supervisor = (*PM2)(nil)

func (p *PM2) run(ctx context.Context, op, name string, args ...string) (*runner.Result, error) {
	argv := append([]string{p.binary, op}, args...)
	res, err := p.exec.RunCommand(ctx, lib.Command{Args: argv})
	if err != nil {
		return nil, &SupervisorError{Op: op, Name: name, ExitCode: -1, Err: err}
	}
	if !res.Succeeded() {
		return res, &SupervisorError{Op: op, Name: name, ExitCode: res.ExitCode, Output: combinedOutput(res)}
	}
	return res, nil
}

// List returns pm2's process table (`pm2 jlist`).
func (p *PM2) List(ctx context.Context) ([]lib.ProcessRecord, error) {
	res, err := p.run(ctx, "jlist", "")
	if err != nil {
		return nil, err
	}
	return ParseJList(res.Stdout)
}

// IsOnline reports whether pm2 lists name with status exactly "online".
// Listing or parse failures read as false.
func (p *PM2) IsOnline(ctx context.Context, name string) bool {
	records, err := p.List(ctx)
	if err != nil {
		p.logger.Warn("process list unavailable, treating as not running", "process", name, "error", err)
		return false
	}
	record, ok := Find(records, name)
	if !ok {
		p.logger.Debug("process not registered", "process", name)
		return false
	}
	p.logger.Debug("process status", "process", name, "status", record.RawStatus)
	return record.Online()
}

// Start registers and launches command under name. The command line is
// handed to pm2 verbatim as a single argument.
func (p *PM2) Start(ctx context.Context, name, command string) error {
	_, err := p.run(ctx, "start", name, command, "--name", name)
	return err
}

// Restart flushes name's log buffer so later inspection only shows
// post-restart output, then restarts it. A failed flush is ignored.
func (p *PM2) Restart(ctx context.Context, name string) error {
	if _, err := p.run(ctx, "flush", name, name); err != nil {
		p.logger.Debug("flush failed, restarting anyway", "process", name, "error", err)
	}
	_, err := p.run(ctx, "restart", name, name)
	return err
}
