package runner

import (
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/surgent-dev/opencode-config/pkg/lib"
	"github.com/surgent-dev/opencode-config/pkg/lib/logging"
	"github.com/surgent-dev/opencode-config/pkg/lib/output_storage"
)

const defaultShell = "sh"

// Runner executes shell command lines and keeps their captured output
// until they are waited on.
type Runner struct {
	mu        sync.RWMutex
	processes map[string]*processEntry

	dir    string
	shell  string
	env    []string
	logger *slog.Logger
}

type processEntry struct {
	id      string
	command lib.Command
	cmd     *exec.Cmd
	done    chan struct{}

	// status fields
	mu       sync.RWMutex
	running  bool
	exitCode *int
	start    time.Time
	end      *time.Time

	stdout *output_storage.OutputStorage
	stderr *output_storage.OutputStorage
}

// Option configures a Runner.
type Option func(*Runner)

// WithDir sets the working directory for commands that do not carry their own.
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

// WithShell overrides the shell used to interpret command lines.
func WithShell(shell string) Option {
	return func(r *Runner) {
		if shell != "" {
			r.shell = shell
		}
	}
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env []string) Option {
	return func(r *Runner) { r.env = append(r.env, env...) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		processes: make(map[string]*processEntry),
		shell:     defaultShell,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (runner *Runner) environ(extra []string) []string {
	if len(runner.env) == 0 && len(extra) == 0 {
		return nil
	}
	env := append(os.Environ(), runner.env...)
	return append(env, extra...)
}
