// Package pipeline runs the fixed dev pipeline: optional backend sync, lint,
// then idempotent start (or restart) of every declared dev process under the
// supervisor. The outcome is always a human readable report; only a broken
// project descriptor is returned as an error.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/surgent-dev/opencode-config/pkg/lib"
	"github.com/surgent-dev/opencode-config/pkg/lib/config"
	"github.com/surgent-dev/opencode-config/pkg/lib/logging"
	"github.com/surgent-dev/opencode-config/pkg/lib/runner"
	"github.com/surgent-dev/opencode-config/pkg/lib/supervisor"
)

// Shell runs one command line to completion with captured output.
// *runner.Runner satisfies it.
type Shell interface {
	Run(ctx context.Context, line string) (*runner.Result, error)
}

// Options are the per-invocation switches.
type Options struct {
	SyncRequested bool
	OnlinePolicy  config.OnlinePolicy
}

// Executor owns no state between runs; everything it observes lives in the
// supervisor and the project files.
type Executor struct {
	shell      Shell
	supervisor supervisor.Supervisor
	logger     *slog.Logger

	dir            string
	syncArtifact   string
	maxOutputLines int
}

type Option func(*Executor)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSyncArtifact makes the sync stage check that path (relative to dir)
// exists afterwards. A missing artifact is reported as a warning only.
func WithSyncArtifact(dir, path string) Option {
	return func(e *Executor) {
		e.dir = dir
		e.syncArtifact = path
	}
}

// WithMaxOutputLines trims captured output in failure blocks to its last n
// lines. Zero keeps everything.
func WithMaxOutputLines(n int) Option {
	return func(e *Executor) { e.maxOutputLines = n }
}

func New(shell Shell, sup supervisor.Supervisor, opts ...Option) *Executor {
	e := &Executor{
		shell:      shell,
		supervisor: sup,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ensure loads dir's project descriptor and runs the pipeline. Descriptor
// errors are returned before anything external is touched.
func (e *Executor) Ensure(ctx context.Context, dir string, opts Options) (string, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return "", err
	}
	return e.Run(ctx, cfg, opts), nil
}

// Run executes sync → lint → processes, strictly in order. A failing sync or
// lint ends the run; a failing process start is reported and the next
// process is still handled.
func (e *Executor) Run(ctx context.Context, cfg *config.ProjectConfig, opts Options) string {
	runID := lib.NewID()
	logger := e.logger.With("run_id", lib.ShortID(runID), "project", cfg.Name)
	started := time.Now()
	rep := &report{maxLines: e.maxOutputLines}

	logger.Info("pipeline started", "sync", opts.SyncRequested, "processes", len(cfg.RunCommands))
	defer func() {
		logger.Info("pipeline finished", "duration", time.Since(started).Round(time.Millisecond))
	}()

	if opts.SyncRequested {
		if !e.sync(ctx, logger, cfg, rep) {
			return rep.String()
		}
	}
	if !e.lint(ctx, logger, cfg, rep) {
		return rep.String()
	}
	e.processes(ctx, logger, cfg, opts.OnlinePolicy, rep)
	return rep.String()
}

func (e *Executor) sync(ctx context.Context, logger *slog.Logger, cfg *config.ProjectConfig, rep *report) bool {
	if cfg.SyncCommand == "" {
		rep.add("Sync skipped: no sync script in %s", config.ProjectFile)
		return true
	}
	res, err := e.shell.Run(ctx, cfg.SyncCommand)
	if err != nil || !res.Succeeded() {
		logger.Error("sync failed", "command", cfg.SyncCommand, "error", err)
		rep.commandFailure(markSyncFailed, cfg.SyncCommand, res, err)
		return false
	}
	logger.Info("sync complete", "duration", res.Duration)
	rep.add("Ran sync: %s", cfg.SyncCommand)

	if e.syncArtifact != "" {
		path := e.syncArtifact
		if !filepath.IsAbs(path) {
			path = filepath.Join(e.dir, path)
		}
		if _, err := os.Stat(path); err != nil {
			logger.Warn("sync artifact missing", "artifact", e.syncArtifact)
			rep.add("WARNING: sync finished but %s is missing", e.syncArtifact)
		}
	}
	return true
}

func (e *Executor) lint(ctx context.Context, logger *slog.Logger, cfg *config.ProjectConfig, rep *report) bool {
	if cfg.LintCommand == "" {
		return true
	}
	res, err := e.shell.Run(ctx, cfg.LintCommand)
	if err != nil || !res.Succeeded() {
		logger.Error("lint failed", "command", cfg.LintCommand, "error", err)
		rep.commandFailure(markLintFailed, cfg.LintCommand, res, err)
		return false
	}
	logger.Info("lint complete", "duration", res.Duration)
	rep.add("Ran lint: %s", cfg.LintCommand)
	return true
}

// processes handles each declared command in declaration order. Names must
// be registered one after the other, so there is no concurrency here.
func (e *Executor) processes(ctx context.Context, logger *slog.Logger, cfg *config.ProjectConfig, policy config.OnlinePolicy, rep *report) {
	for i, command := range cfg.RunCommands {
		name := cfg.ProcessName(i)
		plog := logger.With("process", name)

		if e.supervisor.IsOnline(ctx, name) {
			if policy != config.PolicyRestart {
				plog.Debug("already online")
				rep.add("%s already online", name)
				continue
			}
			if err := e.supervisor.Restart(ctx, name); err != nil {
				plog.Error("restart failed", "error", err)
				rep.supervisorFailure("FAILED to restart "+name, err)
				continue
			}
			plog.Info("restarted")
			rep.add("Restarted %s", name)
			continue
		}

		if err := e.supervisor.Start(ctx, name, command); err != nil {
			plog.Error("start failed", "error", err)
			rep.supervisorFailure("FAILED to start "+name, err)
			continue
		}
		plog.Info("started", "command", command)
		rep.add("Started %s", name)
	}
}
