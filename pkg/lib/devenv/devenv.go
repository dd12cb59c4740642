// Package devenv assembles the pieces devrun needs for one project
// directory: settings, shell runner, pm2 adapter and pipeline executor.
package devenv

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/surgent-dev/opencode-config/pkg/lib/autobuild"
	"github.com/surgent-dev/opencode-config/pkg/lib/config"
	"github.com/surgent-dev/opencode-config/pkg/lib/logging"
	"github.com/surgent-dev/opencode-config/pkg/lib/pipeline"
	"github.com/surgent-dev/opencode-config/pkg/lib/runner"
	"github.com/surgent-dev/opencode-config/pkg/lib/supervisor"
)

type Env struct {
	Dir        string
	Settings   *config.Settings
	Runner     *runner.Runner
	Supervisor supervisor.Supervisor
	Pipeline   *pipeline.Executor

	logger *slog.Logger
}

// Open reads dir's settings and env file and wires the collaborators. It
// does not read surgent.json; that happens per operation.
func Open(dir string, logger *slog.Logger) (*Env, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project dir: %w", err)
	}
	settings, err := config.LoadSettings(abs)
	if err != nil {
		return nil, err
	}
	vars, err := config.LoadEnv(abs, settings)
	if err != nil {
		return nil, err
	}

	r := runner.NewRunner(
		runner.WithDir(abs),
		runner.WithShell(settings.Shell),
		runner.WithEnv(vars),
		runner.WithLogger(logger),
	)
	pm2 := supervisor.NewPM2(r,
		supervisor.WithBinary(settings.Supervisor.Binary),
		supervisor.WithLogger(logger),
	)
	exec := pipeline.New(r, pm2,
		pipeline.WithLogger(logger),
		pipeline.WithSyncArtifact(abs, settings.Sync.Artifact),
		pipeline.WithMaxOutputLines(settings.Report.MaxOutputLines),
	)

	logger.Debug("environment ready", "dir", abs, "pm2", settings.Supervisor.Binary, "policy", settings.OnlinePolicy, "env_vars", len(vars))
	return &Env{
		Dir:        abs,
		Settings:   settings,
		Runner:     r,
		Supervisor: pm2,
		Pipeline:   exec,
		logger:     logger,
	}, nil
}

// Run executes the pipeline. restart forces the restart policy for processes
// that are already online; otherwise the configured policy applies.
func (e *Env) Run(ctx context.Context, sync, restart bool) (string, error) {
	policy := e.Settings.OnlinePolicy
	if restart {
		policy = config.PolicyRestart
	}
	return e.Pipeline.Ensure(ctx, e.Dir, pipeline.Options{SyncRequested: sync, OnlinePolicy: policy})
}

// Watcher builds the auto-build watcher from the project's build script and
// the watch settings. Extra options are applied last.
func (e *Env) Watcher(opts ...autobuild.Option) (*autobuild.Watcher, error) {
	cfg, err := config.Load(e.Dir)
	if err != nil {
		return nil, err
	}
	base := []autobuild.Option{
		autobuild.WithLogger(e.logger),
		autobuild.WithDebounce(time.Duration(e.Settings.Watch.Debounce)),
		autobuild.WithIgnore(e.Settings.Watch.Ignore...),
		autobuild.WithMaxOutputLines(e.Settings.Report.MaxOutputLines),
	}
	return autobuild.New(e.Dir, cfg.BuildCommand, e.Runner, append(base, opts...)...)
}
