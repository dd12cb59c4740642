// Package autobuild rebuilds a project when its sources change. File system
// events are debounced and every build goes through a single-flight guard,
// so a burst of edits produces one build and overlapping triggers are dropped.
package autobuild

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/surgent-dev/opencode-config/pkg/lib/guard"
	"github.com/surgent-dev/opencode-config/pkg/lib/logging"
	"github.com/surgent-dev/opencode-config/pkg/lib/output_storage"
	"github.com/surgent-dev/opencode-config/pkg/lib/runner"
)

var ErrNoBuildCommand = errors.New(`Missing "scripts.build" in surgent.json`)

const defaultDebounce = 500 * time.Millisecond

// Builder runs the build command line. *runner.Runner satisfies it.
type Builder interface {
	Run(ctx context.Context, line string) (*runner.Result, error)
}

type Watcher struct {
	dir     string
	command string
	builder Builder
	guard   *guard.Guard
	logger  *slog.Logger

	debounce       time.Duration
	quiet          time.Duration
	ignore         []string
	maxOutputLines int

	builds    atomic.Int64
	lastBuild atomic.Int64 // UnixNano of the last build's end
	ready     chan struct{}
}

type Option func(*Watcher)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithQuietPeriod sets how long after a build changes are still dropped,
// so files written by the build do not start another one. It defaults to
// the debounce delay.
func WithQuietPeriod(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.quiet = d
		}
	}
}

// WithIgnore sets glob patterns, matched against each path component and
// against the path relative to the project dir.
func WithIgnore(patterns ...string) Option {
	return func(w *Watcher) { w.ignore = append(w.ignore, patterns...) }
}

func WithMaxOutputLines(n int) Option {
	return func(w *Watcher) { w.maxOutputLines = n }
}

// WithGuard shares a guard with other callers that must not overlap a build.
func WithGuard(g *guard.Guard) Option {
	return func(w *Watcher) {
		if g != nil {
			w.guard = g
		}
	}
}

func New(dir, command string, builder Builder, opts ...Option) (*Watcher, error) {
	if command == "" {
		return nil, ErrNoBuildCommand
	}
	w := &Watcher{
		dir:      dir,
		command:  command,
		builder:  builder,
		guard:    guard.New(),
		logger:   logging.Discard(),
		debounce: defaultDebounce,
		quiet:    -1,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.quiet < 0 {
		w.quiet = w.debounce
	}
	w.logger = w.logger.With("command", command)
	return w, nil
}

// Trigger builds now unless a build is already running, in which case the
// request is dropped. It reports whether a build ran.
func (w *Watcher) Trigger(ctx context.Context) bool {
	if w.guard.TryRun(ctx, w.build) {
		return true
	}
	w.logger.Debug("build already in progress, trigger dropped")
	return false
}

// Builds returns how many builds have finished, successful or not.
func (w *Watcher) Builds() int64 {
	return w.builds.Load()
}

// Ready is closed once Watch has registered the initial directory tree.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// settling reports whether a change seen now was probably made by a build:
// one is running, or one ended less than the quiet period ago.
func (w *Watcher) settling() bool {
	if w.guard.InFlight() {
		return true
	}
	last := w.lastBuild.Load()
	return last != 0 && time.Since(time.Unix(0, last)) < w.quiet
}

func (w *Watcher) build(ctx context.Context) {
	defer func() {
		w.lastBuild.Store(time.Now().UnixNano())
		w.builds.Add(1)
	}()

	w.logger.Info("build started")
	res, err := w.builder.Run(ctx, w.command)
	if err != nil {
		w.logger.Error("build failed", "error", err)
		return
	}
	if !res.Succeeded() {
		output := res.Stdout + res.Stderr
		w.logger.Error("build failed",
			"exit_code", res.ExitCode,
			"duration", res.Duration.Round(time.Millisecond),
			"output", output_storage.TailLines(output, w.maxOutputLines))
		return
	}
	w.logger.Info("build complete", "duration", res.Duration.Round(time.Millisecond))
}
