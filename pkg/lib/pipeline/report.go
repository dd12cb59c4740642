package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/surgent-dev/opencode-config/pkg/lib/output_storage"
	"github.com/surgent-dev/opencode-config/pkg/lib/runner"
	"github.com/surgent-dev/opencode-config/pkg/lib/supervisor"
)

// Markers that callers (and agents reading the report) key on.
const (
	markSyncFailed = "SYNC FAILED"
	markLintFailed = "LINT FAILED"
)

type report struct {
	lines    []string
	maxLines int
}

func (r *report) add(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// commandFailure appends a failure block for a sync or lint command: either
// the launch error or the exit code with both captured streams.
func (r *report) commandFailure(marker, command string, res *runner.Result, err error) {
	if err != nil {
		r.add("%s: %s: %v", marker, command, err)
		return
	}
	r.add("%s: %s (exit code %d)", marker, command, res.ExitCode)
	r.output("stdout", res.Stdout)
	r.output("stderr", res.Stderr)
	if strings.TrimSpace(res.Stdout) == "" && strings.TrimSpace(res.Stderr) == "" {
		r.add("(no output)")
	}
}

func (r *report) supervisorFailure(header string, err error) {
	r.add("%s: %v", header, err)
	var serr *supervisor.SupervisorError
	if errors.As(err, &serr) && serr.Output != "" {
		r.add("%s", output_storage.TailLines(serr.Output, r.maxLines))
	}
}

func (r *report) output(label, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	r.add("%s:", label)
	r.add("%s", output_storage.TailLines(text, r.maxLines))
}

func (r *report) String() string {
	return strings.Join(r.lines, "\n")
}
