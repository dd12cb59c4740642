package runner

import (
	"os"

	"github.com/surgent-dev/opencode-config/pkg/lib"
)

// StatusResult pairs a command with a snapshot of its exit status.
type StatusResult struct {
	Command *lib.Command
	Status  *lib.ExitStatus
}

// getProcess looks up a command that has not been waited on yet.
func (runner *Runner) getProcess(id string) (*processEntry, error) {
	runner.mu.RLock()
	pe := runner.processes[id]
	runner.mu.RUnlock()
	if pe == nil {
		return nil, os.ErrNotExist
	}
	return pe, nil
}

// forget drops a finished entry so long-lived runners do not accumulate output.
func (runner *Runner) forget(id string) {
	runner.mu.Lock()
	delete(runner.processes, id)
	runner.mu.Unlock()
}

func (pe *processEntry) lockAndGetStatus() lib.ExitStatus {
	pe.mu.RLock()
	defer pe.mu.RUnlock()

	st := lib.ExitStatus{Running: pe.running, StartTime: pe.start}
	if pe.exitCode != nil {
		code := *pe.exitCode
		st.ExitCode = &code
	}
	if pe.end != nil {
		t := *pe.end
		st.EndTime = &t
	}
	return st
}
