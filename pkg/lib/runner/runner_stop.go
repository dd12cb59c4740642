package runner

import (
	"time"

	"github.com/surgent-dev/opencode-config/pkg/lib"
)

// StopResult returns the command and its final status after Stop.
type StopResult struct {
	Command *lib.Command
	Status  *lib.ExitStatus
}

// Stop kills the command's whole process group and returns its final status
// (or the current one if it already finished).
func (runner *Runner) Stop(id string) (*StopResult, error) {
	pe, err := runner.getProcess(id)
	if err != nil {
		return nil, err
	}
	res := StopResult{Command: &pe.command}
	if st := pe.lockAndGetStatus(); !st.Running {
		res.Status = &st
		return &res, nil
	}

	if err := killGroup(pe.cmd.Process); err != nil {
		runner.logger.Debug("kill process group", "id", lib.ShortID(id), "error", err)
	}

	select {
	case <-pe.done:
	case <-time.After(time.Second):
	}
	st := pe.lockAndGetStatus()
	res.Status = &st
	return &res, nil
}
