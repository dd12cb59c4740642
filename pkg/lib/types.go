package lib

import (
	"strings"
	"time"
)

// ProcessState is the supervisor-reported state of a named process, reduced
// to the only distinction the orchestrator acts on.
type ProcessState int

const (
	ProcessStateOther ProcessState = iota
	ProcessStateOnline
)

// StatusOnline is the exact status string the supervisor uses for a running process.
const StatusOnline = "online"

func (s ProcessState) String() string {
	if s == ProcessStateOnline {
		return StatusOnline
	}
	return "other"
}

// ParseProcessState maps a raw supervisor status. Only an exact "online" counts.
func ParseProcessState(raw string) ProcessState {
	if raw == StatusOnline {
		return ProcessStateOnline
	}
	return ProcessStateOther
}

// Command captures what to run. Line is interpreted by the shell; when Args
// is set it is executed directly instead and Line is only used for display.
type Command struct {
	Line string
	Args []string
	Dir  string
	Env  []string
}

// String renders the command for logs and reports.
func (c Command) String() string {
	if c.Line != "" {
		return c.Line
	}
	return strings.Join(c.Args, " ")
}

// ProcessRecord is one entry of the supervisor's process table.
type ProcessRecord struct {
	Name      string
	State     ProcessState
	RawStatus string
	PID       int
	Restarts  int
}

// Online reports whether the record is considered already running.
func (r ProcessRecord) Online() bool {
	return r.State == ProcessStateOnline
}

// ExitStatus captures runtime state and timestamps of a finished or running shell command.
type ExitStatus struct {
	Running   bool
	ExitCode  *int
	StartTime time.Time
	EndTime   *time.Time
}
