package devenv

import (
	"context"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/surgent-dev/opencode-config/pkg/lib"
	"github.com/surgent-dev/opencode-config/pkg/lib/config"
	"github.com/surgent-dev/opencode-config/pkg/lib/supervisor"
)

// StatusAbsent marks a declared process pm2 does not know about.
const StatusAbsent = "absent"

type StatusRow struct {
	Name     string
	Command  string
	Status   string
	PID      int
	Restarts int
}

func (r StatusRow) Online() bool {
	return lib.ParseProcessState(r.Status) == lib.ProcessStateOnline
}

// Status lists every declared process with what pm2 reports for it.
func (e *Env) Status(ctx context.Context) ([]StatusRow, error) {
	cfg, err := config.Load(e.Dir)
	if err != nil {
		return nil, err
	}
	records, err := e.Supervisor.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]StatusRow, 0, len(cfg.RunCommands))
	for i, command := range cfg.RunCommands {
		row := StatusRow{Name: cfg.ProcessName(i), Command: command, Status: StatusAbsent}
		if rec, ok := supervisor.Find(records, row.Name); ok {
			row.Status = rec.RawStatus
			row.PID = rec.PID
			row.Restarts = rec.Restarts
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var (
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	headerStyle  = cellStyle.Bold(true)
	onlineStyle  = cellStyle.Foreground(lipgloss.Color("2"))
	offlineStyle = cellStyle.Foreground(lipgloss.Color("1"))
)

const (
	statusColumn = 1
	firstDataRow = table.HeaderRow + 1
)

// StatusTable renders rows as a bordered table. Colors are only emitted when
// the default renderer detects a color terminal.
func StatusTable(rows []StatusRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "STATUS", "PID", "RESTARTS", "COMMAND").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == statusColumn && row-firstDataRow >= 0 && row-firstDataRow < len(rows):
				if rows[row-firstDataRow].Online() {
					return onlineStyle
				}
				return offlineStyle
			default:
				return cellStyle
			}
		})
	for _, r := range rows {
		pid := "-"
		if r.PID > 0 {
			pid = strconv.Itoa(r.PID)
		}
		t.Row(r.Name, r.Status, pid, strconv.Itoa(r.Restarts), r.Command)
	}
	return t.Render()
}
