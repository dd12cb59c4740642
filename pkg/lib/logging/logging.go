// Package logging builds the slog loggers used across devrun. Records are
// rendered by charmbracelet/log so interactive use gets readable, colored
// stderr output while --log-format=json stays machine friendly.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// New creates a logger writing to w. level is one of debug, info, warn,
// error; format is text or json.
func New(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", level)
	}

	opts := charmlog.Options{
		Level:           lvl,
		Prefix:          "devrun",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		opts.Formatter = charmlog.TextFormatter
	case "json":
		opts.Formatter = charmlog.JSONFormatter
		opts.TimeFormat = time.RFC3339
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", format)
	}

	return slog.New(charmlog.NewWithOptions(w, opts)), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
