package main

import (
	"fmt"
	"io"

	"github.com/surgent-dev/opencode-config/pkg/lib/devenv"
)

func printReport(w io.Writer, report string) {
	if report == "" {
		return
	}
	fmt.Fprintln(w, report)
}

func printStatusTable(w io.Writer, rows []devenv.StatusRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No processes declared.")
		return
	}
	fmt.Fprintln(w, devenv.StatusTable(rows))
}
