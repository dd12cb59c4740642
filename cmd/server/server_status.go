package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/surgent-dev/opencode-config/pkg/lib/devenv"
)

func (s *DevServer) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.env.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status unavailable: %v", err)), nil
	}
	table := devenv.StatusTable(rows)
	if s.runs.InFlight() {
		table = "dev_run in progress\n" + table
	}
	return mcp.NewToolResultText(table), nil
}
