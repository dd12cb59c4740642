package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *DevServer) handleRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sync := req.GetBool(argSync, false)
	restart := req.GetBool(argRestart, false)

	var (
		report string
		err    error
	)
	ran := s.runs.TryRun(ctx, func(ctx context.Context) {
		report, err = s.env.Run(ctx, sync, restart)
	})
	if !ran {
		return mcp.NewToolResultError("dev_run is already in progress; wait for it to finish"), nil
	}
	if err != nil {
		s.logger.Warn("dev_run rejected", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}
