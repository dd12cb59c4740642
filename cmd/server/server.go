package main

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/surgent-dev/opencode-config/pkg/lib/devenv"
	"github.com/surgent-dev/opencode-config/pkg/lib/guard"
)

const (
	toolRun    = "dev_run"
	toolStatus = "dev_status"

	argSync    = "syncConvex"
	argRestart = "restart"
)

// DevServer answers MCP tool calls for one project directory.
type DevServer struct {
	env    *devenv.Env
	runs   *guard.Guard
	logger *slog.Logger
}

func NewDevServer(dir string, logger *slog.Logger) (*DevServer, error) {
	env, err := devenv.Open(dir, logger)
	if err != nil {
		return nil, err
	}
	return &DevServer{env: env, runs: guard.New(), logger: logger}, nil
}

// MCPServer registers the tools on a new MCP server.
func (s *DevServer) MCPServer() *server.MCPServer {
	m := server.NewMCPServer(
		"devrun",
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	m.AddTool(mcp.NewTool(toolRun,
		mcp.WithDescription("Run lint and make sure the project's dev servers are running under pm2. "+
			"Returns a line per step: lint result, then for each process whether it was started, "+
			"restarted or already online. Call after editing code."),
		mcp.WithBoolean(argSync,
			mcp.Description("Push Convex functions and regenerate bindings before linting"),
			mcp.DefaultBool(false),
		),
		mcp.WithBoolean(argRestart,
			mcp.Description("Restart processes that are already online"),
			mcp.DefaultBool(false),
		),
	), s.handleRun)

	m.AddTool(mcp.NewTool(toolStatus,
		mcp.WithDescription("Show the pm2 status of every dev process declared in surgent.json"),
	), s.handleStatus)

	return m
}

func (s *DevServer) startWatcher(ctx context.Context) error {
	w, err := s.env.Watcher()
	if err != nil {
		return err
	}
	go func() {
		if err := w.Watch(ctx); err != nil {
			s.logger.Error("auto-build watcher stopped", "error", err)
		}
	}()
	return nil
}
