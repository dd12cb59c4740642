package main

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/surgent-dev/opencode-config/pkg/lib/autobuild"
	"github.com/surgent-dev/opencode-config/pkg/lib/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

func newRootCmd() *cobra.Command {
	var (
		dir       string
		watch     bool
		logLevel  string
		logFormat string
	)
	cmd := &cobra.Command{
		Use:           "devrun-mcp",
		Short:         "Serve devrun tools to a coding agent over MCP stdio",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol; logs must stay on stderr.
			logger, err := logging.New(logLevel, logFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			srv, err := NewDevServer(dir, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if watch {
				if err := srv.startWatcher(ctx); err != nil {
					if !errors.Is(err, autobuild.ErrNoBuildCommand) {
						return err
					}
					logger.Warn("auto-build disabled", "error", err)
				}
			}

			logger.Info("serving MCP over stdio", "dir", srv.env.Dir, "version", Version)
			return server.ServeStdio(srv.MCPServer())
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "project directory containing surgent.json")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild the project in the background when sources change")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	return cmd
}
