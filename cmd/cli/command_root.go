package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/surgent-dev/opencode-config/pkg/lib/devenv"
	"github.com/surgent-dev/opencode-config/pkg/lib/logging"
)

type rootOptions struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func (o *rootOptions) open(dir string) (*devenv.Env, error) {
	return devenv.Open(dir, o.logger)
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "devrun",
		Short:         "Keep a project's dev processes running under pm2",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(opts.logLevel, opts.logFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newWatchCmd(opts))

	return root
}
