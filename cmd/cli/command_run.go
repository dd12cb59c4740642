package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		dir     string
		sync    bool
		restart bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sync, lint and make sure every dev process is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			env, err := opts.open(dir)
			if err != nil {
				return err
			}
			report, err := env.Run(ctx, sync, restart)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "project directory containing surgent.json")
	cmd.Flags().BoolVar(&sync, "sync", false, "run the backend sync script before linting")
	cmd.Flags().BoolVar(&restart, "restart", false, "restart processes that are already online")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (0 waits forever)")
	return cmd
}
