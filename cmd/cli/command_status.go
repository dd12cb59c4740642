package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the pm2 status of every declared dev process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			env, err := opts.open(dir)
			if err != nil {
				return err
			}
			rows, err := env.Status(ctx)
			if err != nil {
				return err
			}
			printStatusTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "project directory containing surgent.json")
	return cmd
}
