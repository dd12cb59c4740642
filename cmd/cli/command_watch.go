package main

import (
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the project whenever its sources change",
		Long: "Watches the project directory and runs scripts.build after changes settle. " +
			"A change during a running build does not queue another one.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.open(dir)
			if err != nil {
				return err
			}
			w, err := env.Watcher()
			if err != nil {
				return err
			}
			// Watch returns when the command context is cancelled (Ctrl-C).
			return w.Watch(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "project directory containing surgent.json")
	return cmd
}
