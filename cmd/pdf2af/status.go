package main

import (
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status SESSION",
		Short: "Poll the progress of a session once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := args[0]

			snapshot, err := buildClient(opts).GetProgress(cmd.Context(), sessionID)
			if err != nil {
				return failed(opts, failure{operation: "status", session: sessionID, target: sessionID}, err)
			}

			renderSnapshot(cmd.OutOrStdout(), *snapshot)
			return nil
		},
	}
}
