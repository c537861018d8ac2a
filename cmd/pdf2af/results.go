package main

import (
	"github.com/spf13/cobra"
)

func newResultsCmd(opts *cliOptions) *cobra.Command {
	var d downloadOptions

	cmd := &cobra.Command{
		Use:   "results SESSION",
		Short: "Print the final results of a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := args[0]
			cli := buildClient(opts)

			rs, err := cli.GetResults(cmd.Context(), sessionID)
			if err != nil {
				return failed(opts, failure{operation: "results", session: sessionID, target: sessionID}, err)
			}

			if err := renderResults(cmd.OutOrStdout(), *rs); err != nil {
				return err
			}

			if d.enabled {
				return downloadAll(cmd.Context(), cmd, cli, *rs, d, opts)
			}
			return nil
		},
	}

	d.addFlags(cmd)

	return cmd
}
