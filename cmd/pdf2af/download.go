package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newDownloadCmd(opts *cliOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download FILENAME",
		Short: "Download one packaged form, e.g. ABIC_en_af.zip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			outPath := output
			if outPath == "" {
				outPath = filename
			}

			if err := downloadToFile(cmd.Context(), buildClient(opts), filename, outPath); err != nil {
				return failed(opts, failure{operation: "download", target: filename}, err)
			}

			return printOut(cmd, "Downloaded package", slog.String("path", outPath))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Download path (defaults to FILENAME in the current directory)")

	return cmd
}
