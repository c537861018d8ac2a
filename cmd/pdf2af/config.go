package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	client "github.com/hsn0918/pdf2af-client"
)

var configFlags = []struct {
	name, key, usage string
}{
	{"t-number", "t_number", "Designer T-number"},
	{"api-key", "api_key", "Model provider API key"},
	{"endpoint", "endpoint", "Model provider endpoint URL"},
	{"model-name", "model_name", "Model or deployment name"},
	{"api-version", "api_version", "Model provider API version"},
	{"packager-mode", "packager_mode", "Packager target: sandbox|dev"},
}

func newConfigCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or store the conversion service configuration",
	}

	cmd.AddCommand(newConfigShowCmd(opts))
	cmd.AddCommand(newConfigSetCmd(opts))

	return cmd
}

func newConfigShowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Report whether the service holds a configuration and its secrets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := buildClient(opts).CheckConfig(cmd.Context())
			if err != nil {
				return failed(opts, failure{operation: "config show", target: "config"}, err)
			}

			level := slog.LevelInfo
			if !status.Ready() {
				level = slog.LevelWarn
			}
			return printWithTrace(cmd, level, status.TraceID, "Service configuration",
				slog.Bool("config", status.ConfigExists),
				slog.Bool("secrets", status.SecretsExists),
				slog.Bool("ready", status.Ready()),
			)
		},
	}
}

func newConfigSetCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Validate and save the service configuration",
		Long: `Validate and save the service configuration.

Each value may also come from the config file or a PDF2AF_<KEY> environment
variable, e.g. PDF2AF_API_KEY.`,
		Args:              cobra.NoArgs,
		ValidArgsFunction: flagsOnlyCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range configFlags {
				if err := opts.v.BindPFlag(f.key, cmd.Flags().Lookup(f.name)); err != nil {
					return err
				}
			}

			var cfg client.Config
			if err := opts.v.Unmarshal(&cfg); err != nil {
				return err
			}

			if err := buildClient(opts).SaveConfig(cmd.Context(), cfg); err != nil {
				var invalid *client.ConfigValidationError
				if errors.As(err, &invalid) {
					for _, f := range invalid.Fields {
						_ = printWithTrace(cmd, slog.LevelError, "", f.Message, slog.String("field", f.Field))
					}
				}
				return failed(opts, failure{operation: "config set", target: "config"}, err)
			}

			return printOut(cmd, "Configuration saved")
		},
	}

	for _, f := range configFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}

	return cmd
}
