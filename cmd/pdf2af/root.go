package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	client "github.com/hsn0918/pdf2af-client"
)

const envPrefix = "PDF2AF"

var (
	home, _           = os.UserHomeDir()
	defaultConfigPath = filepath.Join(home, ".config", "pdf2af", "config.yaml")
)

type cliOptions struct {
	configPath        string
	baseURL           string
	timeout           time.Duration
	processingTimeout time.Duration
	interval          time.Duration
	failLogPath       string
	logLevel          string

	v      *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "pdf2af",
		Short:         "Convert PDF forms into packaged adaptive forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "Path to the CLI config file")
	flags.StringVar(&opts.baseURL, "base-url", client.DefaultBaseURL, "Base URL of the conversion service API")
	flags.DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "HTTP timeout for API requests")
	flags.DurationVar(&opts.processingTimeout, "processing-timeout", client.DefaultTimeout, "Timeout for package downloads")
	flags.DurationVar(&opts.interval, "interval", client.DefaultPollInterval, "Polling interval for progress")
	flags.StringVar(&opts.failLogPath, "fail-log", "fail.log", "Path to write failed operation logs")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug|info|warn|error")

	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newConvertCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newResultsCmd(opts))
	cmd.AddCommand(newDownloadCmd(opts))
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// load merges .env, the config file, PDF2AF_* variables and flags, in increasing priority.
func (o *cliOptions) load(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	v := o.v
	v.SetConfigFile(o.configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"base-url", "timeout", "processing-timeout", "interval", "fail-log", "log-level"} {
		if err := v.BindPFlag(flagKey(key), cmd.Root().PersistentFlags().Lookup(key)); err != nil {
			return err
		}
	}

	o.baseURL = v.GetString("base_url")
	o.timeout = v.GetDuration("timeout")
	o.processingTimeout = v.GetDuration("processing_timeout")
	o.interval = v.GetDuration("interval")
	o.failLogPath = v.GetString("fail_log")
	o.logLevel = v.GetString("log_level")

	level, err := parseLogLevel(o.logLevel)
	if err != nil {
		return err
	}
	o.logger = newLogger(cmd.ErrOrStderr(), level)

	return nil
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level: %s", level)
	}
}
