package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"gardenreach/internal/app"
	"gardenreach/internal/infra/config"
)

type cliOptions struct {
	configPath  string
	storePath   string
	logLevel    string
	development bool
	jsonOutput  bool
	logger      *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		configPath: config.ResolveDefaultPath(),
		logLevel:   "info",
		logger:     zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "gardenreach",
		Short:         "Tool reach selection for the watering can and hoe",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			applyRootFlagBindings(cmd, &opts)
			logger, err := app.NewLogger(app.LoggingConfig{
				Level:       opts.logLevel,
				Development: opts.development,
			})
			if err != nil {
				return exitInvalid(err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "path to the settings file")
	root.PersistentFlags().StringVar(&opts.storePath, "store", "", "path to the selection store (default under XDG_DATA_HOME)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.development, "dev-logs", false, "human readable logs")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")

	root.AddCommand(
		newValidateCmd(&opts),
		newStateCmd(&opts),
		newReplayCmd(&opts),
		newBridgeCmd(&opts),
		newVersionCmd(&opts),
	)

	return root
}

// applyRootFlagBindings copies explicitly set persistent flags; subcommand
// flag sets may shadow the root values.
func applyRootFlagBindings(cmd *cobra.Command, opts *cliOptions) {
	flags := cmd.Flags()
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "config":
			opts.configPath, _ = flags.GetString("config")
		case "store":
			opts.storePath, _ = flags.GetString("store")
		case "log-level":
			opts.logLevel, _ = flags.GetString("log-level")
		case "dev-logs":
			opts.development, _ = flags.GetBool("dev-logs")
		case "json":
			opts.jsonOutput, _ = flags.GetBool("json")
		}
	})
}

func newVersionCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": app.Version, "build": app.Build})
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.VersionReport())
			return nil
		},
	}
}
