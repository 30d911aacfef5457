package main

import (
	"github.com/spf13/cobra"

	"gardenreach/internal/app"
	"gardenreach/internal/domain"
)

func newBridgeCmd(opts *cliOptions) *cobra.Command {
	var saveID string
	var metricsListen string
	var watch bool

	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Serve host events as JSON lines on stdin and stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSaveID(saveID); err != nil {
				return err
			}
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, cleanup, err := app.InitializeBridge(ctx, app.BridgeConfig{
				ConfigPath:    opts.configPath,
				StorePath:     opts.storePath,
				SaveID:        saveID,
				MetricsListen: metricsListen,
				Watch:         watch,
				Input:         cmd.InOrStdin(),
				Output:        cmd.OutOrStdout(),
			}, app.LoggingConfig{Logger: opts.logger})
			if err != nil {
				return err
			}
			defer cleanup()
			return application.Run()
		},
	}

	cmd.Flags().StringVar(&saveID, "save", "", "save identifier the host loaded")
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "serve /metrics and /healthz on this address (e.g. "+domain.DefaultMetricsListenAddr+")")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the settings file when it changes")
	return cmd
}
