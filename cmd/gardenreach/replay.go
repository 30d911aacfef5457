package main

import (
	"github.com/spf13/cobra"

	"gardenreach/internal/app"
)

func newReplayCmd(opts *cliOptions) *cobra.Command {
	var persist bool

	cmd := &cobra.Command{
		Use:   "replay <scenario.toml>",
		Short: "Replay a recorded scenario and check its expectations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			cfg := app.ReplayConfig{
				ConfigPath:   opts.configPath,
				ScenarioPath: args[0],
			}
			if persist {
				cfg.StorePath = opts.storePath
				if cfg.StorePath == "" {
					cfg.StorePath = defaultStorePath()
				}
			}
			report, err := app.Replay(ctx, cfg, opts.logger)
			if err != nil {
				return err
			}
			if err := printReplayReport(cmd.OutOrStdout(), report, opts.jsonOutput); err != nil {
				return err
			}
			if !report.OK() {
				return exitSilent(exitCodeMismatch)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "restore from and write to the selection store")
	return cmd
}
