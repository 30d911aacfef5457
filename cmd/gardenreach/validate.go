package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gardenreach/internal/app"
	"gardenreach/internal/infra/config"
)

func newValidateCmd(opts *cliOptions) *cobra.Command {
	var scenarioPath string
	var initConfig bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the settings file and optionally a scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if initConfig {
				if err := config.EnsureFile(opts.configPath); err != nil {
					return err
				}
			}
			cfg, err := app.ValidateConfig(cmd.Context(), opts.configPath, opts.logger)
			if err != nil {
				return exitInvalid(err)
			}
			if strings.TrimSpace(scenarioPath) != "" {
				sc, err := app.ValidateScenario(scenarioPath)
				if err != nil {
					return exitInvalid(fmt.Errorf("scenario %s: %w", scenarioPath, err))
				}
				opts.logger.Info("scenario validated",
					zap.String("scenario", scenarioPath),
					zap.Int("steps", len(sc.Steps)),
				)
			}
			return printConfig(cmd.OutOrStdout(), opts.configPath, cfg, opts.jsonOutput)
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario file to validate as well")
	cmd.Flags().BoolVar(&initConfig, "init", false, "write a default settings file when none exists")
	return cmd
}
