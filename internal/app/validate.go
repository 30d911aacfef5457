package app

import (
	"context"

	"go.uber.org/zap"

	"gardenreach/internal/domain"
	"gardenreach/internal/infra/config"
	"gardenreach/internal/infra/scenario"
)

// ValidateConfig loads and validates the settings at path.
func ValidateConfig(ctx context.Context, path string, logger *zap.Logger) (domain.Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := config.NewLoader(logger).Load(ctx, path)
	if err != nil {
		return domain.Config{}, err
	}
	logger.Info("configuration validated",
		zap.String("config", path),
		zap.String("selectionOpenKey", cfg.SelectionOpenKey),
	)
	return cfg, nil
}

// ValidateScenario parses the scenario at path without replaying it.
func ValidateScenario(path string) (scenario.Scenario, error) {
	return scenario.ReadFile(path)
}
