package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"gardenreach/internal/domain"
	"gardenreach/internal/infra/config"
	"gardenreach/internal/infra/scenario"
	"gardenreach/internal/infra/telemetry"
)

// ReplayConfig configures a scenario replay.
type ReplayConfig struct {
	ConfigPath   string
	ScenarioPath string
	// StorePath, when set, restores from and persists to the bbolt store.
	// Otherwise the replay runs against an empty in-memory store.
	StorePath string
}

// ReplayReport summarizes a replay.
type ReplayReport struct {
	SaveID     string                        `json:"saveId"`
	Frames     int                           `json:"frames"`
	Actions    map[domain.HostActionType]int `json:"actions"`
	Errors     []string                      `json:"errors,omitempty"`
	Mismatches []ReplayMismatch              `json:"mismatches,omitempty"`
	Selections map[domain.ToolKind]int       `json:"selections"`
}

// ReplayMismatch is a step whose expected tool power was not produced.
type ReplayMismatch struct {
	Step  int  `json:"step"`
	Frame int  `json:"frame"`
	Want  int  `json:"want"`
	Got   *int `json:"got"`
}

// OK reports whether every expectation held.
func (r ReplayReport) OK() bool {
	return len(r.Mismatches) == 0
}

// Replay feeds a recorded scenario through a fresh session.
func Replay(ctx context.Context, cfg ReplayConfig, logger *zap.Logger) (ReplayReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sc, err := scenario.ReadFile(cfg.ScenarioPath)
	if err != nil {
		return ReplayReport{}, err
	}

	settings := domain.DefaultConfig()
	if strings.TrimSpace(cfg.ConfigPath) != "" {
		settings, err = config.NewLoader(logger).LoadOrDefault(ctx, cfg.ConfigPath)
		if err != nil {
			return ReplayReport{}, err
		}
	}
	settings = sc.Config.Apply(settings)

	var store domain.SelectionStore = newMemoryStore()
	if strings.TrimSpace(cfg.StorePath) != "" {
		bolt, cleanup, err := NewSelectionStore(cfg.StorePath)
		if err != nil {
			return ReplayReport{}, err
		}
		defer cleanup()
		store = bolt
	}

	session, err := NewSession(SessionOptions{
		SaveID:  sc.SaveID,
		Config:  settings,
		Store:   store,
		Metrics: telemetry.NewNoopMetrics(),
		Logger:  logger,
	})
	if err != nil {
		return ReplayReport{}, err
	}

	report := ReplayReport{
		SaveID:  sc.SaveID,
		Actions: make(map[domain.HostActionType]int),
	}
	for i, frame := range sc.Frames() {
		actions, err := session.Handle(ctx, frame.Event)
		if err != nil {
			_ = session.Close()
			return ReplayReport{}, err
		}
		report.Frames++
		var power *int
		for _, action := range actions {
			report.Actions[action.Type]++
			switch action.Type {
			case domain.ActionToolPower:
				value := action.Value
				power = &value
			case domain.ActionError:
				report.Errors = append(report.Errors, action.Message)
			}
		}
		if frame.ExpectPower != nil && (power == nil || *power != *frame.ExpectPower) {
			report.Mismatches = append(report.Mismatches, ReplayMismatch{
				Step:  frame.Step,
				Frame: i,
				Want:  *frame.ExpectPower,
				Got:   power,
			})
		}
	}
	if err := session.Close(); err != nil {
		return ReplayReport{}, err
	}
	report.Selections = session.Selections()
	return report, nil
}
