package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"gardenreach/internal/domain"
)

const maxRepeat = 1_000_000

// Scenario is a recorded sequence of host events for one save.
type Scenario struct {
	SaveID string
	Config Overrides
	Steps  []Step
}

// Overrides replaces individual settings of the loaded config for a replay.
type Overrides struct {
	SelectionOpenKey *string
	Tools            map[domain.ToolKind]ToolOverrides
}

type ToolOverrides struct {
	Enabled         *bool
	AlwaysHighest   *bool
	SelectTemporary *bool
	TimerStart      *int
}

// Step is one host event, optionally repeated, with an optional power expectation
// checked after the last repetition.
type Step struct {
	Event       domain.HostEvent
	Repeat      int
	ExpectPower *int
}

// Frame is one expanded event of a scenario.
type Frame struct {
	Step        int
	Event       domain.HostEvent
	ExpectPower *int
}

type rawScenario struct {
	SaveID string            `toml:"saveId"`
	Config rawOverrides      `toml:"config"`
	Steps  []rawScenarioStep `toml:"steps"`
}

type rawOverrides struct {
	SelectionOpenKey *string          `toml:"selectionOpenKey"`
	WateringCan      *rawToolOverride `toml:"wateringCan"`
	Hoe              *rawToolOverride `toml:"hoe"`
}

type rawToolOverride struct {
	Enabled         *bool `toml:"enabled"`
	AlwaysHighest   *bool `toml:"alwaysHighest"`
	SelectTemporary *bool `toml:"selectTemporary"`
	TimerStart      *int  `toml:"timerStart"`
}

type rawScenarioStep struct {
	Type         string `toml:"type"`
	WorldReady   *bool  `toml:"worldReady"`
	Tool         string `toml:"tool"`
	UpgradeLevel int    `toml:"upgradeLevel"`
	Reach        bool   `toml:"reach"`
	Busy         bool   `toml:"busy"`
	UsingTool    bool   `toml:"usingTool"`
	Button       string `toml:"button"`
	Primary      string `toml:"primary"`
	Choice       string `toml:"choice"`
	Repeat       int    `toml:"repeat"`
	ExpectPower  *int   `toml:"expectPower"`
}

// ReadFile parses the scenario at path.
func ReadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (Scenario, error) {
	var raw rawScenario
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Scenario{}, fmt.Errorf("parse toml: %w", err)
	}

	var errs []string
	out := Scenario{
		SaveID: strings.TrimSpace(raw.SaveID),
		Config: Overrides{
			SelectionOpenKey: raw.Config.SelectionOpenKey,
			Tools:            make(map[domain.ToolKind]ToolOverrides),
		},
	}
	if out.SaveID == "" {
		errs = append(errs, "saveId is required")
	}
	if raw.Config.WateringCan != nil {
		out.Config.Tools[domain.ToolWateringCan] = raw.Config.WateringCan.overrides()
	}
	if raw.Config.Hoe != nil {
		out.Config.Tools[domain.ToolHoe] = raw.Config.Hoe.overrides()
	}
	for kind, tool := range out.Config.Tools {
		if tool.TimerStart != nil && *tool.TimerStart < 0 {
			errs = append(errs, fmt.Sprintf("config.%s.timerStart must be >= 0", kind))
		}
	}

	for i, rawStep := range raw.Steps {
		step, stepErrs := normalizeStep(rawStep)
		for _, msg := range stepErrs {
			errs = append(errs, fmt.Sprintf("steps[%d]: %s", i, msg))
		}
		out.Steps = append(out.Steps, step)
	}
	if len(out.Steps) == 0 {
		errs = append(errs, "at least one step is required")
	}

	if len(errs) > 0 {
		return Scenario{}, errors.New(strings.Join(errs, "; "))
	}
	return out, nil
}

func (r *rawToolOverride) overrides() ToolOverrides {
	return ToolOverrides{
		Enabled:         r.Enabled,
		AlwaysHighest:   r.AlwaysHighest,
		SelectTemporary: r.SelectTemporary,
		TimerStart:      r.TimerStart,
	}
}

func normalizeStep(raw rawScenarioStep) (Step, []string) {
	var errs []string
	eventType := domain.HostEventType(strings.TrimSpace(raw.Type))
	switch eventType {
	case domain.EventUpdateTicked, domain.EventSecondTicked, domain.EventButtonReleased, domain.EventSelection:
	default:
		errs = append(errs, fmt.Sprintf("unknown event type %q", raw.Type))
	}
	primary := domain.ButtonState(strings.TrimSpace(raw.Primary))
	switch primary {
	case "", domain.ButtonNone, domain.ButtonPressed, domain.ButtonHeld, domain.ButtonReleased:
	default:
		errs = append(errs, fmt.Sprintf("unknown primary button state %q", raw.Primary))
	}
	repeat := raw.Repeat
	switch {
	case repeat < 0:
		errs = append(errs, "repeat must be >= 0")
	case repeat > maxRepeat:
		errs = append(errs, fmt.Sprintf("repeat must be <= %d", maxRepeat))
	case repeat == 0:
		repeat = 1
	}

	// Recordings are of a loaded world unless they say otherwise.
	worldReady := true
	if raw.WorldReady != nil {
		worldReady = *raw.WorldReady
	}
	return Step{
		Event: domain.HostEvent{
			Type:         eventType,
			WorldReady:   worldReady,
			Tool:         strings.TrimSpace(raw.Tool),
			UpgradeLevel: raw.UpgradeLevel,
			Reach:        raw.Reach,
			Busy:         raw.Busy,
			UsingTool:    raw.UsingTool,
			Button:       strings.TrimSpace(raw.Button),
			Primary:      primary,
			Choice:       strings.TrimSpace(raw.Choice),
		},
		Repeat:      repeat,
		ExpectPower: raw.ExpectPower,
	}, errs
}

// Frames expands repeated steps in order.
func (s Scenario) Frames() []Frame {
	total := 0
	for _, step := range s.Steps {
		total += step.Repeat
	}
	out := make([]Frame, 0, total)
	for i, step := range s.Steps {
		for n := 0; n < step.Repeat; n++ {
			frame := Frame{Step: i, Event: step.Event}
			if n == step.Repeat-1 {
				frame.ExpectPower = step.ExpectPower
			}
			out = append(out, frame)
		}
	}
	return out
}

// Apply returns cfg with the overrides applied.
func (o Overrides) Apply(cfg domain.Config) domain.Config {
	out := domain.Config{
		SelectionOpenKey: cfg.SelectionOpenKey,
		Tools:            make(map[domain.ToolKind]domain.ToolConfig, len(domain.ToolKinds())),
	}
	if o.SelectionOpenKey != nil {
		out.SelectionOpenKey = strings.TrimSpace(*o.SelectionOpenKey)
	}
	for _, kind := range domain.ToolKinds() {
		tool := cfg.Tool(kind)
		if override, ok := o.Tools[kind]; ok {
			if override.Enabled != nil {
				tool.Enabled = *override.Enabled
			}
			if override.AlwaysHighest != nil {
				tool.AlwaysHighest = *override.AlwaysHighest
			}
			if override.SelectTemporary != nil {
				tool.SelectTemporary = *override.SelectTemporary
			}
			if override.TimerStart != nil {
				tool.TimerStart = *override.TimerStart
			}
		}
		out.Tools[kind] = tool
	}
	return out
}
