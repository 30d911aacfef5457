package domain

// ControllerConfig is the immutable configuration of one tool option controller.
type ControllerConfig struct {
	Enabled         bool
	AlwaysHighest   bool
	SelectTemporary bool
	TimerStartValue int
	PromptKey       string
}

// Mode reports the state machine the configuration selects.
func (c ControllerConfig) Mode() Mode {
	switch {
	case !c.AlwaysHighest:
		return ModeManual
	case c.SelectTemporary:
		return ModeAutoTemporary
	default:
		return ModeAuto
	}
}

// ToolConfig is the per-tool section of the settings file.
type ToolConfig struct {
	Enabled         bool
	AlwaysHighest   bool
	SelectTemporary bool
	TimerStart      int
}

// Config is the full settings snapshot loaded once per session.
type Config struct {
	SelectionOpenKey string
	Tools            map[ToolKind]ToolConfig
}

// DefaultToolConfig returns the settings used when a tool section is absent.
func DefaultToolConfig() ToolConfig {
	return ToolConfig{
		Enabled:         DefaultToolEnabled,
		AlwaysHighest:   DefaultAlwaysHighest,
		SelectTemporary: DefaultSelectTemporary,
		TimerStart:      DefaultTimerStart,
	}
}

// DefaultConfig returns the settings of a fresh install.
func DefaultConfig() Config {
	tools := make(map[ToolKind]ToolConfig, len(ToolKinds()))
	for _, kind := range ToolKinds() {
		tools[kind] = DefaultToolConfig()
	}
	return Config{
		SelectionOpenKey: DefaultSelectionOpenKey,
		Tools:            tools,
	}
}

// Tool returns the section for kind, falling back to defaults.
func (c Config) Tool(kind ToolKind) ToolConfig {
	if tool, ok := c.Tools[kind]; ok {
		return tool
	}
	return DefaultToolConfig()
}

// ControllerConfig derives the controller configuration for kind.
func (c Config) ControllerConfig(kind ToolKind) ControllerConfig {
	tool := c.Tool(kind)
	return ControllerConfig{
		Enabled:         tool.Enabled,
		AlwaysHighest:   tool.AlwaysHighest,
		SelectTemporary: tool.SelectTemporary,
		TimerStartValue: tool.TimerStart,
		PromptKey:       kind.PromptKey(),
	}
}
