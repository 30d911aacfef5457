package domain

// HostEventType names a callback raised by the host game loop.
type HostEventType string

const (
	// EventUpdateTicked fires once per host update cycle.
	EventUpdateTicked HostEventType = "update"
	// EventSecondTicked fires once per second of host time.
	EventSecondTicked HostEventType = "second"
	// EventButtonReleased fires when a button is released.
	EventButtonReleased HostEventType = "button_released"
	// EventSelection reports the choice picked in a selection dialog.
	EventSelection HostEventType = "selection"
)

// ButtonState mirrors the host's raw button state.
type ButtonState string

const (
	ButtonNone     ButtonState = "none"
	ButtonPressed  ButtonState = "pressed"
	ButtonHeld     ButtonState = "held"
	ButtonReleased ButtonState = "released"
)

// IsDown reports whether the button is currently pressed or held.
func (s ButtonState) IsDown() bool {
	return s == ButtonPressed || s == ButtonHeld
}

// HostEvent carries the host facts for one callback.
type HostEvent struct {
	Type         HostEventType `json:"type" toml:"type"`
	WorldReady   bool          `json:"worldReady" toml:"worldReady"`
	Tool         string        `json:"tool,omitempty" toml:"tool"`
	UpgradeLevel int           `json:"upgradeLevel,omitempty" toml:"upgradeLevel"`
	Reach        bool          `json:"reach,omitempty" toml:"reach"`
	Busy         bool          `json:"busy,omitempty" toml:"busy"`
	UsingTool    bool          `json:"usingTool,omitempty" toml:"usingTool"`
	Button       string        `json:"button,omitempty" toml:"button"`
	Primary      ButtonState   `json:"primary,omitempty" toml:"primary"`
	Choice       string        `json:"choice,omitempty" toml:"choice"`
}

// Kind returns the equipped tool kind named by the event.
func (e HostEvent) Kind() ToolKind {
	return ParseToolKind(e.Tool)
}

// Capabilities returns the equipped tool's capabilities.
func (e HostEvent) Capabilities() ToolCapabilities {
	return ToolCapabilities{UpgradeLevel: e.UpgradeLevel, HasReachEnchantment: e.Reach}
}

// HostActionType names an instruction for the host.
type HostActionType string

const (
	ActionToolPower HostActionType = "tool_power"
	ActionToolHold  HostActionType = "tool_hold"
	ActionOpenMenu  HostActionType = "open_menu"
	ActionEndCharge HostActionType = "end_charge"
	ActionError     HostActionType = "error"
)

// HostAction is one instruction produced in response to a host event.
type HostAction struct {
	Type    HostActionType `json:"type"`
	Tool    ToolKind       `json:"tool,omitempty"`
	Value   int            `json:"value"`
	Menu    *MenuSpec      `json:"menu,omitempty"`
	Code    ErrorCode      `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
}

// ErrorAction converts err into an error action for the host.
func ErrorAction(kind ToolKind, err error) HostAction {
	code, ok := CodeFrom(err)
	if !ok {
		code = CodeInternal
	}
	return HostAction{Type: ActionError, Tool: kind, Code: code, Message: err.Error()}
}
