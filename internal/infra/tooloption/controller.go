package tooloption

import (
	"gardenreach/internal/domain"
)

// State is a snapshot of one controller's mutable fields.
type State struct {
	SelectedOption int
	Dirty          bool
	Timer          int
}

// Controller owns one tool's selected option and the rules that derive it.
// It is not safe for concurrent use; the host serializes all callbacks.
type Controller struct {
	kind   domain.ToolKind
	cfg    domain.ControllerConfig
	caps   domain.ToolCapabilities
	state  State
	closed bool
}

// NewController restores a controller with a previously persisted option.
// The option is not validated until the first Refresh.
func NewController(kind domain.ToolKind, cfg domain.ControllerConfig, selectedOption int) *Controller {
	if cfg.TimerStartValue < 0 {
		cfg.TimerStartValue = 0
	}
	return &Controller{
		kind:  kind,
		cfg:   cfg,
		state: State{SelectedOption: selectedOption},
	}
}

func (c *Controller) Kind() domain.ToolKind {
	return c.kind
}

func (c *Controller) Config() domain.ControllerConfig {
	return c.cfg
}

func (c *Controller) Mode() domain.Mode {
	return c.cfg.Mode()
}

// Enabled reports whether the controller is configured on and has not been disabled.
func (c *Controller) Enabled() bool {
	return c.cfg.Enabled && !c.closed
}

// Disable turns the controller off for the rest of the session.
func (c *Controller) Disable() {
	c.closed = true
}

func (c *Controller) SelectedOption() int {
	return c.state.SelectedOption
}

func (c *Controller) Dirty() bool {
	return c.state.Dirty
}

func (c *Controller) ClearDirty() {
	c.state.Dirty = false
}

func (c *Controller) Timer() int {
	return c.state.Timer
}

func (c *Controller) State() State {
	return c.state
}

// Capabilities returns the capabilities recorded by the last Refresh.
func (c *Controller) Capabilities() domain.ToolCapabilities {
	return c.caps
}

// MaxSelectable returns the highest option for caps.
func (c *Controller) MaxSelectable(caps domain.ToolCapabilities) (int, error) {
	return domain.MaxSelectable(c.kind, caps)
}

// SetSelectedOption stores value when it fits the current range.
// Out-of-range values reset the option to 0 rather than to the maximum.
func (c *Controller) SetSelectedOption(value int) {
	limit, err := c.MaxSelectable(c.caps)
	if err == nil && value >= 0 && value <= limit {
		if value == c.state.SelectedOption {
			return
		}
		c.state.SelectedOption = value
		c.state.Dirty = true
		return
	}
	c.state.SelectedOption = 0
	c.state.Dirty = true
}

// Refresh records caps and re-validates the selected option against them.
func (c *Controller) Refresh(caps domain.ToolCapabilities) error {
	if _, err := c.MaxSelectable(caps); err != nil {
		return err
	}
	c.caps = caps
	c.SetSelectedOption(c.state.SelectedOption)
	return nil
}

// Tick runs one update cycle and returns the option to apply as tool power.
func (c *Controller) Tick(caps domain.ToolCapabilities) (int, error) {
	if err := c.Refresh(caps); err != nil {
		return c.state.SelectedOption, err
	}
	if !c.cfg.AlwaysHighest {
		return c.state.SelectedOption, nil
	}
	if c.cfg.SelectTemporary && c.state.Timer > 0 {
		c.state.Timer--
		return c.state.SelectedOption, nil
	}
	limit, err := c.MaxSelectable(caps)
	if err != nil {
		return c.state.SelectedOption, err
	}
	c.SetSelectedOption(limit)
	return c.state.SelectedOption, nil
}

// TimerTick advances the temporary-override countdown by one cycle.
func (c *Controller) TimerTick() {
	if c.state.Timer > 0 {
		c.state.Timer--
	}
}

// MenuBlocked reports whether a selection menu request would be refused.
// Pure auto mode never shows a menu because the choice would be overwritten on the next tick.
func (c *Controller) MenuBlocked() bool {
	return !c.Enabled() || (c.cfg.AlwaysHighest && !c.cfg.SelectTemporary)
}

// RequestOpenSelectionMenu returns the dialog to show, or nil when blocked.
// In auto-temporary mode it re-arms the countdown.
func (c *Controller) RequestOpenSelectionMenu() (*domain.MenuSpec, error) {
	if c.MenuBlocked() {
		return nil, nil
	}
	limit, err := c.MaxSelectable(c.caps)
	if err != nil {
		return nil, err
	}
	if c.cfg.AlwaysHighest && c.cfg.SelectTemporary {
		c.state.Timer = c.cfg.TimerStartValue
	}
	choices := make([]domain.MenuChoice, 0, limit+1)
	for i := 0; i <= limit; i++ {
		choices = append(choices, domain.MenuChoice{
			Key:      domain.ChoiceKey(i),
			LabelKey: domain.OptionLabelKey(i),
			Current:  c.state.SelectedOption == i,
		})
	}
	return &domain.MenuSpec{
		Tool:             c.kind,
		PromptKey:        c.cfg.PromptKey,
		CurrentOptionKey: domain.CurrentOptionKey,
		Choices:          choices,
	}, nil
}

// ApplySelection stores the option picked in the selection menu.
func (c *Controller) ApplySelection(choiceIndex int) {
	c.SetSelectedOption(choiceIndex)
}

// OnSingleActivationAttempt decides whether a held primary action is a single activation.
// Allow is returned when the tool has no charge-up to offer: it is not upgraded, or
// option 0 is selected, which behaves like the lowest tier.
func (c *Controller) OnSingleActivationAttempt(isBusy, isUsingTool bool) domain.Activation {
	if !c.Enabled() {
		return domain.ActivationSuppress
	}
	if isBusy && !isUsingTool {
		return domain.ActivationSuppress
	}
	if c.caps.UpgradeLevel != 0 && c.state.SelectedOption != 0 {
		return domain.ActivationSuppress
	}
	return domain.ActivationAllow
}
