package tooloption

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gardenreach/internal/domain"
)

// TickResult is the outcome of one dispatched update cycle.
type TickResult struct {
	Kind      domain.ToolKind
	Power     int
	PowerSet  bool
	Changed   bool
	Disabled  bool
	Previous  int
	Remaining int
}

// Registry holds one controller per tool kind and routes host events to the equipped one.
type Registry struct {
	logger      *zap.Logger
	order       []domain.ToolKind
	controllers map[domain.ToolKind]*Controller
	seen        map[domain.ToolKind]bool
}

// NewRegistry builds a registry over controllers; later duplicates replace earlier ones.
func NewRegistry(logger *zap.Logger, controllers ...*Controller) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		logger:      logger.Named("tooloption"),
		controllers: make(map[domain.ToolKind]*Controller, len(controllers)),
		seen:        make(map[domain.ToolKind]bool, len(controllers)),
	}
	for _, ctrl := range controllers {
		r.Replace(ctrl)
	}
	return r
}

// Replace installs ctrl for its kind, discarding any previous controller.
func (r *Registry) Replace(ctrl *Controller) {
	if ctrl == nil {
		return
	}
	kind := ctrl.Kind()
	if _, exists := r.controllers[kind]; !exists {
		r.order = append(r.order, kind)
	}
	r.controllers[kind] = ctrl
	delete(r.seen, kind)
}

// Controller returns the controller for kind.
func (r *Registry) Controller(kind domain.ToolKind) (*Controller, bool) {
	ctrl, ok := r.controllers[kind]
	return ctrl, ok
}

// Kinds returns the registered tool kinds in registration order.
func (r *Registry) Kinds() []domain.ToolKind {
	out := make([]domain.ToolKind, len(r.order))
	copy(out, r.order)
	return out
}

// DispatchTick runs one update cycle. Countdowns of every controller advance once;
// only the controller of the equipped tool is ticked and may be forced.
func (r *Registry) DispatchTick(equipped domain.ToolKind, caps domain.ToolCapabilities) (TickResult, error) {
	result := TickResult{Kind: equipped}
	var errs []error
	for _, kind := range r.order {
		if kind == equipped {
			continue
		}
		ctrl := r.controllers[kind]
		ctrl.TimerTick()
		if !ctrl.Enabled() || !r.seen[kind] {
			continue
		}
		if err := ctrl.Refresh(ctrl.Capabilities()); err != nil {
			errs = append(errs, r.disable(ctrl, err))
		}
	}

	ctrl, ok := r.controllers[equipped]
	if !ok || !ctrl.Enabled() {
		return result, errors.Join(errs...)
	}
	result.Previous = ctrl.SelectedOption()
	power, err := ctrl.Tick(caps)
	if err != nil {
		result.Disabled = true
		errs = append(errs, r.disable(ctrl, err))
		return result, errors.Join(errs...)
	}
	r.seen[equipped] = true
	result.Power = power
	result.PowerSet = true
	result.Changed = power != result.Previous
	result.Remaining = ctrl.Timer()
	return result, errors.Join(errs...)
}

// DispatchButtonReleased routes an open-menu request to the equipped tool's controller.
// A nil menu with a nil error means the request is blocked.
func (r *Registry) DispatchButtonReleased(equipped domain.ToolKind, caps domain.ToolCapabilities) (*domain.MenuSpec, error) {
	ctrl, ok := r.controllers[equipped]
	if !ok || ctrl.MenuBlocked() {
		return nil, nil
	}
	if err := ctrl.Refresh(caps); err != nil {
		return nil, r.disable(ctrl, err)
	}
	r.seen[equipped] = true
	menu, err := ctrl.RequestOpenSelectionMenu()
	if err != nil {
		return nil, r.disable(ctrl, err)
	}
	return menu, nil
}

// DispatchSelection applies a menu outcome to the controller of kind.
func (r *Registry) DispatchSelection(kind domain.ToolKind, choiceIndex int) error {
	ctrl, ok := r.controllers[kind]
	if !ok {
		return fmt.Errorf("selection for %s: %w", kind, domain.ErrUnknownToolKind)
	}
	if !ctrl.Enabled() {
		return fmt.Errorf("selection for %s: %w", kind, domain.ErrControllerDisabled)
	}
	ctrl.ApplySelection(choiceIndex)
	return nil
}

// DispatchActivation evaluates the single-activation gate for the equipped tool.
func (r *Registry) DispatchActivation(equipped domain.ToolKind, caps domain.ToolCapabilities, isBusy, isUsingTool bool) (domain.Activation, error) {
	ctrl, ok := r.controllers[equipped]
	if !ok || !ctrl.Enabled() {
		return domain.ActivationSuppress, nil
	}
	if err := ctrl.Refresh(caps); err != nil {
		return domain.ActivationSuppress, r.disable(ctrl, err)
	}
	r.seen[equipped] = true
	return ctrl.OnSingleActivationAttempt(isBusy, isUsingTool), nil
}

// Reconfigure rebuilds every controller from configFor. Selected options and dirty
// flags carry over; countdowns restart at 0 and disabled controllers get a fresh start.
func (r *Registry) Reconfigure(configFor func(domain.ToolKind) domain.ControllerConfig) {
	for _, kind := range r.order {
		old := r.controllers[kind]
		next := NewController(kind, configFor(kind), old.SelectedOption())
		next.state.Dirty = old.Dirty()
		r.Replace(next)
	}
}

// AnyDirty reports whether any controller changed since the last ClearDirty.
func (r *Registry) AnyDirty() bool {
	for _, kind := range r.order {
		if r.controllers[kind].Dirty() {
			return true
		}
	}
	return false
}

func (r *Registry) ClearDirty() {
	for _, kind := range r.order {
		r.controllers[kind].ClearDirty()
	}
}

// Snapshot returns the selected option of every controller for persistence.
func (r *Registry) Snapshot() map[domain.ToolKind]int {
	out := make(map[domain.ToolKind]int, len(r.order))
	for _, kind := range r.order {
		out[kind] = r.controllers[kind].SelectedOption()
	}
	return out
}

func (r *Registry) disable(ctrl *Controller, err error) error {
	ctrl.Disable()
	r.logger.Error("tool option controller disabled",
		zap.String("tool", ctrl.Kind().String()),
		zap.Error(err),
	)
	return domain.Wrap("", "tool "+ctrl.Kind().String(), err)
}
