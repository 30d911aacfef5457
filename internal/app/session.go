package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gardenreach/internal/domain"
	"gardenreach/internal/infra/telemetry"
	"gardenreach/internal/infra/tooloption"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	SaveID  string
	Config  domain.Config
	Store   domain.SelectionStore
	Metrics domain.Metrics
	Logger  *zap.Logger
}

// Session owns the tool option state of one loaded save and is driven by host events.
// Calls must be serialized by the caller.
type Session struct {
	id      string
	saveID  string
	cfg     domain.Config
	store   domain.SelectionStore
	metrics domain.Metrics
	logger  *zap.Logger

	registry  *tooloption.Registry
	published map[domain.ToolKind]int
	enabled   map[domain.ToolKind]bool
}

// NewSession restores the selections of opts.SaveID. Absent or unreadable
// records start every tool at option 0.
func NewSession(opts SessionOptions) (*Session, error) {
	saveID := strings.TrimSpace(opts.SaveID)
	if saveID == "" {
		return nil, domain.E(domain.CodeInvalidArgument, "new session", "save id is required", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	cfg := opts.Config
	if cfg.Tools == nil {
		cfg = domain.DefaultConfig()
	}

	id := uuid.NewString()
	s := &Session{
		id:        id,
		saveID:    saveID,
		cfg:       cfg,
		store:     opts.Store,
		metrics:   metrics,
		logger:    logger.Named("session").With(telemetry.SessionIDField(id), telemetry.SaveIDField(saveID)),
		published: make(map[domain.ToolKind]int),
		enabled:   make(map[domain.ToolKind]bool),
	}

	restored := s.restore()
	controllers := make([]*tooloption.Controller, 0, len(domain.ToolKinds()))
	for _, kind := range domain.ToolKinds() {
		controllers = append(controllers, tooloption.NewController(kind, cfg.ControllerConfig(kind), restored.Option(kind)))
	}
	s.registry = tooloption.NewRegistry(s.logger, controllers...)
	s.observeDisabled()
	s.publish()
	s.logger.Info("session started", telemetry.EventField(telemetry.EventSessionStart))
	return s, nil
}

func (s *Session) restore() domain.Selections {
	if s.store == nil {
		return domain.Selections{SaveID: s.saveID}
	}
	record, ok, err := s.store.Load(s.saveID)
	if err != nil {
		s.logger.Warn("stored selections unreadable; starting from defaults",
			telemetry.EventField(telemetry.EventSelectionRestore),
			zap.Error(err),
		)
		return domain.Selections{SaveID: s.saveID}
	}
	if !ok {
		return domain.Selections{SaveID: s.saveID}
	}
	s.logger.Info("selections restored",
		telemetry.EventField(telemetry.EventSelectionRestore),
		zap.Any("options", record.Options),
	)
	return record
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) SaveID() string {
	return s.saveID
}

func (s *Session) Config() domain.Config {
	return s.cfg
}

// Selections returns the current option of every tool.
func (s *Session) Selections() map[domain.ToolKind]int {
	return s.registry.Snapshot()
}

// Handle processes one host event and returns the actions the host should apply.
// Tool failures are reported as error actions; only cancellation is returned as an error.
func (s *Session) Handle(ctx context.Context, event domain.HostEvent) ([]domain.HostAction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !event.WorldReady {
		return nil, nil
	}

	var actions []domain.HostAction
	switch event.Type {
	case domain.EventUpdateTicked:
		actions = s.handleUpdate(event)
	case domain.EventSecondTicked:
		actions = s.handleSecond(event)
	case domain.EventButtonReleased:
		actions = s.handleButtonReleased(event)
	case domain.EventSelection:
		actions = s.handleSelection(event)
	default:
		err := domain.E(domain.CodeInvalidArgument, "handle event", "event type "+string(event.Type), domain.ErrUnknownEvent)
		return []domain.HostAction{domain.ErrorAction(domain.ToolNone, err)}, nil
	}

	s.observeDisabled()
	s.publish()
	if err := s.persistIfDirty(); err != nil {
		actions = append(actions, domain.ErrorAction(domain.ToolNone, err))
	}
	return actions, nil
}

func (s *Session) handleUpdate(event domain.HostEvent) []domain.HostAction {
	kind := event.Kind()
	result, err := s.registry.DispatchTick(kind, event.Capabilities())
	var actions []domain.HostAction
	if err != nil {
		actions = append(actions, s.errorActions(kind, err)...)
	}
	if !result.PowerSet {
		return actions
	}
	s.metrics.ObserveTick(kind)
	return append(actions,
		domain.HostAction{Type: domain.ActionToolPower, Tool: kind, Value: result.Power},
		domain.HostAction{Type: domain.ActionToolHold, Tool: kind, Value: domain.DefaultToolHold},
	)
}

func (s *Session) handleSecond(event domain.HostEvent) []domain.HostAction {
	if !event.Primary.IsDown() {
		return nil
	}
	kind := event.Kind()
	activation, err := s.registry.DispatchActivation(kind, event.Capabilities(), event.Busy, event.UsingTool)
	if err != nil {
		return s.errorActions(kind, err)
	}
	if activation != domain.ActivationAllow {
		return nil
	}
	return []domain.HostAction{{Type: domain.ActionEndCharge, Tool: kind}}
}

func (s *Session) handleButtonReleased(event domain.HostEvent) []domain.HostAction {
	if event.Busy {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(event.Button), s.cfg.SelectionOpenKey) {
		return nil
	}
	kind := event.Kind()
	if _, ok := s.registry.Controller(kind); !ok {
		return nil
	}
	menu, err := s.registry.DispatchButtonReleased(kind, event.Capabilities())
	if err != nil {
		s.metrics.ObserveMenuRequest(kind, domain.MenuRequestFailed)
		return s.errorActions(kind, err)
	}
	if menu == nil {
		s.metrics.ObserveMenuRequest(kind, domain.MenuRequestBlocked)
		return nil
	}
	s.metrics.ObserveMenuRequest(kind, domain.MenuRequestOpened)
	s.logger.Debug("selection menu opened",
		telemetry.EventField(telemetry.EventMenuOpen),
		telemetry.ToolField(kind),
		zap.Int("choices", len(menu.Choices)),
	)
	return []domain.HostAction{{Type: domain.ActionOpenMenu, Tool: kind, Menu: menu}}
}

func (s *Session) handleSelection(event domain.HostEvent) []domain.HostAction {
	kind := event.Kind()
	choice, err := domain.ParseChoiceKey(strings.TrimSpace(event.Choice))
	if err != nil {
		return s.errorActions(kind, err)
	}
	if err := s.registry.DispatchSelection(kind, choice); err != nil {
		return s.errorActions(kind, domain.Wrap("", "selection "+kind.String(), err))
	}
	return nil
}

// ApplyConfig swaps the settings snapshot. Selected options survive; countdowns restart.
func (s *Session) ApplyConfig(cfg domain.Config) {
	if cfg.Tools == nil {
		cfg = domain.DefaultConfig()
	}
	s.cfg = cfg
	s.registry.Reconfigure(cfg.ControllerConfig)
	s.observeDisabled()
	s.logger.Info("config applied", telemetry.EventField(telemetry.EventConfigReload))
}

// Close writes any pending selection change.
func (s *Session) Close() error {
	err := s.persistIfDirty()
	s.logger.Info("session stopped", telemetry.EventField(telemetry.EventSessionStop))
	return err
}

func (s *Session) persistIfDirty() error {
	if !s.registry.AnyDirty() {
		return nil
	}
	if s.store == nil {
		s.registry.ClearDirty()
		return nil
	}
	record := domain.Selections{SaveID: s.saveID, Options: s.registry.Snapshot()}
	if err := s.store.Save(record); err != nil {
		s.metrics.ObservePersist(domain.PersistResultFailure)
		s.logger.Error("persist selections failed",
			telemetry.EventField(telemetry.EventSelectionPersist),
			zap.Error(err),
		)
		return domain.Wrap(domain.CodeUnavailable, "persist selections", err)
	}
	s.registry.ClearDirty()
	s.metrics.ObservePersist(domain.PersistResultSuccess)
	s.logger.Debug("selections persisted",
		telemetry.EventField(telemetry.EventSelectionPersist),
		zap.Any("options", record.Options),
	)
	return nil
}

// publish mirrors selected options into metrics and counts changes.
func (s *Session) publish() {
	for kind, option := range s.registry.Snapshot() {
		previous, seen := s.published[kind]
		if seen && previous == option {
			continue
		}
		if seen {
			s.metrics.ObserveSelectionChange(kind)
		}
		s.published[kind] = option
		s.metrics.SetSelectedOption(kind, option)
	}
}

func (s *Session) observeDisabled() {
	for _, kind := range s.registry.Kinds() {
		ctrl, _ := s.registry.Controller(kind)
		enabled := ctrl.Enabled()
		if was, ok := s.enabled[kind]; ok && was && !enabled {
			s.metrics.ObserveControllerDisabled(kind)
		}
		s.enabled[kind] = enabled
	}
}

// errorActions reports each joined failure separately so the host sees every tool.
func (s *Session) errorActions(kind domain.ToolKind, err error) []domain.HostAction {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []domain.HostAction
		for _, inner := range joined.Unwrap() {
			out = append(out, s.errorActions(kind, inner)...)
		}
		return out
	}
	var unsupported *domain.UnsupportedToolError
	if errors.As(err, &unsupported) {
		kind = unsupported.Kind
	}
	s.logger.Warn("tool event failed", telemetry.ToolField(kind), zap.Error(err))
	return []domain.HostAction{domain.ErrorAction(kind, err)}
}
