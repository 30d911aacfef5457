package telemetry

import "gardenreach/internal/domain"

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveTick(_ domain.ToolKind) {}

func (n *NoopMetrics) SetSelectedOption(_ domain.ToolKind, _ int) {}

func (n *NoopMetrics) ObserveMenuRequest(_ domain.ToolKind, _ domain.MenuRequestResult) {}

func (n *NoopMetrics) ObserveSelectionChange(_ domain.ToolKind) {}

func (n *NoopMetrics) ObserveControllerDisabled(_ domain.ToolKind) {}

func (n *NoopMetrics) ObservePersist(_ domain.PersistResult) {}

func (n *NoopMetrics) ObserveConfigReload(_ domain.ReloadResult) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
