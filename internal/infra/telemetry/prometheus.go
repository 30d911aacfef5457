package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gardenreach/internal/domain"
)

type PrometheusMetrics struct {
	ticks              *prometheus.CounterVec
	selectedOption     *prometheus.GaugeVec
	menuRequests       *prometheus.CounterVec
	selectionChanges   *prometheus.CounterVec
	controllerDisabled *prometheus.CounterVec
	persists           *prometheus.CounterVec
	configReloads      *prometheus.CounterVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		ticks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gardenreach_ticks_total",
				Help: "Total number of update cycles dispatched to the equipped tool",
			},
			[]string{"tool"},
		),
		selectedOption: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gardenreach_selected_option",
				Help: "Currently selected power option per tool",
			},
			[]string{"tool"},
		),
		menuRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gardenreach_menu_requests_total",
				Help: "Total number of selection menu requests by outcome",
			},
			[]string{"tool", "result"},
		),
		selectionChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gardenreach_selection_changes_total",
				Help: "Total number of selected option changes",
			},
			[]string{"tool"},
		),
		controllerDisabled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gardenreach_controller_disabled_total",
				Help: "Total number of controllers disabled after an error",
			},
			[]string{"tool"},
		),
		persists: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gardenreach_persist_total",
				Help: "Total number of selection writes by outcome",
			},
			[]string{"result"},
		),
		configReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gardenreach_config_reloads_total",
				Help: "Total number of config reloads by outcome",
			},
			[]string{"result"},
		),
	}
}

func (p *PrometheusMetrics) ObserveTick(kind domain.ToolKind) {
	p.ticks.WithLabelValues(kind.String()).Inc()
}

func (p *PrometheusMetrics) SetSelectedOption(kind domain.ToolKind, option int) {
	p.selectedOption.WithLabelValues(kind.String()).Set(float64(option))
}

func (p *PrometheusMetrics) ObserveMenuRequest(kind domain.ToolKind, result domain.MenuRequestResult) {
	p.menuRequests.WithLabelValues(kind.String(), string(result)).Inc()
}

func (p *PrometheusMetrics) ObserveSelectionChange(kind domain.ToolKind) {
	p.selectionChanges.WithLabelValues(kind.String()).Inc()
}

func (p *PrometheusMetrics) ObserveControllerDisabled(kind domain.ToolKind) {
	p.controllerDisabled.WithLabelValues(kind.String()).Inc()
}

func (p *PrometheusMetrics) ObservePersist(result domain.PersistResult) {
	p.persists.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusMetrics) ObserveConfigReload(result domain.ReloadResult) {
	p.configReloads.WithLabelValues(string(result)).Inc()
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
