package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gardenreach/internal/domain"
)

func TestNewPrometheusMetrics_UsesProvidedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewPrometheusMetrics(registry)
	m.ObserveTick(domain.ToolWateringCan)
	m.SetSelectedOption(domain.ToolWateringCan, 3)
	m.ObserveMenuRequest(domain.ToolHoe, domain.MenuRequestBlocked)
	m.ObserveSelectionChange(domain.ToolHoe)
	m.ObserveControllerDisabled(domain.ToolHoe)
	m.ObservePersist(domain.PersistResultSuccess)
	m.ObserveConfigReload(domain.ReloadResultFailure)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}

	assert.Contains(t, names, "gardenreach_ticks_total")
	assert.Contains(t, names, "gardenreach_selected_option")
	assert.Contains(t, names, "gardenreach_menu_requests_total")
	assert.Contains(t, names, "gardenreach_selection_changes_total")
	assert.Contains(t, names, "gardenreach_controller_disabled_total")
	assert.Contains(t, names, "gardenreach_persist_total")
	assert.Contains(t, names, "gardenreach_config_reloads_total")
}

func TestPrometheusMetrics_Values(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewPrometheusMetrics(registry)

	m.ObserveTick(domain.ToolHoe)
	m.ObserveTick(domain.ToolHoe)
	m.SetSelectedOption(domain.ToolWateringCan, 4)
	m.ObserveMenuRequest(domain.ToolHoe, domain.MenuRequestOpened)

	assert.Equal(t, 2.0, gatheredValue(t, registry, "gardenreach_ticks_total", map[string]string{"tool": "hoe"}))
	assert.Equal(t, 4.0, gatheredValue(t, registry, "gardenreach_selected_option", map[string]string{"tool": "wateringCan"}))
	assert.Equal(t, 1.0, gatheredValue(t, registry, "gardenreach_menu_requests_total", map[string]string{"tool": "hoe", "result": "opened"}))
}

func gatheredValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := 0
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] == pair.GetValue() {
					matched++
				}
			}
			if matched != len(labels) {
				continue
			}
			if counter := metric.GetCounter(); counter != nil {
				return counter.GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func TestNoopMetrics(t *testing.T) {
	var m domain.Metrics = NewNoopMetrics()
	m.ObserveTick(domain.ToolHoe)
	m.ObservePersist(domain.PersistResultFailure)
}

func TestHealthTracker_Report(t *testing.T) {
	tracker := NewHealthTracker()
	assert.Equal(t, "ok", tracker.Report().Status)

	beat := tracker.Register("bridge", 0)
	report := tracker.Report()
	assert.Equal(t, "degraded", report.Status)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, "stale", report.Checks[0].Status)

	beat.staleAfter = 1 << 62
	beat.Beat()
	assert.Equal(t, "ok", tracker.Report().Status)
}
