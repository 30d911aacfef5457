package app

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"go.uber.org/zap"

	"gardenreach/internal/domain"
	"gardenreach/internal/infra/config"
	"gardenreach/internal/infra/savestore"
	"gardenreach/internal/infra/telemetry"
)

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(prometheus.NewGoCollector())
	publishBuildInfo()
	registry.MustRegister(versioncollector.NewCollector("gardenreach"))
	return registry
}

func NewMetrics(registry *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(registry)
}

func NewHealthTracker() *telemetry.HealthTracker {
	return telemetry.NewHealthTracker()
}

func NewConfigLoader(logger *zap.Logger) *config.Loader {
	return config.NewLoader(logger)
}

// NewSelectionStore opens the bbolt store at path, or the default location when empty.
func NewSelectionStore(path string) (*savestore.Store, func(), error) {
	if strings.TrimSpace(path) == "" {
		path = savestore.ResolveDefaultPath()
	}
	store, err := savestore.OpenStore(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func newBridgeStore(cfg BridgeConfig) (*savestore.Store, func(), error) {
	return NewSelectionStore(cfg.StorePath)
}
