//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
)

var CoreInfraSet = wire.NewSet(
	NewLogger,
	NewMetricsRegistry,
	NewMetrics,
	NewHealthTracker,
	NewConfigLoader,
)

var StorageSet = wire.NewSet(
	newBridgeStore,
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	StorageSet,
	wire.Struct(new(ApplicationOptions), "*"),
	NewApplication,
)
