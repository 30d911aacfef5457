package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"gardenreach/internal/domain"
	"gardenreach/internal/infra/bridge"
	"gardenreach/internal/infra/config"
	"gardenreach/internal/infra/savestore"
	"gardenreach/internal/infra/telemetry"
)

const bridgeStaleAfter = 10 * time.Second

// BridgeConfig configures a bridge run.
type BridgeConfig struct {
	ConfigPath    string
	StorePath     string
	SaveID        string
	MetricsListen string
	Watch         bool
	Input         io.Reader
	Output        io.Writer
}

// Application serves one save over the JSON-lines bridge.
type Application struct {
	ctx      context.Context
	cfg      BridgeConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  domain.Metrics
	health   *telemetry.HealthTracker
	loader   *config.Loader
	store    domain.SelectionStore
}

// ApplicationOptions captures dependencies and settings for Application.
type ApplicationOptions struct {
	Context  context.Context
	Config   BridgeConfig
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  domain.Metrics
	Health   *telemetry.HealthTracker
	Loader   *config.Loader
	Store    *savestore.Store
}

func NewApplication(opts ApplicationOptions) *Application {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Config
	if cfg.Input == nil {
		cfg.Input = os.Stdin
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	health := opts.Health
	if health == nil {
		health = telemetry.NewHealthTracker()
	}
	loader := opts.Loader
	if loader == nil {
		loader = config.NewLoader(logger)
	}
	app := &Application{
		ctx:      ctx,
		cfg:      cfg,
		logger:   logger,
		registry: opts.Registry,
		metrics:  metrics,
		health:   health,
		loader:   loader,
	}
	// A nil *savestore.Store must not become a non-nil interface.
	if opts.Store != nil {
		app.store = opts.Store
	}
	return app
}

type decodedEvent struct {
	event domain.HostEvent
	err   error
}

// Run serves host events until the input ends or the context is canceled.
func (a *Application) Run() error {
	cfg, err := a.loader.LoadOrDefault(a.ctx, a.cfg.ConfigPath)
	if err != nil {
		return err
	}
	a.logger.Info("configuration loaded",
		zap.String("config", a.cfg.ConfigPath),
		zap.String("selectionOpenKey", cfg.SelectionOpenKey),
	)

	session, err := NewSession(SessionOptions{
		SaveID:  a.cfg.SaveID,
		Config:  cfg,
		Store:   a.store,
		Metrics: a.metrics,
		Logger:  a.logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	if a.cfg.MetricsListen != "" {
		go func() {
			err := telemetry.StartHTTPServer(ctx, telemetry.HTTPServerOptions{
				Addr:     a.cfg.MetricsListen,
				Health:   a.health,
				Registry: a.registry,
			}, a.logger)
			if err != nil {
				a.logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	var updates <-chan config.Update
	if a.cfg.Watch && a.cfg.ConfigPath != "" {
		watcher := config.NewWatcher(a.loader, a.cfg.ConfigPath, a.logger)
		updates, err = watcher.Watch(ctx)
		if err != nil {
			a.logger.Warn("config watch disabled", zap.String("path", a.cfg.ConfigPath), zap.Error(err))
			updates = nil
		}
	}

	events := make(chan decodedEvent)
	go readEvents(ctx, bridge.NewDecoder(a.cfg.Input), events)
	encoder := bridge.NewEncoder(a.cfg.Output)
	heartbeat := a.health.Register("bridge", bridgeStaleAfter)
	heartbeat.Beat()

	runErr := a.serve(ctx, session, events, updates, encoder, heartbeat)
	// readEvents stays blocked in Read until the input is closed.
	if closer, ok := a.cfg.Input.(io.Closer); ok {
		_ = closer.Close()
	}
	if err := session.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *Application) serve(
	ctx context.Context,
	session *Session,
	events <-chan decodedEvent,
	updates <-chan config.Update,
	encoder *bridge.Encoder,
	heartbeat *telemetry.Heartbeat,
) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if update.Err != nil {
				a.metrics.ObserveConfigReload(domain.ReloadResultFailure)
				continue
			}
			session.ApplyConfig(update.Config)
			a.metrics.ObserveConfigReload(domain.ReloadResultSuccess)
		case item, ok := <-events:
			if !ok {
				return nil
			}
			heartbeat.Beat()
			if item.err != nil {
				if errors.Is(item.err, io.EOF) {
					return nil
				}
				var lineErr *bridge.LineError
				if !errors.As(item.err, &lineErr) {
					return fmt.Errorf("read host events: %w", item.err)
				}
				a.logger.Warn("malformed host event", zap.Error(item.err))
				if err := encoder.Write([]domain.HostAction{domain.ErrorAction(domain.ToolNone, item.err)}); err != nil {
					return err
				}
				continue
			}
			actions, err := session.Handle(ctx, item.event)
			if err != nil {
				return nil
			}
			if err := encoder.Write(actions); err != nil {
				return err
			}
		}
	}
}

func readEvents(ctx context.Context, decoder *bridge.Decoder, out chan<- decodedEvent) {
	defer close(out)
	for {
		event, err := decoder.Next()
		select {
		case out <- decodedEvent{event: event, err: err}:
		case <-ctx.Done():
			return
		}
		if err == nil {
			continue
		}
		var lineErr *bridge.LineError
		if !errors.As(err, &lineErr) {
			return
		}
	}
}
