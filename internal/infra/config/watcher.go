package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"gardenreach/internal/domain"
)

const defaultReloadDebounce = 200 * time.Millisecond

// Update carries the outcome of a reload triggered by a file change.
type Update struct {
	Config domain.Config
	Err    error
}

// Watcher reloads the settings file when it changes on disk.
type Watcher struct {
	logger   *zap.Logger
	loader   *Loader
	path     string
	debounce time.Duration
}

func NewWatcher(loader *Loader, path string, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		logger:   logger.Named("config_watcher"),
		loader:   loader,
		path:     path,
		debounce: defaultReloadDebounce,
	}
}

// Watch emits one Update per debounced change burst until ctx ends.
// The directory is watched so editors that replace the file are seen.
func (w *Watcher) Watch(ctx context.Context) (<-chan Update, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan Update, 1)
	go w.run(ctx, watcher, out)
	return out, nil
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher, out chan<- Update) {
	defer close(out)
	defer watcher.Close()

	target := filepath.Clean(w.path)
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timerChan(timer):
			timer = nil
			cfg, err := w.loader.Load(ctx, w.path)
			if err != nil {
				w.logger.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
			}
			select {
			case out <- Update{Config: cfg, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
