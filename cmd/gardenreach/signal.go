package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gardenreach/internal/infra/savestore"
)

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func defaultStorePath() string {
	return savestore.ResolveDefaultPath()
}
