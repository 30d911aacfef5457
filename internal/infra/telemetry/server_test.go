package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gardenreach/internal/domain"
)

func startServer(t *testing.T, opts HTTPServerOptions) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ready := make(chan string, 1)
	opts.Addr = "127.0.0.1:0"
	opts.Ready = ready

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- StartHTTPServer(ctx, opts, zap.NewNop())
	}()

	select {
	case addr := <-ready:
		return addr, cancel, errChan
	case err := <-errChan:
		cancel()
		t.Skipf("skip test due to listen error: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not start in time")
	}
	return "", cancel, errChan
}

func waitStopped(t *testing.T, errChan <-chan error) {
	t.Helper()
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop in time")
	}
}

func TestStartHTTPServer_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(registry)
	metrics.ObserveTick(domain.ToolHoe)

	addr, cancel, errChan := startServer(t, HTTPServerOptions{Registry: registry})

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `gardenreach_ticks_total{tool="hoe"} 1`)

	cancel()
	waitStopped(t, errChan)
}

func TestStartHTTPServer_PortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skip test due to listen error: %v", err)
	}
	defer listener.Close()

	err = StartHTTPServer(context.Background(), HTTPServerOptions{Addr: listener.Addr().String()}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics server failed to start")
}

func TestStartHTTPServer_Healthz(t *testing.T) {
	tracker := NewHealthTracker()
	beat := tracker.Register("bridge", 200*time.Millisecond)
	beat.Beat()

	addr, cancel, errChan := startServer(t, HTTPServerOptions{Health: tracker})
	url := fmt.Sprintf("http://%s/healthz", addr)

	waitForHealth(t, url, http.StatusOK, "ok")
	waitForHealth(t, url, http.StatusServiceUnavailable, "degraded")

	cancel()
	waitStopped(t, errChan)
}

func waitForHealth(t *testing.T, url string, status int, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != status {
			return false
		}
		var report HealthReport
		if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
			return false
		}
		return report.Status == want
	}, 3*time.Second, 20*time.Millisecond)
}
