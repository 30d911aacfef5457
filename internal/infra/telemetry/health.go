package telemetry

import (
	"sort"
	"sync"
	"time"
)

// HealthReport is the JSON body served on /healthz.
type HealthReport struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks,omitempty"`
}

type HealthCheck struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	LastBeat string `json:"lastBeat,omitempty"`
}

// HealthTracker reports loops as stale when they stop beating.
type HealthTracker struct {
	mu    sync.Mutex
	loops map[string]*Heartbeat
	now   func() time.Time
}

type Heartbeat struct {
	tracker    *HealthTracker
	staleAfter time.Duration
	last       time.Time
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		loops: make(map[string]*Heartbeat),
		now:   time.Now,
	}
}

// Register adds a loop that must beat at least once per staleAfter.
func (t *HealthTracker) Register(name string, staleAfter time.Duration) *Heartbeat {
	t.mu.Lock()
	defer t.mu.Unlock()
	beat := &Heartbeat{tracker: t, staleAfter: staleAfter}
	t.loops[name] = beat
	return beat
}

func (h *Heartbeat) Beat() {
	if h == nil {
		return
	}
	h.tracker.mu.Lock()
	h.last = h.tracker.now()
	h.tracker.mu.Unlock()
}

func (t *HealthTracker) Report() HealthReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	report := HealthReport{Status: "ok"}
	now := t.now()
	names := make([]string, 0, len(t.loops))
	for name := range t.loops {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		beat := t.loops[name]
		check := HealthCheck{Name: name, Status: "ok"}
		if beat.last.IsZero() || now.Sub(beat.last) > beat.staleAfter {
			check.Status = "stale"
			report.Status = "degraded"
		}
		if !beat.last.IsZero() {
			check.LastBeat = beat.last.UTC().Format(time.RFC3339Nano)
		}
		report.Checks = append(report.Checks, check)
	}
	return report
}
