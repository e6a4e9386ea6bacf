package analysis

import (
	"sync"

	"github.com/fullsnack-DEV/React-Native-Performance-Plugin/internal/domain"
)

// LiveTracker folds the telemetry sample stream of one capture session
// into two running accumulators. It is the single piece of mutable
// state beside the otherwise pure engine; samples arrive on websocket
// reader goroutines, hence the mutex. Memory use is O(1) regardless of
// stream length.
type LiveTracker struct {
	mu           sync.Mutex
	worstFPS     *float64
	stallTotalMs float64
}

func NewLiveTracker() *LiveTracker { return &LiveTracker{} }

// OnSample folds one periodic sample. Negative stall values are clamped
// to zero; min/sum are commutative so sample ordering does not matter.
func (t *LiveTracker) OnSample(fps, stallMs float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.worstFPS == nil || fps < *t.worstFPS {
		v := fps
		t.worstFPS = &v
	}
	if stallMs > 0 {
		t.stallTotalMs += stallMs
	}
}

// Reset restores the accumulators to (nil, 0). Called exactly once at
// the start of each capture session.
func (t *LiveTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.worstFPS = nil
	t.stallTotalMs = 0
}

// Snapshot returns a copy of the current accumulators.
func (t *LiveTracker) Snapshot() domain.LiveSessionMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := domain.LiveSessionMetrics{StallTotalMs: t.stallTotalMs}
	if t.worstFPS != nil {
		v := *t.worstFPS
		m.WorstFPS = &v
	}
	return m
}
