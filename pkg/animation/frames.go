package animation

import (
	"context"
	"sync"
	"time"
)

// FrameScheduler runs a callback on the next animation frame
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time))
}

// frameQueue holds callbacks until the next frame
type frameQueue struct {
	mu      sync.Mutex
	pending []func(time.Time)
}

func (q *frameQueue) RequestFrame(fn func(now time.Time)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, fn)
}

// flush runs the callbacks queued so far; callbacks requested while
// flushing wait for the next frame
func (q *frameQueue) flush(now time.Time) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn(now)
	}
	return len(batch)
}

// Pending returns the number of callbacks waiting for a frame
func (q *frameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualFrames is a scheduler whose frames are driven by the caller, for
// tests, offline rendering and hosts that own the frame loop
type ManualFrames struct {
	frameQueue
}

// NewManualFrames creates an empty manual scheduler
func NewManualFrames() *ManualFrames {
	return &ManualFrames{}
}

// Advance runs one frame at now and returns how many callbacks ran
func (m *ManualFrames) Advance(now time.Time) int {
	return m.flush(now)
}

// TickerFrames runs frames at a fixed interval on its own goroutine
type TickerFrames struct {
	frameQueue
	interval time.Duration
}

// NewTickerFrames creates a scheduler ticking every interval
func NewTickerFrames(interval time.Duration) *TickerFrames {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerFrames{interval: interval}
}

// Run ticks until ctx is cancelled
func (t *TickerFrames) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			t.flush(now)
		}
	}
}
