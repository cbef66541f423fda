package driver

import (
	"sync"
	"time"
)

const (
	warmupSamples = 10
	fpsAlpha      = 0.1
)

// FrameRate is a rolling ticks-per-second estimate: a plain mean over the
// first samples, then an exponentially weighted average.
type FrameRate struct {
	mu      sync.Mutex
	samples int
	avg     float64
}

// Observe records one loop period.
func (r *FrameRate) Observe(period time.Duration) {
	if period <= 0 {
		return
	}
	fps := float64(time.Second) / float64(period)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples++
	if r.samples <= warmupSamples {
		r.avg += (fps - r.avg) / float64(r.samples)
		return
	}
	r.avg += fpsAlpha * (fps - r.avg)
}

// Average returns the current estimate, 0 before any sample.
func (r *FrameRate) Average() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.avg
}

// Reset discards all samples.
func (r *FrameRate) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = 0
	r.avg = 0
}
