package field

import "time"

// DefaultMaxStep is the longest single integration step the clock produces
// when the caller's substep cap allows it.
const DefaultMaxStep = 5 * time.Millisecond

// Clock advances simulated time by caller-supplied durations.
// It never reads the wall clock: the same sequence of Advance calls always
// produces the same sequence of integration steps.
type Clock struct {
	maxStep time.Duration
	elapsed time.Duration
	steps   uint64
}

// NewClock creates a clock that prefers steps no longer than maxStep.
func NewClock(maxStep time.Duration) *Clock {
	if maxStep <= 0 {
		maxStep = DefaultMaxStep
	}
	return &Clock{maxStep: maxStep}
}

// Split returns how many equal steps elapsed is divided into and the length
// of each step in seconds. The count is the smallest that keeps steps under
// maxStep, clamped to [1, maxSubsteps]; larger elapsed times therefore
// produce longer steps instead of more of them.
func (c *Clock) Split(elapsed time.Duration, maxSubsteps int) (int, float64) {
	if elapsed <= 0 || maxSubsteps < 1 {
		return 0, 0
	}
	n := int((elapsed + c.maxStep - 1) / c.maxStep)
	if n < 1 {
		n = 1
	}
	if n > maxSubsteps {
		n = maxSubsteps
	}
	return n, elapsed.Seconds() / float64(n)
}

// Advance runs step once per integration step. Stepping stops early when
// step returns false; only the steps actually run count as elapsed time.
// Returns the number of steps run.
func (c *Clock) Advance(elapsed time.Duration, maxSubsteps int, step func(dt float64) bool) int {
	n, dt := c.Split(elapsed, maxSubsteps)
	per := elapsed / time.Duration(max(n, 1))
	ran := 0
	for i := 0; i < n; i++ {
		ran++
		c.steps++
		c.elapsed += per
		if !step(dt) {
			break
		}
	}
	return ran
}

// Elapsed returns the total simulated time advanced so far.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// Steps returns the total number of integration steps run.
func (c *Clock) Steps() uint64 {
	return c.steps
}

// Reset zeroes the clock.
func (c *Clock) Reset() {
	c.elapsed = 0
	c.steps = 0
}
