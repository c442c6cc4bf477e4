package core

import "time"

// maxCatchUp bounds how many ticks StepsDue reports after a stall. Older
// debt is dropped so a slow frame never triggers a burst of ticks.
const maxCatchUp = 4

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	tps         int
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.tps = tps
	f.step = time.Second / time.Duration(tps)
}

// TPS returns the configured tick rate.
func (f *FixedStep) TPS() int { return f.tps }

// Interval returns the duration of one tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// StepsDue accumulates the time elapsed since the previous call and returns
// how many ticks are owed at now, never more than maxCatchUp.
func (f *FixedStep) StepsDue(now time.Time) int {
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	if delta < 0 {
		delta = 0
	}
	f.last = now
	f.accumulator += delta
	n := int(f.accumulator / f.step)
	if n == 0 {
		return 0
	}
	if n > maxCatchUp {
		f.accumulator = 0
		return maxCatchUp
	}
	f.accumulator -= time.Duration(n) * f.step
	return n
}
