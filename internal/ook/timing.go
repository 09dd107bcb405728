package ook

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTiming is returned by Timing.Validate.
var ErrInvalidTiming = errors.New("invalid timing")

// Timing holds pulse classification thresholds, all in ticks.
type Timing struct {
	// Tick is the sampling period. Only used to convert durations to ticks.
	Tick time.Duration

	HighPulseMin int // logic 1, inclusive
	HighPulseMax int
	LowPulseMin  int // logic 0, inclusive
	LowPulseMax  int

	IdleMin int // next HIGH edge accepted at/after this many LOW samples
	IdleMax int // desynchronized at/after this many LOW samples

	// PacketTimeout is the watchdog length. It expires on the tick after
	// PacketTimeout ticks have elapsed since arming.
	PacketTimeout int
}

// DefaultTiming returns thresholds for a 200µs tick: ~500µs HIGH for a 1,
// ~1500µs HIGH for a 0, ~1ms LOW between pulses.
func DefaultTiming() Timing {
	return Timing{
		Tick:          200 * time.Microsecond,
		HighPulseMin:  2,
		HighPulseMax:  3,
		LowPulseMin:   7,
		LowPulseMax:   8,
		IdleMin:       4,
		IdleMax:       7,
		PacketTimeout: 600,
	}
}

// Validate checks that the thresholds describe a decodable signal.
func (t Timing) Validate() error {
	if t.Tick <= 0 {
		return fmt.Errorf("%w: tick must be positive", ErrInvalidTiming)
	}
	if t.HighPulseMin < 2 {
		return fmt.Errorf("%w: high pulse must span at least 2 ticks, got %d", ErrInvalidTiming, t.HighPulseMin)
	}
	if t.HighPulseMin > t.HighPulseMax {
		return fmt.Errorf("%w: high pulse range %d..%d", ErrInvalidTiming, t.HighPulseMin, t.HighPulseMax)
	}
	if t.LowPulseMin > t.LowPulseMax {
		return fmt.Errorf("%w: low pulse range %d..%d", ErrInvalidTiming, t.LowPulseMin, t.LowPulseMax)
	}
	if t.LowPulseMin <= t.HighPulseMax {
		return fmt.Errorf("%w: pulse ranges overlap (%d..%d, %d..%d)", ErrInvalidTiming,
			t.HighPulseMin, t.HighPulseMax, t.LowPulseMin, t.LowPulseMax)
	}
	if t.IdleMin < 1 || t.IdleMin >= t.IdleMax {
		return fmt.Errorf("%w: idle range %d..%d", ErrInvalidTiming, t.IdleMin, t.IdleMax)
	}
	// Worst case: every bit a long pulse followed by the longest accepted gap.
	worst := 8 * PacketLen * (t.LowPulseMax + t.IdleMax - 1)
	if t.PacketTimeout < worst {
		return fmt.Errorf("%w: packet timeout %d ticks shorter than worst-case packet (%d ticks)",
			ErrInvalidTiming, t.PacketTimeout, worst)
	}
	return nil
}

// Ticks converts a duration to whole ticks, rounding down.
func (t Timing) Ticks(d time.Duration) int {
	if d <= 0 || t.Tick <= 0 {
		return 0
	}
	return int(d / t.Tick)
}

// saturation is the run length after which further identical samples
// cannot change sampler or watchdog state.
func (t Timing) saturation() int {
	return t.PacketTimeout + t.IdleMax + 2
}
