// Game clock — converts wall-clock time and a speed multiplier into whole
// in-game days, carrying fractional progress across ticks.
package engine

import (
	"log/slog"
	"time"
)

// Clock accumulates fractional day progress between ticks. One real second at
// speed 1 is one in-game day; speed scales linearly. Day advancement is driven
// by the accumulator value, never by elapsed time directly, so chunking the
// same elapsed time across many ticks yields the same result.
type Clock struct {
	accum    float64 // Fractional days carried between ticks
	lastYear int     // Last calendar year already processed

	maxElapsedMS   float64
	maxDaysPerTick int
}

// NewClock creates a clock anchored at the given in-game date.
func NewClock(start time.Time, maxElapsedMS float64, maxDaysPerTick int) *Clock {
	return &Clock{
		lastYear:       start.Year(),
		maxElapsedMS:   maxElapsedMS,
		maxDaysPerTick: maxDaysPerTick,
	}
}

// Advance applies elapsed wall-clock time at the given speed to date.
// It returns the new date, the whole days crossed, and every distinct
// calendar year newly entered (compared against the last seen year, not a
// counter, so irregular loads cannot double-fire a year).
func (c *Clock) Advance(date time.Time, elapsed time.Duration, speed int) (time.Time, int, []int) {
	ms := float64(elapsed.Milliseconds())
	if ms <= 0 {
		return date, 0, nil
	}
	// A backgrounded tab can hand us minutes of elapsed time at once; clamp
	// rather than replay it all.
	if ms > c.maxElapsedMS {
		slog.Warn("clock: clamping oversized elapsed interval", "elapsed_ms", ms, "clamp_ms", c.maxElapsedMS)
		ms = c.maxElapsedMS
	}

	c.accum += ms / 1000.0 * float64(speed)
	days := int(c.accum)
	c.accum -= float64(days)

	if days > c.maxDaysPerTick {
		slog.Warn("clock: runaway day count clamped", "days", days, "clamp", c.maxDaysPerTick)
		days = c.maxDaysPerTick
		c.accum = 0
	}

	var years []int
	for i := 0; i < days; i++ {
		date = date.AddDate(0, 0, 1)
		if y := date.Year(); y != c.lastYear {
			years = append(years, y)
			c.lastYear = y
		}
	}
	return date, days, years
}

// Resync zeroes the fractional accumulator. Called when resuming from pause
// and by the watchdog, so a stalled or suspended clock never releases a
// burst of skipped days.
func (c *Clock) Resync() {
	c.accum = 0
}

// Remainder exposes the carried fractional day for diagnostics.
func (c *Clock) Remainder() float64 {
	return c.accum
}
