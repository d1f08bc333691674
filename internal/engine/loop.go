// Frame loop driver and the stalled-clock watchdog.
package engine

import (
	"context"
	"log/slog"
	"time"
)

// FrameInterval approximates the browser's animation-frame cadence. The clock
// is accumulator-driven, so the exact cadence does not affect day counting.
const FrameInterval = 100 * time.Millisecond

// Run drives the tick loop until ctx is cancelled. A low-frequency watchdog
// independently checks for a stalled clock and resynchronizes it; this is a
// self-healing guard, not a correctness mechanism.
func (e *Engine) Run(ctx context.Context) {
	frames := time.NewTicker(FrameInterval)
	defer frames.Stop()

	watchdogWindow := time.Duration(e.bal.WatchdogWindowMS) * time.Millisecond
	watchdog := time.NewTicker(watchdogWindow / 2)
	defer watchdog.Stop()

	slog.Info("simulation loop started", "frame_interval", FrameInterval, "watchdog_window", watchdogWindow)

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation loop stopped")
			return
		case now := <-frames.C:
			e.Tick(now)
		case now := <-watchdog.C:
			e.checkStall(now, watchdogWindow)
		}
	}
}

// checkStall resyncs the clock if the date has failed to advance for an
// unexpectedly long real-time window while the session should be running.
// Idempotent: a healthy loop makes this a no-op.
func (e *Engine) checkStall(now time.Time, window time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if !s.InGame || s.Paused || s.Ended {
		return
	}
	if now.Sub(e.lastAdvance) < window {
		return
	}

	slog.Warn("watchdog: clock stalled, resyncing accumulator",
		"stalled_for", now.Sub(e.lastAdvance),
		"remainder", e.clock.Remainder(),
	)
	e.clock.Resync()
	e.lastFrame = now
	e.lastAdvance = now
}
