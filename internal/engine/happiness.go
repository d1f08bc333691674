// Happiness gauge and the terminal game-over transition.
package engine

import (
	"log/slog"
)

// Flavor pools for the session-ending message. The war pool is used whenever
// any war is still active.
var warEndings = []string{
	"The capital has fallen. Your government flees into exile.",
	"Years of war have hollowed the nation; the army refuses its orders.",
	"A wartime coup removes you from power overnight.",
}

var peaceEndings = []string{
	"Mass protests sweep the capital. Your government resigns in disgrace.",
	"The general strike never ends. Power passes to a caretaker council.",
	"Your cabinet collapses under a vote of no confidence.",
}

// adjustHappiness applies a signed delta, clamping into [0, 100]. Reaching
// zero is the terminal transition; it fires at most once.
func (e *Engine) adjustHappiness(delta int) {
	s := e.session
	if s.Ended || delta == 0 {
		return
	}
	s.Happiness += delta
	if s.Happiness > 100 {
		s.Happiness = 100
	}
	if s.Happiness <= 0 {
		s.Happiness = 0
		e.gameOver()
	}
}

// updateHappiness is the yearly step: reserve health, active wars, a small
// random perk, and a constant downward drift.
func (e *Engine) updateHappiness() {
	s := e.session
	delta := e.bal.HappinessBaseDrift

	if s.Selected.GDP > 0 {
		ratio := float64(s.Treasury) / float64(s.Selected.GDP)
		switch {
		case ratio < e.bal.LowReserveRatio:
			delta -= e.bal.LowReservePenalty
		case ratio > e.bal.HighReserveRatio:
			delta += e.bal.HighReserveBonus
		}
	}

	delta -= len(s.WarWith) * e.bal.WarPenaltyPerWar

	if perk := e.bal.HappinessPerkRange; perk > 0 {
		delta += e.rand.Range(-perk, perk)
	}

	e.adjustHappiness(delta)
}

// gameOver moves the session to its terminal state. The clock goes inert and
// a flavor message is drawn from the war or peace pool.
func (e *Engine) gameOver() {
	s := e.session
	if s.Ended {
		return
	}
	s.Ended = true
	s.InGame = false
	s.Paused = true

	pool := peaceEndings
	if len(s.WarWith) > 0 {
		pool = warEndings
	}
	s.EndCause = pool[e.rand.IntN(len(pool))]

	s.EmitEvent(Event{
		Date:        s.Date,
		Description: "The nation has collapsed: " + s.EndCause,
		Category:    "session",
	})
	slog.Info("game over", "country", s.Selected.Name.Common, "date", s.Date.Format("2006-01-02"), "wars", len(s.WarWith))
}
