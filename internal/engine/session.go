package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/talgya/monetary-state/internal/country"
	"github.com/talgya/monetary-state/internal/economy"
	"github.com/talgya/monetary-state/internal/news"
)

// Session is the complete player state. It is an explicit aggregate owned by
// the engine and passed into every operation; nothing in this package reads
// ambient globals.
type Session struct {
	ID        uuid.UUID
	Countries *country.Set

	Selected *country.Country // Exactly one once the player enters a state
	InGame   bool             // false = pre-selection browsing
	Paused   bool
	Ended    bool
	EndCause string // Flavor message once Ended

	Treasury  int64
	Date      time.Time
	Speed     int // Days per real second, [SpeedMin, SpeedMax]
	Happiness int // [0, 100]; zero ends the session

	WarWith   map[string]bool
	Relations map[string]*Relation

	Ledger *economy.Ledger
	News   *news.Buffer
	Events []Event

	// Bootstrapped is set once GDP, treasury and resources have been
	// assigned, either by entering a fresh state or by a restored save.
	Bootstrapped bool

	LastSaved time.Time // Zero when the slot has never been written
}

// NewSession creates a fresh pre-game session over the loaded dataset.
func NewSession(countries *country.Set, start time.Time, speed, happiness, newsCap int, ledger *economy.Ledger) *Session {
	return &Session{
		ID:        uuid.New(),
		Countries: countries,
		Date:      start,
		Speed:     speed,
		Happiness: happiness,
		WarWith:   make(map[string]bool),
		Relations: make(map[string]*Relation),
		Ledger:    ledger,
		News:      news.NewBuffer(newsCap),
	}
}

// creditTreasury adds to the treasury with saturation at the cap. Raw
// assignment is never used, so the cap invariant cannot be broken.
func (s *Session) creditTreasury(amount, maxTreasury int64) {
	if amount <= 0 {
		return
	}
	s.Treasury += amount
	if s.Treasury > maxTreasury {
		s.Treasury = maxTreasury
	}
}

// debitTreasury removes funds, reporting whether the balance sufficed.
// On false, nothing is mutated.
func (s *Session) debitTreasury(amount int64) bool {
	if amount < 0 || s.Treasury < amount {
		return false
	}
	s.Treasury -= amount
	return true
}
