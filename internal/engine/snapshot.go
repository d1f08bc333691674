// Save snapshot bridging between the live session and the persistence codec.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/monetary-state/internal/persistence"
)

// Snapshot captures the session as a save blob payload. Only a bootstrapped
// session with a selected country can be saved.
func (e *Engine) Snapshot(now time.Time) (*persistence.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Selected == nil || !s.Bootstrapped {
		return nil, fmt.Errorf("engine: nothing to save")
	}

	territories := make([]persistence.TerritoryGDP, 0, s.Countries.Len())
	for _, c := range s.Countries.All() {
		if c.GDP > 0 {
			territories = append(territories, persistence.TerritoryGDP{Name: c.Name.Common, GDP: c.GDP})
		}
	}

	warWith := make([]string, 0, len(s.WarWith))
	for name := range s.WarWith {
		warWith = append(warWith, name)
	}

	relations := make(map[string]persistence.RelationState, len(s.Relations))
	for name, r := range s.Relations {
		relations[name] = persistence.RelationState{
			Score:            r.Score,
			TradeEstablished: r.TradeEstablished,
			TradeVolume:      r.TradeVolume,
		}
	}

	s.LastSaved = now

	return &persistence.Snapshot{
		CountryName:      s.Selected.Name.Common,
		Date:             s.Date.Format(time.RFC3339),
		LastSaved:        now.UTC().Format(time.RFC3339),
		Treasury:         s.Treasury,
		GDP:              s.Selected.GDP,
		TerritoriesGDP:   territories,
		Happiness:        s.Happiness,
		WarWith:          warWith,
		ResourceCapacity: s.Ledger.Capacities(),
		ResourceStock:    s.Ledger.Stocks(),
		Relations:        relations,
	}, nil
}

// Restore applies a decoded save blob onto a fresh session. The restored
// session is selected and bootstrapped but left paused and out of game;
// entering the state resumes play. A saved country missing from the dataset
// is a data-integrity error the caller recovers from (random fallback).
func (e *Engine) Restore(snap *persistence.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	c, ok := s.Countries.Find(snap.CountryName)
	if !ok {
		return fmt.Errorf("restore %q: %w", snap.CountryName, ErrUnknownCountry)
	}

	// Saved GDP figures take precedence over recomputation.
	for _, t := range snap.TerritoriesGDP {
		if other, ok := s.Countries.Find(t.Name); ok && t.GDP > 0 {
			other.GDP = t.GDP
		}
	}
	if snap.GDP > 0 {
		c.GDP = snap.GDP
	}
	e.selectLocked(c)

	s.Treasury = snap.Treasury
	if s.Treasury < 0 {
		s.Treasury = 0
	}
	if s.Treasury > e.bal.MaxTreasury {
		s.Treasury = e.bal.MaxTreasury
	}

	if date, err := parseSaveDate(snap.Date); err == nil {
		s.Date = date
		e.clock = NewClock(date, e.bal.MaxElapsedMS, e.bal.MaxDaysPerTick)
	} else {
		slog.Warn("restore: unparseable date, keeping calendar start", "date", snap.Date)
	}

	s.Happiness = snap.Happiness
	if s.Happiness < 1 {
		s.Happiness = 1 // A save cannot restore into instant game over
	}
	if s.Happiness > 100 {
		s.Happiness = 100
	}

	for name, rs := range snap.Relations {
		s.Relations[name] = &Relation{
			Score:            clampInt(rs.Score, WarScore, 100),
			TradeEstablished: rs.TradeEstablished,
			TradeVolume:      rs.TradeVolume,
		}
	}
	for _, name := range snap.WarWith {
		if fixed, ok := s.Countries.Find(name); ok {
			common := fixed.Name.Common
			s.WarWith[common] = true
			r := e.relationFor(common)
			r.Score = WarScore
			r.TradeEstablished = false
			r.TradeVolume = 0
		}
	}

	s.Ledger.Initialize(e.rand, e.bal.CapacityUtilization)
	s.Ledger.RestoreStocks(snap.ResourceCapacity, snap.ResourceStock)

	if last, err := parseSaveDate(snap.LastSaved); err == nil {
		s.LastSaved = last
	}

	s.Bootstrapped = true
	s.InGame = false
	s.Paused = true

	slog.Info("save restored",
		"country", c.Name.Common,
		"date", s.Date.Format("2006-01-02"),
		"treasury", s.Treasury,
		"happiness", s.Happiness,
		"wars", len(s.WarWith),
	)
	return nil
}

// parseSaveDate accepts RFC 3339 or bare dates, covering older save formats.
func parseSaveDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
