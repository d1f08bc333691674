// Package engine is the tick-based progression core: the game clock, the
// GDP/treasury model, the resource ledger, diplomacy and happiness, and the
// session lifecycle. All mutation goes through the Engine, which serializes
// the tick loop against player actions with a single lock.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/monetary-state/internal/config"
	"github.com/talgya/monetary-state/internal/country"
	"github.com/talgya/monetary-state/internal/economy"
	"github.com/talgya/monetary-state/internal/entropy"
	"github.com/talgya/monetary-state/internal/mapview"
	"github.com/talgya/monetary-state/internal/news"
)

// Engine owns the session and drives it forward.
type Engine struct {
	mu sync.Mutex

	bal     config.Balance
	rand    *entropy.Source
	session *Session
	clock   *Clock
	mapView mapview.View

	lastFrame   time.Time // Baseline for elapsed-time measurement
	lastAdvance time.Time // Last time a day actually advanced (watchdog)
}

// New creates an engine over a loaded dataset with a fresh session.
func New(bal config.Balance, src *entropy.Source, countries *country.Set, start time.Time, view mapview.View) *Engine {
	if view == nil {
		view = mapview.LogView{}
	}
	ledger := economy.NewLedger(economy.DefaultTaxonomy())
	return &Engine{
		bal:     bal,
		rand:    src,
		session: NewSession(countries, start, bal.SpeedMin, bal.StartingHappiness, bal.NewsBufferCap, ledger),
		clock:   NewClock(start, bal.MaxElapsedMS, bal.MaxDaysPerTick),
		mapView: view,
	}
}

// Session exposes the aggregate for read paths. Callers must go through
// View-style methods for anything concurrent with the loop.
func (e *Engine) Session() *Session {
	return e.session
}

// WithSession runs fn under the engine lock. The API layer uses this to
// build response payloads without racing the tick loop.
func (e *Engine) WithSession(fn func(*Session)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

// SelectCountry focuses a country while browsing, before a state is entered.
// The map is asked to re-center on the selection.
func (e *Engine) SelectCountry(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Ended {
		return ErrSessionEnded
	}
	if s.InGame {
		return fmt.Errorf("engine: selection is locked while managing a state")
	}
	c, ok := s.Countries.Find(name)
	if !ok {
		return ErrUnknownCountry
	}
	e.selectLocked(c)
	return nil
}

// SelectRandom jumps to a uniformly random country (the RANDOMIZE action).
func (e *Engine) SelectRandom() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Ended {
		return "", ErrSessionEnded
	}
	if s.InGame {
		return "", fmt.Errorf("engine: selection is locked while managing a state")
	}
	c := s.Countries.Random(e.rand)
	if c == nil {
		return "", ErrUnknownCountry
	}
	e.selectLocked(c)
	return c.Name.Common, nil
}

func (e *Engine) selectLocked(c *country.Country) {
	s := e.session
	s.Selected = c
	e.ensureAllGDP()
	if lat, lng, ok := c.Coordinates(); ok {
		e.mapView.Recenter(lat, lng, mapview.SelectionZoom)
	}
	slog.Info("country selected", "country", c.Name.Common, "population", c.Population, "gdp", c.GDP)
}

// EnterState commits to the selected country and starts the simulation.
// A fresh session is bootstrapped here: GDP ranking, rank-scaled starting
// treasury, and the initial resource economy. A restored session keeps its
// saved figures.
func (e *Engine) EnterState(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Ended {
		return ErrSessionEnded
	}
	if s.Selected == nil {
		return fmt.Errorf("engine: no country selected")
	}
	if s.InGame {
		return nil
	}

	if !s.Bootstrapped {
		e.ensureAllGDP()
		rank, _ := Rank(s.Countries.All(), s.Selected.Name.Common)
		s.Treasury = startingTreasury(e.rand, s.Selected.GDP, rank)
		if s.Treasury > e.bal.MaxTreasury {
			s.Treasury = e.bal.MaxTreasury
		}
		s.Ledger.Initialize(e.rand, e.bal.CapacityUtilization)
		s.Happiness = e.bal.StartingHappiness
		s.Bootstrapped = true
	}

	s.InGame = true
	s.Paused = false
	e.clock.Resync()
	e.lastFrame = now
	e.lastAdvance = now

	s.EmitEvent(Event{
		Date:        s.Date,
		Description: fmt.Sprintf("Now governing %s", s.Selected.Name.Common),
		Category:    "session",
		Meta:        map[string]any{"treasury": s.Treasury, "gdp": s.Selected.GDP},
	})
	slog.Info("state entered", "country", s.Selected.Name.Common, "treasury", s.Treasury)
	return nil
}

// Pause freezes the clock without losing in-game date state.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Paused = true
}

// Resume restarts the clock. The accumulator is reset and the elapsed-time
// baseline resynchronized to now, so no burst of skipped days fires.
func (e *Engine) Resume(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Ended || !s.InGame {
		return
	}
	s.Paused = false
	e.clock.Resync()
	e.lastFrame = now
	e.lastAdvance = now
}

// AdjustSpeed shifts the speed multiplier by delta, clamped into the
// configured bounds. Only meaningful while governing; the same preconditions
// apply as to every other player action. Returns the effective speed.
func (e *Engine) AdjustSpeed(delta int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Ended {
		return s.Speed, ErrSessionEnded
	}
	if !s.InGame {
		return s.Speed, ErrNotInGame
	}
	s.Speed += delta
	if s.Speed < e.bal.SpeedMin {
		s.Speed = e.bal.SpeedMin
	}
	if s.Speed > e.bal.SpeedMax {
		s.Speed = e.bal.SpeedMax
	}
	return s.Speed, nil
}

// Tick advances the simulation from the last frame to now. Inert while
// browsing, paused, or ended. Any fault inside the tick body fail-safes to
// pause instead of corrupting state or crash-looping.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			e.session.Paused = true
			slog.Error("tick fault, pausing session", "panic", r)
		}
	}()

	s := e.session
	if !s.InGame || s.Paused || s.Ended {
		e.lastFrame = now
		return
	}

	elapsed := now.Sub(e.lastFrame)
	e.lastFrame = now

	date, days, years := e.clock.Advance(s.Date, elapsed, s.Speed)
	if days == 0 {
		return
	}
	s.Date = date
	e.lastAdvance = now

	s.EmitEvent(Event{
		Date:        s.Date,
		Description: fmt.Sprintf("Day advanced to %s", s.Date.Format("2006-01-02")),
		Category:    "clock",
		Meta:        map[string]any{"days": days},
	})

	for _, year := range years {
		e.advanceYear(year)
		if s.Ended {
			break
		}
	}
}

// advanceYear runs the year-boundary pipeline: GDP growth and income,
// happiness update, resource drift, and one news headline.
func (e *Engine) advanceYear(year int) {
	s := e.session

	e.advanceEconomy()
	e.updateHappiness()
	if s.Ended {
		return
	}
	s.Ledger.Drift(e.rand, year, e.bal.ResourceDriftScale)

	s.News.Push(news.Headline{Date: s.Date, Text: news.Generate(e.rand, e.newsSnapshot(year))})

	s.EmitEvent(Event{
		Date:        s.Date,
		Description: fmt.Sprintf("Entered %d", year),
		Category:    "clock",
		Meta:        map[string]any{"year": year, "gdp": s.Selected.GDP, "treasury": s.Treasury, "happiness": s.Happiness},
	})
	slog.Info("year advanced",
		"year", year,
		"gdp", s.Selected.GDP,
		"treasury", s.Treasury,
		"happiness", s.Happiness,
		"wars", len(s.WarWith),
	)
}

// newsSnapshot flattens session state for the headline generator.
func (e *Engine) newsSnapshot(year int) news.Snapshot {
	s := e.session

	var top []string
	for _, c := range s.Countries.All() {
		if c == s.Selected {
			continue
		}
		if _, ok := country.RealGDP[c.Name.Common]; ok {
			top = append(top, c.Name.Common)
		}
	}

	partners := make([]string, 0, len(s.Relations))
	for name := range s.Relations {
		partners = append(partners, name)
	}

	var resources []string
	for _, cat := range s.Ledger.Categories {
		for _, it := range cat.Items {
			resources = append(resources, it.Name)
		}
	}

	return news.Snapshot{
		Player:       s.Selected.Name.Common,
		PlayerGDP:    s.Selected.GDP,
		Year:         year,
		TopCountries: top,
		Partners:     partners,
		Resources:    resources,
		AtWar:        len(s.WarWith) > 0,
	}
}

// BuyResource purchases tonnage for the treasury, capacity and funds
// permitting.
func (e *Engine) BuyResource(category, item string, tonnes int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Ended {
		return ErrSessionEnded
	}
	if !s.InGame {
		return ErrNotInGame
	}

	price, err := s.Ledger.Price(category, item)
	if err != nil {
		return err
	}
	cost := price * tonnes
	if tonnes <= 0 || s.Treasury < cost {
		return ErrInsufficientFunds
	}
	if _, err := s.Ledger.Buy(category, item, tonnes); err != nil {
		return err
	}
	s.debitTreasury(cost)

	s.EmitEvent(Event{
		Date:        s.Date,
		Description: fmt.Sprintf("Bought %d t of %s", tonnes, item),
		Category:    "economy",
		Meta:        map[string]any{"category": category, "item": item, "tonnes": tonnes, "cost": cost},
	})
	return nil
}

// SellResource disposes of held tonnage and credits the treasury, saturating
// at the cap.
func (e *Engine) SellResource(category, item string, tonnes int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Ended {
		return ErrSessionEnded
	}
	if !s.InGame {
		return ErrNotInGame
	}

	revenue, err := s.Ledger.Sell(category, item, tonnes)
	if err != nil {
		return err
	}
	s.creditTreasury(revenue, e.bal.MaxTreasury)

	s.EmitEvent(Event{
		Date:        s.Date,
		Description: fmt.Sprintf("Sold %d t of %s", tonnes, item),
		Category:    "economy",
		Meta:        map[string]any{"category": category, "item": item, "tonnes": tonnes, "revenue": revenue},
	})
	return nil
}
