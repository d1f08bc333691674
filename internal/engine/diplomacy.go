// Diplomacy state machine — per-country relation scores, trade agreements,
// and the sticky war state at -100.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Rejected-precondition outcomes. These surface to the player synchronously
// and never mutate state.
var (
	ErrNotInGame            = errors.New("engine: no state entered")
	ErrSessionEnded         = errors.New("engine: session has ended")
	ErrUnknownCountry       = errors.New("engine: country not in dataset")
	ErrSelfTarget           = errors.New("engine: action targets own country")
	ErrInsufficientFunds    = errors.New("engine: insufficient treasury")
	ErrConfirmationRequired = errors.New("engine: destructive action requires confirmation")
	ErrTradeExists          = errors.New("engine: trade already established")
	ErrRelationTooLow       = errors.New("engine: relations too poor for trade")
	ErrAtWar                = errors.New("engine: at war with this country")
)

// WarScore is the sticky bottom of the relation scale. It is only left via
// the paid improve action, never by drift.
const WarScore = -100

// Relation is the bilateral record for one foreign country. Created lazily
// on first interaction, never deleted.
type Relation struct {
	Score            int   `json:"score"` // [-100, 100]
	TradeEstablished bool  `json:"tradeEstablished"`
	TradeVolume      int64 `json:"tradeVolume"`
}

// Standing names the score band a relation falls in.
func Standing(score int) string {
	switch {
	case score <= WarScore:
		return "WAR"
	case score <= -50:
		return "ENEMY"
	case score <= -26:
		return "TENSE"
	case score < 0:
		return "COLD"
	case score < 25:
		return "NEUTRAL"
	case score < 50:
		return "CORDIAL"
	default:
		return "ALLY"
	}
}

// relationFor returns the relation record for a foreign country, creating it
// with a random starting score on first contact.
func (e *Engine) relationFor(name string) *Relation {
	if r, ok := e.session.Relations[name]; ok {
		return r
	}
	r := &Relation{Score: e.rand.Range(e.bal.InitialRelationMin, e.bal.InitialRelationMax)}
	e.session.Relations[name] = r
	return r
}

// targetCountry validates a diplomatic target against the session.
func (e *Engine) targetCountry(name string) (string, error) {
	s := e.session
	if s.Ended {
		return "", ErrSessionEnded
	}
	if !s.InGame || s.Selected == nil {
		return "", ErrNotInGame
	}
	c, ok := s.Countries.Find(name)
	if !ok {
		return "", ErrUnknownCountry
	}
	if c == s.Selected {
		return "", ErrSelfTarget
	}
	return c.Name.Common, nil
}

// ImproveRelations spends treasury to raise a relation score. When the target
// is at the war floor this same paid action is the only legal path out of
// war; leaving war restores some happiness.
func (e *Engine) ImproveRelations(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	target, err := e.targetCountry(name)
	if err != nil {
		return err
	}
	s := e.session
	r := e.relationFor(target)

	if !s.debitTreasury(e.bal.ImproveFee) {
		return ErrInsufficientFunds
	}

	wasWar := r.Score == WarScore
	r.Score += e.bal.ImproveStep
	if r.Score > 100 {
		r.Score = 100
	}
	if wasWar {
		delete(s.WarWith, target)
		e.adjustHappiness(e.bal.PeaceRestoredBonus)
		s.EmitEvent(Event{
			Date:        s.Date,
			Description: fmt.Sprintf("Peace restored with %s", target),
			Category:    "diplomacy",
			Meta:        map[string]any{"country": target, "score": r.Score},
		})
		slog.Info("war ended", "country", target, "score", r.Score)
		return nil
	}

	s.EmitEvent(Event{
		Date:        s.Date,
		Description: fmt.Sprintf("Relations with %s improved to %s", target, Standing(r.Score)),
		Category:    "diplomacy",
		Meta:        map[string]any{"country": target, "score": r.Score},
	})
	return nil
}

// WorsenRelations lowers a relation score. The caller must pass explicit
// confirmation; the action feels irreversible to the player. Hitting exactly
// -100 declares war: a happiness penalty lands, any trade agreement is
// cancelled, and the country joins the war set exactly once.
func (e *Engine) WorsenRelations(name string, confirmed bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !confirmed {
		return ErrConfirmationRequired
	}
	target, err := e.targetCountry(name)
	if err != nil {
		return err
	}
	s := e.session
	r := e.relationFor(target)

	if r.Score == WarScore {
		// Already at the floor; nothing further to worsen.
		return nil
	}

	r.Score -= e.bal.WorsenStep
	if r.Score <= WarScore {
		r.Score = WarScore
		if !s.WarWith[target] {
			s.WarWith[target] = true
			r.TradeEstablished = false
			r.TradeVolume = 0
			s.EmitEvent(Event{
				Date:        s.Date,
				Description: fmt.Sprintf("War declared: %s", target),
				Category:    "diplomacy",
				Meta:        map[string]any{"country": target},
			})
			slog.Warn("war declared", "country", target)
			e.adjustHappiness(-e.bal.WarDeclaredPenalty)
		}
		return nil
	}

	s.EmitEvent(Event{
		Date:        s.Date,
		Description: fmt.Sprintf("Relations with %s worsened to %s", target, Standing(r.Score)),
		Category:    "diplomacy",
		Meta:        map[string]any{"country": target, "score": r.Score},
	})
	return nil
}

// EstablishTrade opens a trade agreement: it costs a fee, requires friendly
// relations, and sets the volume as a fixed fraction of both GDPs combined.
func (e *Engine) EstablishTrade(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	target, err := e.targetCountry(name)
	if err != nil {
		return err
	}
	s := e.session
	r := e.relationFor(target)

	if r.Score == WarScore {
		return ErrAtWar
	}
	if r.TradeEstablished {
		return ErrTradeExists
	}
	if r.Score < e.bal.TradeMinRelation {
		return ErrRelationTooLow
	}
	if !s.debitTreasury(e.bal.TradeFee) {
		return ErrInsufficientFunds
	}

	other, _ := s.Countries.Find(target)
	e.assignGDP(other)
	r.TradeEstablished = true
	r.TradeVolume = int64(math.Floor(float64(s.Selected.GDP+other.GDP) * e.bal.TradeVolumeRate))

	s.EmitEvent(Event{
		Date:        s.Date,
		Description: fmt.Sprintf("Trade agreement signed with %s", target),
		Category:    "diplomacy",
		Meta:        map[string]any{"country": target, "volume": r.TradeVolume},
	})
	return nil
}
