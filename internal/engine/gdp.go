// GDP and treasury model — assignment, global ranking, starting reserves,
// and the yearly growth step.
package engine

import (
	"math"
	"sort"

	"github.com/talgya/monetary-state/internal/country"
	"github.com/talgya/monetary-state/internal/entropy"
)

// RankUnlisted is the display rank for countries outside the top 100.
const RankUnlisted = "100+"

// assignGDP derives a country's in-game GDP once. Reference-table entries use
// the real-world figure scaled into in-game units; everything else falls back
// to a population estimate weighted by region. Idempotent: a positive GDP is
// never recomputed, so restored saves take precedence.
func (e *Engine) assignGDP(c *country.Country) {
	if c.GDP > 0 {
		return
	}
	if billions, ok := country.RealGDP[c.Name.Common]; ok {
		c.GDP = int64(math.Floor(billions * float64(e.bal.GDPTableScale)))
		return
	}
	mult, ok := country.RegionMultiplier[c.Region]
	if !ok {
		mult = 0.5
	}
	c.GDP = int64(math.Floor(float64(c.Population) * e.bal.FallbackPerCapita * mult / 1_000_000))
	if c.GDP < 1 {
		c.GDP = 1
	}
}

// ensureAllGDP assigns GDP to the full dataset so ranking is meaningful.
func (e *Engine) ensureAllGDP() {
	for _, c := range e.session.Countries.All() {
		e.assignGDP(c)
	}
}

// Rank returns the 1-indexed global GDP rank of a country, with ties broken
// by stable input order. ok is false when the country is outside the top 100;
// display code shows RankUnlisted for those.
func Rank(countries []*country.Country, name string) (int, bool) {
	ranked := make([]*country.Country, 0, len(countries))
	for _, c := range countries {
		if c.GDP > 0 {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].GDP > ranked[j].GDP
	})
	for i, c := range ranked {
		if c.Name.Common == name {
			if i < 100 {
				return i + 1, true
			}
			return i + 1, false
		}
	}
	return 0, false
}

// startingTreasury derives initial reserves from GDP and rank: richer-ranked
// nations start with deeper reserves. All bands are deterministic except the
// unranked tail, which carries explicit randomness.
func startingTreasury(src *entropy.Source, gdp int64, rank int) int64 {
	var mult float64
	switch {
	case rank <= 5:
		mult = 0.45
	case rank <= 10:
		mult = 0.35
	case rank <= 20:
		mult = 0.275
	case rank <= 50:
		mult = 0.20
	case rank <= 100:
		mult = 0.115
	default:
		mult = 0.05 + src.Float()*0.03
	}
	return int64(math.Floor(float64(gdp) * mult))
}

// advanceEconomy runs the yearly growth step: the player's economy grows
// faster than the world's, and the treasury receives an income credit from
// the new GDP. Every figure is floored after each arithmetic step.
func (e *Engine) advanceEconomy() {
	s := e.session
	for _, c := range s.Countries.All() {
		rate := e.bal.WorldGrowthRate
		if c == s.Selected {
			rate = e.bal.PlayerGrowthRate
		}
		c.GDP = int64(math.Floor(float64(c.GDP) * (1 + rate)))
	}
	income := int64(math.Floor(float64(s.Selected.GDP) * e.bal.IncomeRate))
	s.creditTreasury(income, e.bal.MaxTreasury)
}
