package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/monetary-state/internal/entropy"
)

func TestAssignGDP_ReferenceTableScenario(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")

	s := e.Session()
	// 4204 reference billions scaled into in-game units.
	assert.Equal(t, int64(4_204_000), s.Selected.GDP)

	rank, ok := Rank(s.Countries.All(), "Japan")
	require.True(t, ok)
	assert.LessOrEqual(t, rank, 10)
}

func TestAssignGDP_PopulationFallback(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Bhutan")

	// 777,486 people at $5000/head, Asia multiplier 0.8, in millions.
	want := int64(math.Floor(777_486 * 5000 * 0.8 / 1_000_000))
	assert.Equal(t, want, e.Session().Selected.GDP)
}

func TestAssignGDP_IsIdempotent(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")

	c := e.Session().Selected
	c.GDP = 123 // As if restored from a save
	e.assignGDP(c)
	assert.Equal(t, int64(123), c.GDP)
}

func TestRank_OrderMatchesGDP(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")

	all := e.Session().Countries.All()
	for _, a := range all {
		for _, b := range all {
			if a.GDP <= b.GDP {
				continue
			}
			rankA, _ := Rank(all, a.Name.Common)
			rankB, _ := Rank(all, b.Name.Common)
			assert.Less(t, rankA, rankB,
				"%s (GDP %d) must outrank %s (GDP %d)", a.Name.Common, a.GDP, b.Name.Common, b.GDP)
		}
	}
}

func TestRank_UnknownCountry(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")

	rank, ok := Rank(e.Session().Countries.All(), "Narnia")
	assert.False(t, ok)
	assert.Zero(t, rank)
}

func TestStartingTreasury_RankBands(t *testing.T) {
	src := entropy.New(1)
	gdp := int64(1_000_000)

	cases := []struct {
		rank int
		mult float64
	}{
		{1, 0.45},
		{5, 0.45},
		{6, 0.35},
		{10, 0.35},
		{11, 0.275},
		{20, 0.275},
		{21, 0.20},
		{50, 0.20},
		{51, 0.115},
		{100, 0.115},
	}
	for _, tc := range cases {
		want := int64(math.Floor(float64(gdp) * tc.mult))
		assert.Equal(t, want, startingTreasury(src, gdp, tc.rank), "rank %d", tc.rank)
	}

	// Only the unranked tail is randomized, inside [5%, 8%).
	for i := 0; i < 50; i++ {
		got := startingTreasury(src, gdp, 101)
		assert.GreaterOrEqual(t, got, int64(50_000))
		assert.Less(t, got, int64(80_000))
	}
}

func TestAdvanceEconomy_FlooredCompoundGrowth(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()
	s.Treasury = 0

	player := s.Selected.GDP
	world, ok := s.Countries.Find("France")
	require.True(t, ok)
	worldGDP := world.GDP

	var income int64
	for i := 0; i < 5; i++ {
		player = int64(math.Floor(float64(player) * 1.03))
		worldGDP = int64(math.Floor(float64(worldGDP) * 1.015))
		income += int64(math.Floor(float64(player) * 0.02))
		e.advanceEconomy()
	}

	assert.Equal(t, player, s.Selected.GDP)
	assert.Equal(t, worldGDP, world.GDP)
	assert.Equal(t, income, s.Treasury)
}

func TestTreasury_SaturatesAtCap(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()

	s.Treasury = e.bal.MaxTreasury - 10
	s.creditTreasury(100, e.bal.MaxTreasury)
	assert.Equal(t, e.bal.MaxTreasury, s.Treasury)
}

func TestTreasury_DebitNeverOverdraws(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()

	s.Treasury = 50
	assert.False(t, s.debitTreasury(51))
	assert.Equal(t, int64(50), s.Treasury)

	assert.True(t, s.debitTreasury(50))
	assert.Zero(t, s.Treasury)
}
