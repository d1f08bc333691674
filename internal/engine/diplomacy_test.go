package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStanding_Bands(t *testing.T) {
	cases := map[int]string{
		-100: "WAR",
		-99:  "ENEMY",
		-50:  "ENEMY",
		-49:  "TENSE",
		-26:  "TENSE",
		-25:  "COLD",
		-1:   "COLD",
		0:    "NEUTRAL",
		24:   "NEUTRAL",
		25:   "CORDIAL",
		49:   "CORDIAL",
		50:   "ALLY",
		100:  "ALLY",
	}
	for score, want := range cases {
		assert.Equal(t, want, Standing(score), "score %d", score)
	}
}

func TestWorsenRelations_RequiresConfirmation(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	e.Session().Relations["Germany"] = &Relation{Score: 5}

	err := e.WorsenRelations("Germany", false)
	require.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Equal(t, 5, e.Session().Relations["Germany"].Score)
}

func TestWorsenRelations_DeclaresWarExactlyOnce(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()
	s.Relations["Germany"] = &Relation{Score: 5, TradeEstablished: true, TradeVolume: 9999}

	// 5 → -10 → -25 → -40 → -55 → -70 → -85 → -100
	for i := 0; i < 7; i++ {
		require.NoError(t, e.WorsenRelations("Germany", true))
	}

	r := s.Relations["Germany"]
	assert.Equal(t, WarScore, r.Score)
	assert.True(t, s.WarWith["Germany"])
	assert.False(t, r.TradeEstablished, "war cancels trade")
	assert.Zero(t, r.TradeVolume)
	assert.Equal(t, 100-e.bal.WarDeclaredPenalty, s.Happiness)

	// Already at the floor: a no-op, no second penalty.
	require.NoError(t, e.WorsenRelations("Germany", true))
	assert.Equal(t, WarScore, r.Score)
	assert.Equal(t, 100-e.bal.WarDeclaredPenalty, s.Happiness)
}

func TestWorsenRelations_ClampsAtFloor(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()
	s.Relations["France"] = &Relation{Score: -95}

	require.NoError(t, e.WorsenRelations("France", true))
	assert.Equal(t, WarScore, s.Relations["France"].Score)
	assert.True(t, s.WarWith["France"])
}

func TestImproveRelations_CostsFeeAndCaps(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()
	s.Treasury = e.bal.ImproveFee
	s.Relations["Germany"] = &Relation{Score: 95}

	require.NoError(t, e.ImproveRelations("Germany"))
	assert.Equal(t, 100, s.Relations["Germany"].Score)
	assert.Zero(t, s.Treasury)
}

func TestImproveRelations_InsufficientFundsIsInert(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()
	s.Treasury = e.bal.ImproveFee - 1
	s.Relations["Germany"] = &Relation{Score: 5}

	err := e.ImproveRelations("Germany")
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 5, s.Relations["Germany"].Score)
	assert.Equal(t, e.bal.ImproveFee-1, s.Treasury)
}

func TestImproveRelations_IsTheOnlyExitFromWar(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()
	s.Treasury = e.bal.ImproveFee
	s.Happiness = 50
	s.Relations["Germany"] = &Relation{Score: WarScore}
	s.WarWith["Germany"] = true

	require.NoError(t, e.ImproveRelations("Germany"))

	r := s.Relations["Germany"]
	assert.Equal(t, WarScore+e.bal.ImproveStep, r.Score)
	assert.False(t, s.WarWith["Germany"])
	assert.Equal(t, 50+e.bal.PeaceRestoredBonus, s.Happiness)
}

func TestDiplomacy_TargetValidation(t *testing.T) {
	e := testEngine(t, 1)

	// No state entered yet.
	assert.ErrorIs(t, e.ImproveRelations("Germany"), ErrNotInGame)

	enterAs(t, e, "Japan")
	e.Session().Treasury = 10_000_000

	assert.ErrorIs(t, e.ImproveRelations("Japan"), ErrSelfTarget)
	assert.ErrorIs(t, e.ImproveRelations("Narnia"), ErrUnknownCountry)
	assert.ErrorIs(t, e.WorsenRelations("Narnia", true), ErrUnknownCountry)
	assert.ErrorIs(t, e.EstablishTrade("Japan"), ErrSelfTarget)
}

func TestEstablishTrade_Preconditions(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()
	s.Treasury = 10_000_000

	s.Relations["Germany"] = &Relation{Score: WarScore}
	assert.ErrorIs(t, e.EstablishTrade("Germany"), ErrAtWar)

	s.Relations["France"] = &Relation{Score: e.bal.TradeMinRelation - 1}
	assert.ErrorIs(t, e.EstablishTrade("France"), ErrRelationTooLow)

	s.Relations["Italy"] = &Relation{Score: 50, TradeEstablished: true}
	assert.ErrorIs(t, e.EstablishTrade("Italy"), ErrTradeExists)

	s.Relations["Canada"] = &Relation{Score: 50}
	s.Treasury = e.bal.TradeFee - 1
	assert.ErrorIs(t, e.EstablishTrade("Canada"), ErrInsufficientFunds)
	assert.False(t, s.Relations["Canada"].TradeEstablished)
}

func TestEstablishTrade_SetsVolumeFromCombinedGDP(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()
	s.Treasury = e.bal.TradeFee
	s.Relations["Germany"] = &Relation{Score: 50}

	require.NoError(t, e.EstablishTrade("Germany"))

	other, ok := s.Countries.Find("Germany")
	require.True(t, ok)
	r := s.Relations["Germany"]
	assert.True(t, r.TradeEstablished)
	assert.Equal(t, (s.Selected.GDP+other.GDP)/100, r.TradeVolume)
	assert.Zero(t, s.Treasury)
}

func TestRelationFor_LazyCreationWithinBounds(t *testing.T) {
	e := testEngine(t, 9)
	enterAs(t, e, "Japan")

	for _, name := range []string{"Germany", "France", "Italy", "Canada", "Brazil"} {
		e.mu.Lock()
		r := e.relationFor(name)
		e.mu.Unlock()
		assert.GreaterOrEqual(t, r.Score, e.bal.InitialRelationMin)
		assert.LessOrEqual(t, r.Score, e.bal.InitialRelationMax)
	}
}

func TestDiplomacy_RejectedAfterGameOver(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	e.Session().Treasury = 10_000_000
	e.adjustHappiness(-100)
	require.True(t, e.Session().Ended)

	assert.ErrorIs(t, e.ImproveRelations("Germany"), ErrSessionEnded)
	assert.ErrorIs(t, e.WorsenRelations("Germany", true), ErrSessionEnded)
	assert.ErrorIs(t, e.EstablishTrade("Germany"), ErrSessionEnded)
	assert.ErrorIs(t, e.BuyResource("Energy", "Oil", 1), ErrSessionEnded)
}
