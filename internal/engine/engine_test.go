package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/monetary-state/internal/config"
	"github.com/talgya/monetary-state/internal/country"
	"github.com/talgya/monetary-state/internal/entropy"
)

var testStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// testDataset covers the reference GDP table (the top economies) plus a few
// countries that only have the population fallback.
func testDataset() *country.Set {
	mk := func(name, cca2, region string, pop int64) *country.Country {
		return &country.Country{
			Name:       country.Name{Common: name, Official: name},
			CCA2:       cca2,
			Population: pop,
			Region:     region,
			LatLng:     []float64{10, 20},
		}
	}
	return country.NewSet([]*country.Country{
		mk("United States", "US", "Americas", 334_900_000),
		mk("China", "CN", "Asia", 1_410_000_000),
		mk("Germany", "DE", "Europe", 84_500_000),
		mk("Japan", "JP", "Asia", 123_300_000),
		mk("India", "IN", "Asia", 1_428_000_000),
		mk("United Kingdom", "GB", "Europe", 68_300_000),
		mk("France", "FR", "Europe", 68_200_000),
		mk("Italy", "IT", "Europe", 58_900_000),
		mk("Brazil", "BR", "Americas", 216_400_000),
		mk("Canada", "CA", "Americas", 40_100_000),
		mk("Russia", "RU", "Europe", 143_800_000),
		mk("Bhutan", "BT", "Asia", 777_486),
		mk("Iceland", "IS", "Europe", 393_600),
		mk("Fiji", "FJ", "Oceania", 936_375),
	})
}

func testEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	return New(config.DefaultBalance(), entropy.New(seed), testDataset(), testStart, nil)
}

// enterAs selects a country and starts governing it.
func enterAs(t *testing.T, e *Engine, name string) {
	t.Helper()
	require.NoError(t, e.SelectCountry(name))
	require.NoError(t, e.EnterState(testStart))
}

func TestTick_AdvancesDate(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")

	e.Tick(testStart.Add(2500 * time.Millisecond))

	s := e.Session()
	assert.Equal(t, testStart.AddDate(0, 0, 2), s.Date)
}

func TestTick_InertBeforeEnterAndWhilePaused(t *testing.T) {
	e := testEngine(t, 1)
	require.NoError(t, e.SelectCountry("Japan"))

	// Browsing: no state entered yet.
	e.Tick(testStart.Add(5 * time.Second))
	assert.Equal(t, testStart, e.Session().Date)

	require.NoError(t, e.EnterState(testStart))
	e.Pause()
	e.Tick(testStart.Add(10 * time.Second))
	assert.Equal(t, testStart, e.Session().Date)
}

func TestResume_DoesNotReplayPausedTime(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")

	e.Pause()
	resumeAt := testStart.Add(time.Hour)
	e.Resume(resumeAt)

	// First tick after resume only covers time since the resume.
	e.Tick(resumeAt.Add(time.Second))
	assert.Equal(t, testStart.AddDate(0, 0, 1), e.Session().Date)
}

func TestTick_YearBoundaryRunsEconomy(t *testing.T) {
	e := New(config.DefaultBalance(), entropy.New(3), testDataset(),
		time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC), nil)
	now := time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, e.SelectCountry("Japan"))
	require.NoError(t, e.EnterState(now))

	s := e.Session()
	gdpBefore := s.Selected.GDP
	treasuryBefore := s.Treasury

	e.Tick(now.Add(5 * time.Second)) // Crosses into 2026

	assert.Greater(t, s.Selected.GDP, gdpBefore)
	assert.Greater(t, s.Treasury, treasuryBefore)
	assert.Equal(t, 1, s.News.Len())
}

func TestAdjustSpeed_ClampsIntoBounds(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")

	speed, err := e.AdjustSpeed(99)
	require.NoError(t, err)
	assert.Equal(t, 5, speed)

	speed, err = e.AdjustSpeed(-99)
	require.NoError(t, err)
	assert.Equal(t, 1, speed)

	speed, err = e.AdjustSpeed(1)
	require.NoError(t, err)
	assert.Equal(t, 2, speed)
}

func TestAdjustSpeed_RequiresActiveGame(t *testing.T) {
	e := testEngine(t, 1)

	_, err := e.AdjustSpeed(1)
	assert.ErrorIs(t, err, ErrNotInGame)

	enterAs(t, e, "Japan")
	e.adjustHappiness(-100)
	require.True(t, e.Session().Ended)

	speed, err := e.AdjustSpeed(1)
	assert.ErrorIs(t, err, ErrSessionEnded)
	assert.Equal(t, 1, speed, "speed untouched after the session ends")
}

func TestSelectCountry_LockedWhileInGame(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")

	err := e.SelectCountry("France")
	require.Error(t, err)
	assert.Equal(t, "Japan", e.Session().Selected.Name.Common)

	_, err = e.SelectRandom()
	assert.Error(t, err)
}

func TestSelectRandom_PicksFromDataset(t *testing.T) {
	e := testEngine(t, 7)
	name, err := e.SelectRandom()
	require.NoError(t, err)

	c, ok := e.Session().Countries.Find(name)
	require.True(t, ok)
	assert.Same(t, c, e.Session().Selected)
}

func TestBuyAndSellResource_MoveTreasury(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()
	s.Treasury = 1_000_000

	require.NoError(t, e.BuyResource("Energy", "Oil", 100))
	assert.Equal(t, int64(1_000_000-100*18), s.Treasury)

	require.NoError(t, e.SellResource("Energy", "Oil", 40))
	assert.Equal(t, int64(1_000_000-100*18+40*18), s.Treasury)
}

func TestBuyResource_RejectsUnaffordable(t *testing.T) {
	e := testEngine(t, 1)
	enterAs(t, e, "Japan")
	s := e.Session()
	s.Treasury = 10

	cat, ok := s.Ledger.Category("Energy")
	require.True(t, ok)
	before := make(map[string]int64)
	for _, it := range cat.Items {
		before[it.Name] = it.Stock
	}

	err := e.BuyResource("Energy", "Oil", 100)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(10), s.Treasury)
	for _, it := range cat.Items {
		assert.Equal(t, before[it.Name], it.Stock)
	}
}

func TestResourceTrades_RequireActiveGame(t *testing.T) {
	e := testEngine(t, 1)
	require.NoError(t, e.SelectCountry("Japan"))

	assert.ErrorIs(t, e.BuyResource("Energy", "Oil", 1), ErrNotInGame)
	assert.ErrorIs(t, e.SellResource("Energy", "Oil", 1), ErrNotInGame)
}
