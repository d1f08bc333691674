package news

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/monetary-state/internal/entropy"
)

func TestBuffer_EvictsOldestPastCapacity(t *testing.T) {
	b := NewBuffer(20)
	for i := 1; i <= 25; i++ {
		b.Push(Headline{Text: fmt.Sprintf("headline %d", i)})
	}

	items := b.Items()
	require.Len(t, items, 20)
	assert.Equal(t, "headline 6", items[0].Text)
	assert.Equal(t, "headline 25", items[19].Text)
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	b := NewBuffer(0)
	for i := 0; i < 30; i++ {
		b.Push(Headline{Text: "x"})
	}
	assert.Equal(t, 20, b.Len())
}

func TestBuffer_ItemsReturnsACopy(t *testing.T) {
	b := NewBuffer(5)
	b.Push(Headline{Text: "original"})

	items := b.Items()
	items[0].Text = "mutated"
	assert.Equal(t, "original", b.Items()[0].Text)
}

func fullSnapshot() Snapshot {
	return Snapshot{
		Player:       "Japan",
		PlayerGDP:    4_204_000,
		Year:         2030,
		TopCountries: []string{"United States", "China", "Germany"},
		Partners:     []string{"France", "Canada"},
		Resources:    []string{"Oil", "Lithium", "Rice"},
	}
}

func TestGenerate_ProducesCleanHeadlines(t *testing.T) {
	src := entropy.New(5)
	for i := 0; i < 200; i++ {
		text := Generate(src, fullSnapshot())
		require.NotEmpty(t, text)
		assert.NotContains(t, text, "%!", "formatting verb mismatch")
	}
}

func TestGenerate_FormatsGDPWithSeparators(t *testing.T) {
	src := entropy.New(1)
	found := false
	for i := 0; i < 300 && !found; i++ {
		found = strings.Contains(Generate(src, fullSnapshot()), "4,204,000")
	}
	assert.True(t, found, "the treasury bulletin template formats GDP with thousands separators")
}

func TestGenerate_SurvivesSparseWorld(t *testing.T) {
	// Right after a game starts there may be no partners, no top list and no
	// resource names yet.
	src := entropy.New(2)
	for i := 0; i < 100; i++ {
		text := Generate(src, Snapshot{Player: "Fiji", PlayerGDP: 1, Year: 2025})
		require.NotEmpty(t, text)
	}
}

func TestGenerate_WarChangesDiplomacyTone(t *testing.T) {
	src := entropy.New(3)
	st := fullSnapshot()
	st.AtWar = true

	peaceOnly := []string{"closer economic ties", "trade corridors", "Diplomatic delegation"}
	for i := 0; i < 300; i++ {
		text := Generate(src, st)
		for _, frag := range peaceOnly {
			assert.NotContains(t, text, frag)
		}
	}
}

func TestHeadline_CarriesDate(t *testing.T) {
	when := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBuffer(5)
	b.Push(Headline{Date: when, Text: "x"})
	assert.Equal(t, when, b.Items()[0].Date)
}
