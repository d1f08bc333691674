// Package news composes procedural headlines from the current simulation
// state and keeps them in a bounded rotating buffer.
package news

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/monetary-state/internal/entropy"
)

// Headline is one generated news item.
type Headline struct {
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// Buffer is a bounded FIFO of headlines; the oldest is evicted on overflow.
type Buffer struct {
	max   int
	items []Headline
}

// NewBuffer creates a buffer holding at most max headlines.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = 20
	}
	return &Buffer{max: max}
}

// Push appends a headline, evicting the oldest past capacity.
func (b *Buffer) Push(h Headline) {
	b.items = append(b.items, h)
	if len(b.items) > b.max {
		b.items = b.items[len(b.items)-b.max:]
	}
}

// Items returns the buffered headlines, oldest first.
func (b *Buffer) Items() []Headline {
	out := make([]Headline, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of buffered headlines.
func (b *Buffer) Len() int {
	return len(b.items)
}

// Snapshot is the slice of world state the generator draws from. It is
// assembled by the engine; the generator itself never touches the session.
type Snapshot struct {
	Player       string
	PlayerGDP    int64
	Year         int
	TopCountries []string // Highest-GDP foreign countries
	Partners     []string // Countries with any diplomatic record
	Resources    []string // Flat list of resource item names
	AtWar        bool
}

// Generate composes one headline. The subject is the player's country 60% of
// the time and a random top-GDP country otherwise; template choice is uniform
// within a uniformly chosen category.
func Generate(src *entropy.Source, st Snapshot) string {
	subject := st.Player
	if len(st.TopCountries) > 0 && src.Float() >= 0.60 {
		subject = st.TopCountries[src.IntN(len(st.TopCountries))]
	}

	partner := subject
	if len(st.Partners) > 0 {
		partner = st.Partners[src.IntN(len(st.Partners))]
	} else if len(st.TopCountries) > 0 {
		partner = st.TopCountries[src.IntN(len(st.TopCountries))]
	}

	resource := "Electricity"
	if len(st.Resources) > 0 {
		resource = st.Resources[src.IntN(len(st.Resources))]
	}

	gdp := humanize.Comma(st.PlayerGDP)
	pct := src.Range(1, 12)

	var pool []string
	switch src.IntN(4) {
	case 0: // Economy
		pool = []string{
			fmt.Sprintf("%s treasury bulletin: national output reported at $%sM", subject, gdp),
			fmt.Sprintf("Analysts expect %s growth to continue into %d", subject, st.Year+1),
			fmt.Sprintf("%s central bank holds course despite %d%% market jitters", subject, pct),
			fmt.Sprintf("Investor confidence in %s climbs %d%% this quarter", subject, pct),
		}
	case 1: // Diplomacy
		if st.AtWar {
			pool = []string{
				fmt.Sprintf("Wartime footing strains %s supply lines", subject),
				fmt.Sprintf("%s officials meet %s envoys amid rising tensions", subject, partner),
				fmt.Sprintf("Ceasefire rumors circulate in %s capital", subject),
			}
		} else {
			pool = []string{
				fmt.Sprintf("%s and %s discuss closer economic ties", subject, partner),
				fmt.Sprintf("Diplomatic delegation from %s arrives in %s", partner, subject),
				fmt.Sprintf("%s signals openness to new trade corridors", subject),
			}
		}
	case 2: // Resources
		pool = []string{
			fmt.Sprintf("%s shipments of %s up %d%% year on year", subject, resource, pct),
			fmt.Sprintf("%s stockpiles %s ahead of winter demand", subject, resource),
			fmt.Sprintf("Commodity desks watch %s prices after %s announcement", resource, subject),
			fmt.Sprintf("%s ministry reviews %s extraction quotas", subject, resource),
		}
	default: // Outlook
		pool = []string{
			fmt.Sprintf("%d outlook: steady hands expected in %s", st.Year, subject),
			fmt.Sprintf("Census bureau of %s publishes year-end figures", subject),
			fmt.Sprintf("Opinion: what %d taught us about the %s economy", st.Year, subject),
		}
	}

	return pool[src.IntN(len(pool))]
}
