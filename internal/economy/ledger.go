package economy

import (
	"errors"
	"math"

	"github.com/talgya/monetary-state/internal/entropy"
)

var (
	// ErrUnknownCategory is returned for a category name outside the taxonomy.
	ErrUnknownCategory = errors.New("economy: unknown category")
	// ErrUnknownItem is returned for an item name outside its category.
	ErrUnknownItem = errors.New("economy: unknown item")
	// ErrCapacityExceeded rejects a purchase that would overflow category storage.
	ErrCapacityExceeded = errors.New("economy: category capacity exceeded")
	// ErrInsufficientStock rejects a sale of more tonnage than is held.
	ErrInsufficientStock = errors.New("economy: insufficient stock")
	// ErrNotTradeable rejects tonnage trades on the Supply category.
	ErrNotTradeable = errors.New("economy: category is not tradeable")
)

// ItemState is the live state of one resource item.
type ItemState struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
	Change  int    `json:"change"` // Signed delta from the last update
	Stock   int64  `json:"stock"`  // Tonnes held; always 0 for Supply items
	Price   int64  `json:"price"`  // Per tonne; 0 for Supply items
}

// CategoryState is the live state of one resource category.
type CategoryState struct {
	Name       string       `json:"name"`
	Normalized bool         `json:"normalized"`
	Capacity   int64        `json:"capacity"`
	Items      []*ItemState `json:"items"`
}

// Ledger is the resource economy: every category's items in declared order.
type Ledger struct {
	Categories []*CategoryState
	byName     map[string]*CategoryState
}

// NewLedger builds an empty ledger from the taxonomy. Call Initialize (new
// game) or RestoreStocks (loaded game) before using it.
func NewLedger(specs []CategorySpec) *Ledger {
	l := &Ledger{byName: make(map[string]*CategoryState, len(specs))}
	for _, spec := range specs {
		cat := &CategoryState{
			Name:       spec.Name,
			Normalized: spec.Name != SupplyCategory,
			Capacity:   spec.Capacity,
		}
		for _, it := range spec.Items {
			cat.Items = append(cat.Items, &ItemState{Name: it.Name, Price: it.Price})
		}
		l.Categories = append(l.Categories, cat)
		l.byName[cat.Name] = cat
	}
	return l
}

// Category returns a category by name.
func (l *Ledger) Category(name string) (*CategoryState, bool) {
	c, ok := l.byName[name]
	return c, ok
}

func (c *CategoryState) item(name string) (*ItemState, bool) {
	for _, it := range c.Items {
		if it.Name == name {
			return it, true
		}
	}
	return nil, false
}

// totalStock returns the summed tonnage held in the category.
func (c *CategoryState) totalStock() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.Stock
	}
	return total
}

// Initialize assigns starting state: normalized categories get random stocks
// filling a fraction of capacity, Supply starts at full utilities and a
// random waste level.
func (l *Ledger) Initialize(src *entropy.Source, utilization float64) {
	for _, cat := range l.Categories {
		if !cat.Normalized {
			for _, it := range cat.Items {
				switch it.Name {
				case "Waste":
					it.Percent = src.Range(1, 100)
				default:
					it.Percent = 100
				}
				it.Change = 0
			}
			continue
		}

		// Independent positive weights, scaled into the capacity budget.
		weights := make([]float64, len(cat.Items))
		var sum float64
		for i := range cat.Items {
			weights[i] = 0.05 + src.Float()
			sum += weights[i]
		}
		budget := float64(cat.Capacity) * utilization
		for i, it := range cat.Items {
			it.Stock = int64(math.Floor(budget * weights[i] / sum))
		}
		cat.syncFromStock()
		for _, it := range cat.Items {
			it.Change = 0
		}
	}
}

// syncFromStock recomputes the percent view from stocks. Rounding drift is
// always absorbed by the first item so the category sums to exactly 100.
// A zero total sets every percent to zero.
func (c *CategoryState) syncFromStock() {
	total := c.totalStock()
	if total == 0 {
		for _, it := range c.Items {
			it.Change = -it.Percent
			it.Percent = 0
		}
		return
	}

	sum := 0
	for _, it := range c.Items {
		p := int(math.Round(float64(it.Stock) * 100 / float64(total)))
		it.Change = p - it.Percent
		it.Percent = p
		sum += p
	}
	if diff := 100 - sum; diff != 0 {
		c.Items[0].Percent += diff
		c.Items[0].Change += diff
	}
}

// SyncFromStock recomputes the derived percent view for one category.
func (l *Ledger) SyncFromStock(category string) error {
	cat, ok := l.byName[category]
	if !ok {
		return ErrUnknownCategory
	}
	if cat.Normalized {
		cat.syncFromStock()
	}
	return nil
}

// ApplyDelta shifts one item's percent. Supply items move independently
// within [0, 100]. Normalized items are clamped so no sibling is forced
// below 1, the remainder is redistributed proportionally across siblings,
// and stocks are rescaled to keep the tonnage view consistent.
func (l *Ledger) ApplyDelta(category, item string, delta int) error {
	cat, ok := l.byName[category]
	if !ok {
		return ErrUnknownCategory
	}
	it, ok := cat.item(item)
	if !ok {
		return ErrUnknownItem
	}

	if !cat.Normalized {
		old := it.Percent
		it.Percent = clampInt(old+delta, 0, 100)
		it.Change = it.Percent - old
		return nil
	}

	others := len(cat.Items) - 1
	old := it.Percent
	// Leave at least 1% headroom per sibling so redistribution never forces
	// a sibling to zero.
	it.Percent = clampInt(old+delta, 1, 100-others)
	it.Change = it.Percent - old

	remaining := 100 - it.Percent
	var priorSum int
	for _, other := range cat.Items {
		if other != it {
			priorSum += other.Percent
		}
	}

	assigned := 0
	var last *ItemState
	for _, other := range cat.Items {
		if other == it {
			continue
		}
		share := remaining / others
		if priorSum > 0 {
			share = int(math.Round(float64(remaining) * float64(other.Percent) / float64(priorSum)))
		}
		if share < 1 {
			share = 1
		}
		other.Change = share - other.Percent
		other.Percent = share
		assigned += share
		last = other
	}
	// A positive rounding remainder lands on the last sibling. A negative one
	// (the min-1 clamps overshot) is taken back from siblings that still have
	// room above the floor, so no sibling ever drops below 1.
	if diff := remaining - assigned; diff > 0 && last != nil {
		last.Percent += diff
		last.Change += diff
	} else if diff < 0 {
		for _, other := range cat.Items {
			if diff == 0 {
				break
			}
			if other == it {
				continue
			}
			room := other.Percent - 1
			if room <= 0 {
				continue
			}
			take := -diff
			if take > room {
				take = room
			}
			other.Percent -= take
			other.Change -= take
			diff += take
		}
	}

	cat.rescaleStocks()
	return nil
}

// rescaleStocks redistributes the held tonnage to match the percent view,
// preserving the category total. The flooring remainder goes to the first item.
func (c *CategoryState) rescaleStocks() {
	total := c.totalStock()
	if total == 0 {
		return
	}
	var assigned int64
	for _, it := range c.Items {
		it.Stock = total * int64(it.Percent) / 100
		assigned += it.Stock
	}
	c.Items[0].Stock += total - assigned
}

// Price returns the per-tonne price of a tradeable item, so callers can
// check affordability before committing a trade.
func (l *Ledger) Price(category, item string) (int64, error) {
	_, it, err := l.tradeable(category, item, 1)
	if err != nil {
		return 0, err
	}
	return it.Price, nil
}

// Buy purchases tonnage into a category, capacity permitting. Returns the
// cost; the caller debits the treasury before committing.
func (l *Ledger) Buy(category, item string, tonnes int64) (int64, error) {
	cat, it, err := l.tradeable(category, item, tonnes)
	if err != nil {
		return 0, err
	}
	if cat.totalStock()+tonnes > cat.Capacity {
		return 0, ErrCapacityExceeded
	}
	it.Stock += tonnes
	cat.syncFromStock()
	return tonnes * it.Price, nil
}

// Sell disposes of held tonnage. Returns the revenue.
func (l *Ledger) Sell(category, item string, tonnes int64) (int64, error) {
	cat, it, err := l.tradeable(category, item, tonnes)
	if err != nil {
		return 0, err
	}
	if it.Stock < tonnes {
		return 0, ErrInsufficientStock
	}
	it.Stock -= tonnes
	cat.syncFromStock()
	return tonnes * it.Price, nil
}

func (l *Ledger) tradeable(category, item string, tonnes int64) (*CategoryState, *ItemState, error) {
	cat, ok := l.byName[category]
	if !ok {
		return nil, nil, ErrUnknownCategory
	}
	if !cat.Normalized {
		return nil, nil, ErrNotTradeable
	}
	it, ok := cat.item(item)
	if !ok {
		return nil, nil, ErrUnknownItem
	}
	if tonnes <= 0 {
		return nil, nil, ErrInsufficientStock
	}
	return cat, it, nil
}

// Drift applies the yearly market movement: smooth noise perturbs stocks in
// normalized categories (bounded by capacity) and walks Supply percents.
func (l *Ledger) Drift(src *entropy.Source, year int, scale float64) {
	channel := 0
	for _, cat := range l.Categories {
		if !cat.Normalized {
			for _, it := range cat.Items {
				delta := int(math.Round(src.Drift(channel, float64(year)) * 10))
				old := it.Percent
				it.Percent = clampInt(old+delta, 0, 100)
				it.Change = it.Percent - old
				channel++
			}
			continue
		}

		for _, it := range cat.Items {
			d := src.Drift(channel, float64(year))
			it.Stock += int64(float64(it.Stock) * d * scale)
			if it.Stock < 0 {
				it.Stock = 0
			}
			channel++
		}
		// Proportional squeeze if drift pushed past capacity.
		if total := cat.totalStock(); total > cat.Capacity {
			for _, it := range cat.Items {
				it.Stock = it.Stock * cat.Capacity / total
			}
		}
		cat.syncFromStock()
	}
}

// Capacities returns category capacities for the save blob.
func (l *Ledger) Capacities() map[string]int64 {
	out := make(map[string]int64)
	for _, cat := range l.Categories {
		if cat.Normalized {
			out[cat.Name] = cat.Capacity
		}
	}
	return out
}

// Stocks returns held tonnage per category and item for the save blob.
func (l *Ledger) Stocks() map[string]map[string]int64 {
	out := make(map[string]map[string]int64)
	for _, cat := range l.Categories {
		if !cat.Normalized {
			continue
		}
		m := make(map[string]int64, len(cat.Items))
		for _, it := range cat.Items {
			m[it.Name] = it.Stock
		}
		out[cat.Name] = m
	}
	return out
}

// RestoreStocks applies saved capacities and stocks, then resyncs the percent
// view. Categories or items absent from the snapshot keep their current
// state, which covers older partial save formats.
func (l *Ledger) RestoreStocks(capacities map[string]int64, stocks map[string]map[string]int64) {
	for name, capTonnes := range capacities {
		if cat, ok := l.byName[name]; ok && cat.Normalized && capTonnes > 0 {
			cat.Capacity = capTonnes
		}
	}
	for name, items := range stocks {
		cat, ok := l.byName[name]
		if !ok || !cat.Normalized {
			continue
		}
		for itemName, stock := range items {
			if it, ok := cat.item(itemName); ok && stock >= 0 {
				it.Stock = stock
			}
		}
		if total := cat.totalStock(); total > cat.Capacity {
			for _, it := range cat.Items {
				it.Stock = it.Stock * cat.Capacity / total
			}
		}
		cat.syncFromStock()
		for _, it := range cat.Items {
			it.Change = 0
		}
	}
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
