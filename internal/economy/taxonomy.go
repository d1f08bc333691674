// Package economy maintains the resource ledger: per-category tonnage stocks
// with capacity limits and the derived percentage view. Every normalized
// category's percents sum to exactly 100 after every mutation.
package economy

// SupplyCategory is the one category whose items drift independently and are
// never normalized against each other.
const SupplyCategory = "Supply"

// ItemSpec declares one tradeable resource and its price per tonne.
type ItemSpec struct {
	Name  string
	Price int64
}

// CategorySpec declares one resource category. Normalized categories carry a
// tonnage capacity; the Supply category has neither capacity nor stocks.
type CategorySpec struct {
	Name     string
	Items    []ItemSpec
	Capacity int64
}

// DefaultTaxonomy returns the static resource taxonomy.
func DefaultTaxonomy() []CategorySpec {
	return []CategorySpec{
		{
			Name:     "Minerals & Ores",
			Capacity: 120_000,
			Items: []ItemSpec{
				{Name: "Lithium", Price: 65},
				{Name: "Cobalt", Price: 34},
				{Name: "Tin", Price: 26},
				{Name: "Copper", Price: 9},
			},
		},
		{
			Name:     "Energy",
			Capacity: 200_000,
			Items: []ItemSpec{
				{Name: "Gas", Price: 12},
				{Name: "Oil", Price: 18},
				{Name: "Coal", Price: 6},
			},
		},
		{
			Name:     "Agriculture & Marine",
			Capacity: 150_000,
			Items: []ItemSpec{
				{Name: "Rice", Price: 4},
				{Name: "Fish", Price: 7},
				{Name: "Livestock", Price: 11},
				{Name: "Timber", Price: 5},
			},
		},
		{
			Name: SupplyCategory,
			Items: []ItemSpec{
				{Name: "Electricity"},
				{Name: "Water"},
				{Name: "Waste"},
			},
		},
	}
}
