package country

// RealGDP is the static reference table of real-world GDP figures in
// billions of US dollars, keyed by the dataset's common name. Countries
// missing from the table fall back to a population-derived estimate.
var RealGDP = map[string]float64{
	"United States":        27720,
	"China":                17790,
	"Germany":              4456,
	"Japan":                4204,
	"India":                3550,
	"United Kingdom":       3340,
	"France":               3030,
	"Italy":                2255,
	"Brazil":               2174,
	"Canada":               2140,
	"Russia":               2021,
	"Mexico":               1789,
	"Australia":            1724,
	"South Korea":          1713,
	"Spain":                1580,
	"Indonesia":            1371,
	"Netherlands":          1154,
	"Turkey":               1108,
	"Saudi Arabia":         1068,
	"Switzerland":          885,
	"Poland":               811,
	"Argentina":            641,
	"Belgium":              632,
	"Sweden":               593,
	"Ireland":              551,
	"Thailand":             515,
	"Austria":              516,
	"Israel":               510,
	"United Arab Emirates": 504,
	"Singapore":            501,
	"Norway":               485,
	"Philippines":          437,
	"Bangladesh":           437,
	"Vietnam":              430,
	"Denmark":              404,
	"Malaysia":             400,
	"Egypt":                396,
	"South Africa":         378,
	"Nigeria":              363,
	"Colombia":             364,
	"Pakistan":             338,
	"Chile":                336,
	"Finland":              300,
	"Portugal":             288,
	"New Zealand":          253,
	"Greece":               243,
	"Ukraine":              179,
}

// RegionMultiplier scales the population fallback by geographic region,
// defaulting to 0.5 for regions outside the table.
var RegionMultiplier = map[string]float64{
	"Europe":   1.5,
	"Americas": 1.2,
	"Asia":     0.8,
	"Africa":   0.4,
	"Oceania":  1.1,
}
