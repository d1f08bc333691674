// Package country holds the externally supplied country dataset. The core
// treats records as immutable except for the GDP field it attaches.
package country

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/talgya/monetary-state/internal/entropy"
)

// Name carries the common and official names of a country.
type Name struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Country is one record from the dataset. GDP is the derived field the
// simulation owns; everything else comes from the source and never changes.
type Country struct {
	Name       Name      `json:"name"`
	CCA2       string    `json:"cca2"`
	Population int64     `json:"population"`
	LatLng     []float64 `json:"latlng"`
	Region     string    `json:"region"`

	GDP int64 `json:"-"`
}

// Coordinates returns the country's lat/lng, or ok=false when the dataset
// omits them.
func (c *Country) Coordinates() (lat, lng float64, ok bool) {
	if len(c.LatLng) != 2 {
		return 0, 0, false
	}
	return c.LatLng[0], c.LatLng[1], true
}

// nameFix maps map-layer names that diverge from the dataset's common names.
var nameFix = map[string]string{
	"USA":        "United States",
	"England":    "United Kingdom",
	"Somaliland": "Somalia",
	"East Timor": "Timor-Leste",
}

// Set is the loaded dataset with name lookup. Read-once at session start.
type Set struct {
	list   []*Country
	byName map[string]*Country
}

// NewSet indexes a list of countries by common name. Records without a name
// or population are dropped.
func NewSet(list []*Country) *Set {
	s := &Set{byName: make(map[string]*Country, len(list))}
	for _, c := range list {
		if c.Name.Common == "" || c.Population <= 0 {
			continue
		}
		s.list = append(s.list, c)
		s.byName[c.Name.Common] = c
	}
	return s
}

// Find looks a country up by common name, applying the alias table.
func (s *Set) Find(name string) (*Country, bool) {
	if fixed, ok := nameFix[name]; ok {
		name = fixed
	}
	c, ok := s.byName[name]
	return c, ok
}

// Random returns a uniformly random country from the set.
func (s *Set) Random(src *entropy.Source) *Country {
	if len(s.list) == 0 {
		return nil
	}
	return s.list[src.IntN(len(s.list))]
}

// All returns the countries in stable input order.
func (s *Set) All() []*Country {
	return s.list
}

// Len returns the number of countries.
func (s *Set) Len() int {
	return len(s.list)
}

// LoadFile reads a dataset from a local JSON file.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return decode(f)
}

// Fetch downloads the dataset from a restcountries-shaped endpoint.
func Fetch(url string) (*Set, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset: unexpected status %s", resp.Status)
	}
	return decode(resp.Body)
}

func decode(r io.Reader) (*Set, error) {
	var list []*Country
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	set := NewSet(list)
	if set.Len() == 0 {
		return nil, fmt.Errorf("decode dataset: no usable country records")
	}
	return set, nil
}
