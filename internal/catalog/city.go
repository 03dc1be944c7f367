package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nurpe/liftquote/internal/model"
)

// CityRate is what one city's provider charges and which classes its fleet
// can send out locally.
type CityRate struct {
	City         string
	Provider     string
	Availability []model.CraneClass
	Scheme       RateScheme

	// Prefixes and Keywords are lower-case fragments used to recognise the
	// city in free text.
	Prefixes []string
	Keywords []string
}

func (r CityRate) Supplies(class model.CraneClass) bool {
	for _, c := range r.Availability {
		if c == class {
			return true
		}
	}
	return false
}

// Catalog is immutable after NewCatalog and safe for concurrent reads.
type Catalog struct {
	cities    map[string]CityRate
	order     []string
	distances *DistanceMatrix
	fallback  string
}

func NewCatalog(rates []CityRate, distances *DistanceMatrix, fallbackCity string) (*Catalog, error) {
	if distances == nil {
		distances = &DistanceMatrix{km: map[string]map[string]float64{}}
	}
	c := &Catalog{
		cities:    make(map[string]CityRate, len(rates)),
		order:     make([]string, 0, len(rates)),
		distances: distances,
		fallback:  fallbackCity,
	}
	for _, rate := range rates {
		name := strings.TrimSpace(rate.City)
		if name == "" {
			return nil, fmt.Errorf("catalog: city without name")
		}
		if _, exists := c.cities[name]; exists {
			return nil, fmt.Errorf("catalog: duplicate city %q", name)
		}
		if rate.Scheme == nil {
			return nil, fmt.Errorf("catalog: city %q has no rate scheme", name)
		}
		for _, class := range rate.Availability {
			if !class.IsCatalogued() {
				return nil, fmt.Errorf("catalog: city %q lists unknown class %q", name, class)
			}
		}
		rate.City = name
		rate.Availability = append([]model.CraneClass(nil), rate.Availability...)
		c.cities[name] = rate
		c.order = append(c.order, name)
	}
	if _, ok := c.cities[fallbackCity]; !ok {
		return nil, fmt.Errorf("catalog: fallback city %q is not in the catalog", fallbackCity)
	}
	return c, nil
}

func (c *Catalog) Rates(city string) (CityRate, bool) {
	rate, ok := c.cities[city]
	return rate, ok
}

// Cities returns the catalog keys in alphabetical order.
func (c *Catalog) Cities() []string {
	out := append([]string(nil), c.order...)
	sort.Strings(out)
	return out
}

func (c *Catalog) FallbackCity() string {
	return c.fallback
}

// Distance is the road distance in km. Unknown pairs report false.
func (c *Catalog) Distance(from, to string) (float64, bool) {
	return c.distances.Distance(from, to)
}
