package catalog

import (
	"math"
	"sort"

	"github.com/nurpe/liftquote/internal/model"
)

// Provision says which city sends the crane for a job.
type Provision struct {
	SupplyCity    string
	AvailableHere bool
	// Resolvable is false for NEEDS_REVIEW: nobody is asked to supply.
	Resolvable bool
}

// SelectProvider prefers the job city, then the nearest other city whose
// fleet has the class. When no city has it the job city is returned with
// AvailableHere false and its own rates end up being used.
func (c *Catalog) SelectProvider(jobCity string, class model.CraneClass) Provision {
	if class == model.CraneClassNeedsReview {
		return Provision{SupplyCity: jobCity}
	}
	if rate, ok := c.cities[jobCity]; ok && rate.Supplies(class) {
		return Provision{SupplyCity: jobCity, AvailableHere: true, Resolvable: true}
	}
	for _, city := range c.byDistanceFrom(jobCity) {
		if c.cities[city].Supplies(class) {
			return Provision{SupplyCity: city, Resolvable: true}
		}
	}
	return Provision{SupplyCity: jobCity, Resolvable: true}
}

// byDistanceFrom lists the other cities nearest first. Ties break on name and
// cities with no known distance go last.
func (c *Catalog) byDistanceFrom(jobCity string) []string {
	type ranked struct {
		city string
		km   float64
	}
	candidates := make([]ranked, 0, len(c.order))
	for _, city := range c.order {
		if city == jobCity {
			continue
		}
		km, ok := c.distances.Distance(jobCity, city)
		if !ok {
			km = math.Inf(1)
		}
		candidates = append(candidates, ranked{city: city, km: km})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].km != candidates[j].km {
			return candidates[i].km < candidates[j].km
		}
		return candidates[i].city < candidates[j].city
	})
	out := make([]string, len(candidates))
	for i, cand := range candidates {
		out[i] = cand.city
	}
	return out
}
