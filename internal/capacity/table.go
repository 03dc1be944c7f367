package capacity

import (
	"fmt"
	"sort"

	"github.com/nurpe/liftquote/internal/model"
)

// Point is one sample of a load chart: at RadiusM metres the crane lifts LoadT tonnes.
type Point struct {
	RadiusM float64 `mapstructure:"radius_m" json:"radius_m"`
	LoadT   float64 `mapstructure:"load_t" json:"load_t"`
}

// Curve is a sparse load chart ordered by ascending radius.
type Curve []Point

// Table maps every catalogued crane class to its chart. It is built once and
// only read afterwards.
type Table struct {
	curves map[model.CraneClass]Curve
}

// NewTable validates and copies the charts. Radii must be strictly increasing
// and loads must not grow with radius.
func NewTable(curves map[model.CraneClass]Curve) (*Table, error) {
	t := &Table{curves: make(map[model.CraneClass]Curve, len(curves))}
	for class, curve := range curves {
		if !class.IsCatalogued() {
			return nil, fmt.Errorf("capacity: unknown crane class %q", class)
		}
		if len(curve) == 0 {
			return nil, fmt.Errorf("capacity: empty chart for %s", class)
		}
		sorted := make(Curve, len(curve))
		copy(sorted, curve)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].RadiusM < sorted[j].RadiusM })
		for i := 1; i < len(sorted); i++ {
			if sorted[i].RadiusM == sorted[i-1].RadiusM {
				return nil, fmt.Errorf("capacity: duplicate radius %.1f m for %s", sorted[i].RadiusM, class)
			}
			if sorted[i].LoadT > sorted[i-1].LoadT {
				return nil, fmt.Errorf("capacity: load grows with radius at %.1f m for %s", sorted[i].RadiusM, class)
			}
		}
		t.curves[class] = sorted
	}
	return t, nil
}

func (t *Table) Has(class model.CraneClass) bool {
	_, ok := t.curves[class]
	return ok
}

// Curve returns a copy of the chart for class, sorted by radius.
func (t *Table) Curve(class model.CraneClass) (Curve, bool) {
	curve, ok := t.curves[class]
	if !ok {
		return nil, false
	}
	return append(Curve(nil), curve...), true
}

// CapacityAt returns the tonnes the class lifts at radiusM.
//
// Radii between two samples take the load of the lower sample radius, which
// is the higher of the two loads. Radii past the last sample keep the last
// load and radii before the first sample keep the first load. There is no
// interpolation.
func (t *Table) CapacityAt(class model.CraneClass, radiusM float64) (float64, bool) {
	curve, ok := t.curves[class]
	if !ok {
		return 0, false
	}
	last := curve[0]
	for _, p := range curve {
		if radiusM == p.RadiusM {
			return p.LoadT, true
		}
		if radiusM < p.RadiusM {
			return last.LoadT, true
		}
		last = p
	}
	return last.LoadT, true
}
