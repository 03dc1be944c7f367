package catalog

import (
	"fmt"
	"strings"
)

// DistanceMatrix is a symmetric table of km between catalog cities.
type DistanceMatrix struct {
	km map[string]map[string]float64
}

// Leg is one undirected entry of the matrix.
type Leg struct {
	From string
	To   string
	Km   float64
}

// NewDistanceMatrix mirrors every leg. A leg given twice with different
// distances, a negative distance or a non-zero self distance is an error.
func NewDistanceMatrix(legs []Leg) (*DistanceMatrix, error) {
	m := &DistanceMatrix{km: make(map[string]map[string]float64)}
	for _, leg := range legs {
		from, to := strings.TrimSpace(leg.From), strings.TrimSpace(leg.To)
		if from == "" || to == "" {
			return nil, fmt.Errorf("distance: leg with empty city")
		}
		if leg.Km < 0 {
			return nil, fmt.Errorf("distance: negative distance %s-%s", from, to)
		}
		if from == to && leg.Km != 0 {
			return nil, fmt.Errorf("distance: %s to itself must be 0 km", from)
		}
		if err := m.set(from, to, leg.Km); err != nil {
			return nil, err
		}
		if err := m.set(to, from, leg.Km); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *DistanceMatrix) set(from, to string, km float64) error {
	row, ok := m.km[from]
	if !ok {
		row = make(map[string]float64)
		m.km[from] = row
	}
	if existing, ok := row[to]; ok && existing != km {
		return fmt.Errorf("distance: %s-%s given as %.0f and %.0f km", from, to, existing, km)
	}
	row[to] = km
	return nil
}

func (m *DistanceMatrix) Distance(from, to string) (float64, bool) {
	if from == to {
		return 0, true
	}
	km, ok := m.km[from][to]
	return km, ok
}
