package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nurpe/liftquote/internal/model"
)

func TestRecommend_Scenarios(t *testing.T) {
	t.Parallel()
	table := DefaultTable()

	cases := []struct {
		name   string
		weight float64
		radius float64
		want   model.CraneClass
	}{
		{"exact sample picks 60T", 10, 10, model.CraneClass60T},
		{"35 t at 18 m needs 350T", 35, 18, model.CraneClass350T},
		{"between samples uses the 12 m reading", 5, 13, model.CraneClass60T},
		{"too heavy for any chart", 500, 10, model.CraneClassNeedsReview},
		{"zero weight takes the smallest class", 0, 20, model.CraneClass60T},
		{"9.1 t at 13 m fits 60T only through the 12 m reading", 9.1, 13, model.CraneClass60T},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, table.Recommend(tc.weight, tc.radius))
		})
	}
}

func TestRequiredLoad(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 14.3, RequiredLoad(10), 1e-9)
	assert.InDelta(t, 50.05, RequiredLoad(35), 1e-9)
}

func TestRecommend_Minimality(t *testing.T) {
	t.Parallel()
	table := DefaultTable()
	classes := model.CraneClasses()

	for weight := 0.5; weight <= 70; weight += 1.5 {
		for radius := 8.0; radius <= 42; radius += 1.25 {
			got := table.Recommend(weight, radius)
			required := weight * RequiredLoadFactor

			if got == model.CraneClassNeedsReview {
				for _, class := range classes {
					load, _ := table.CapacityAt(class, radius)
					assert.Less(t, load, required, "%s would cover %.2f t at %.2f m", class, weight, radius)
				}
				continue
			}

			load, _ := table.CapacityAt(got, radius)
			assert.GreaterOrEqual(t, load, required)
			for _, smaller := range classes[:got.Rank()] {
				smallerLoad, _ := table.CapacityAt(smaller, radius)
				assert.Less(t, smallerLoad, required, "%s is smaller than %s and still covers the lift", smaller, got)
			}
		}
	}
}
