package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/liftquote/internal/model"
)

func TestCapacityAt_ExactSample(t *testing.T) {
	t.Parallel()
	table := DefaultTable()

	load, ok := table.CapacityAt(model.CraneClass60T, 10)
	require.True(t, ok)
	assert.Equal(t, 18.0, load)

	load, ok = table.CapacityAt(model.CraneClass350T, 18)
	require.True(t, ok)
	assert.Equal(t, 55.0, load)
}

func TestCapacityAt_BetweenSamplesTakesLowerRadius(t *testing.T) {
	t.Parallel()
	table := DefaultTable()

	cases := []struct {
		class  model.CraneClass
		radius float64
		want   float64
	}{
		{model.CraneClass60T, 13, 14},     // samples 12 -> 14 t, 14 -> 11 t
		{model.CraneClass60T, 12.01, 14},  // just past 12 m
		{model.CraneClass60T, 13.99, 14},  // just before 14 m
		{model.CraneClass150T, 19, 26},    // samples 18 -> 26 t, 20 -> 22 t
		{model.CraneClass250T, 32.5, 21},  // samples 30 -> 21 t, 35 -> 16 t
		{model.CraneClass350T, 37, 24},    // samples 35 -> 24 t, 40 -> 18 t
		{model.CraneClass90T, 23, 8.5},    // samples 22 -> 8.5 t, 24 -> 7.5 t
		{model.CraneClass120T, 10.5, 40},  // samples 10 -> 40 t, 12 -> 32 t
	}
	for _, tc := range cases {
		load, ok := table.CapacityAt(tc.class, tc.radius)
		require.True(t, ok)
		assert.Equal(t, tc.want, load, "%s at %.2f m", tc.class, tc.radius)
	}
}

func TestCapacityAt_OutsideChart(t *testing.T) {
	t.Parallel()
	table := DefaultTable()

	load, _ := table.CapacityAt(model.CraneClass100T, 55)
	assert.Equal(t, 3.2, load, "beyond the last sample keeps the last load")

	load, _ = table.CapacityAt(model.CraneClass100T, 4)
	assert.Equal(t, 32.0, load, "before the first sample keeps the first load")
}

func TestCapacityAt_UnknownClass(t *testing.T) {
	t.Parallel()
	table := DefaultTable()

	_, ok := table.CapacityAt(model.CraneClassNeedsReview, 10)
	assert.False(t, ok)
}

func TestCapacityAt_Deterministic(t *testing.T) {
	t.Parallel()
	table := DefaultTable()

	for _, class := range model.CraneClasses() {
		for r := 0.0; r <= 45; r += 0.5 {
			first, _ := table.CapacityAt(class, r)
			second, _ := table.CapacityAt(class, r)
			assert.Equal(t, first, second)
		}
	}
}

func TestNewTable_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTable(map[model.CraneClass]Curve{
		model.CraneClass60T: {{RadiusM: 10, LoadT: 5}, {RadiusM: 12, LoadT: 6}},
	})
	assert.Error(t, err, "load growing with radius must be rejected")

	_, err = NewTable(map[model.CraneClass]Curve{
		model.CraneClass60T: {{RadiusM: 10, LoadT: 5}, {RadiusM: 10, LoadT: 4}},
	})
	assert.Error(t, err, "duplicate radius must be rejected")

	_, err = NewTable(map[model.CraneClass]Curve{"75T": {{RadiusM: 10, LoadT: 5}}})
	assert.Error(t, err)

	table, err := NewTable(map[model.CraneClass]Curve{
		model.CraneClass60T: {{RadiusM: 14, LoadT: 11}, {RadiusM: 10, LoadT: 18}},
	})
	require.NoError(t, err)
	load, _ := table.CapacityAt(model.CraneClass60T, 12)
	assert.Equal(t, 18.0, load, "samples are sorted on construction")
}

func TestCurve_ReturnsCopy(t *testing.T) {
	t.Parallel()
	table := DefaultTable()

	curve, ok := table.Curve(model.CraneClass60T)
	require.True(t, ok)
	require.NotEmpty(t, curve)
	curve[0].LoadT = -1

	again, _ := table.Curve(model.CraneClass60T)
	assert.NotEqual(t, -1.0, again[0].LoadT)

	_, ok = table.Curve(model.CraneClassNeedsReview)
	assert.False(t, ok)
}
