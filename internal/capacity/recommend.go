package capacity

import (
	"fmt"

	"github.com/nurpe/liftquote/internal/model"
)

const (
	RiggingMargin = 1.1
	SafetyMargin  = 1.3

	// RequiredLoadFactor is applied to the piece weight before it is compared
	// with a load chart.
	RequiredLoadFactor = RiggingMargin * SafetyMargin
)

// Criterion describes the selection rule to customers.
var Criterion = fmt.Sprintf("capacidad(curva, radio) ≥ peso × %.1f × %.1f (útiles + colchón de seguridad)", RiggingMargin, SafetyMargin)

// RequiredLoad is the load a crane must lift at the working radius.
func RequiredLoad(weightT float64) float64 {
	return weightT * RequiredLoadFactor
}

// Recommend scans the classes from smallest to largest and returns the first
// one whose chart covers the required load at radiusM. When none does it
// returns model.CraneClassNeedsReview.
func (t *Table) Recommend(weightT, radiusM float64) model.CraneClass {
	required := RequiredLoad(weightT)
	for _, class := range model.CraneClasses() {
		load, ok := t.CapacityAt(class, radiusM)
		if !ok {
			continue
		}
		if load >= required {
			return class
		}
	}
	return model.CraneClassNeedsReview
}
