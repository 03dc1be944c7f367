package estimate

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/model"
)

var (
	holidayNightFactor = decimal.NewFromFloat(1.45)
	nightFactor        = decimal.NewFromFloat(1.35)
	one                = decimal.NewFromInt(1)
	two                = decimal.NewFromInt(2)
)

func round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// markup returns the cost rounded to cents and its public price.
func markup(cost, factor decimal.Decimal) model.CategoryCost {
	cost = round2(cost)
	return model.CategoryCost{Cost: cost, Public: round2(cost.Mul(factor))}
}

// shiftStep is the flat night multiplier shared by crew and flat crane rates.
func shiftStep(shift model.Shift) decimal.Decimal {
	switch shift {
	case model.ShiftNocturnalHoliday:
		return holidayNightFactor
	case model.ShiftNocturnal:
		return nightFactor
	default:
		return one
	}
}

func shiftLabel(factor decimal.Decimal) string {
	if factor.GreaterThan(one) {
		return "recargo x" + factor.String()
	}
	return "diurno"
}
