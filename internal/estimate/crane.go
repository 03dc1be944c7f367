package estimate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/catalog"
	"github.com/nurpe/liftquote/internal/model"
)

const NeedsReviewDetail = "Capacidad fuera de tabla o radio extremo: a convenir tras visita de obra y estudio de curvas."

// CraneCost is the priced crane with the rate basis it was priced on.
type CraneCost struct {
	model.CategoryCost
	BillableHours int
	Detail        string
}

func (e *Engine) craneCost(jobCity string, class model.CraneClass, provision catalog.Provision, hours int, shift model.Shift) (CraneCost, error) {
	if class == model.CraneClassNeedsReview || !provision.Resolvable {
		return CraneCost{Detail: NeedsReviewDetail}, nil
	}

	rates, ok := e.catalog.Rates(provision.SupplyCity)
	if !ok {
		return CraneCost{}, computationErr("crane", "no rates for supply city %q", provision.SupplyCity)
	}

	km, _ := e.catalog.Distance(provision.SupplyCity, jobCity)
	roundTrip := decimal.NewFromFloat(km).Mul(two)

	switch scheme := rates.Scheme.(type) {
	case catalog.GranularScheme:
		return e.granularCraneCost(rates, scheme, class, provision.SupplyCity, roundTrip, hours, shift), nil
	case catalog.FlatScheme:
		return e.flatCraneCost(rates, scheme, class, provision.SupplyCity, roundTrip, hours, shift), nil
	default:
		return CraneCost{}, computationErr("crane", "city %q has unsupported rate scheme %T", provision.SupplyCity, rates.Scheme)
	}
}

func (e *Engine) granularCraneCost(rates catalog.CityRate, scheme catalog.GranularScheme, class model.CraneClass, supplyCity string, roundTrip decimal.Decimal, hours int, shift model.Shift) CraneCost {
	rate := scheme.Rate(class)
	billable := max(hours, rate.MinHours)

	pct := decimal.Zero
	if shift.IsNight() {
		pct = rate.SurchargePct
	}
	factor := one.Add(pct)

	hourly := rate.Hourly.Mul(decimal.NewFromInt(int64(billable))).Mul(factor)
	cost := hourly.Add(roundTrip.Mul(rate.PerKm)).Add(rate.Mobilization)

	pctLabel := "0%"
	if pct.IsPositive() {
		pctLabel = "+" + pct.Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
	}
	detail := fmt.Sprintf("%s/%s %s · %dh mín · %s · km i/v %s × %s € + salida %s € · base %s",
		supplyCity, rates.Provider, class, billable, pctLabel,
		roundTrip.String(), rate.PerKm.StringFixed(2), rate.Mobilization.StringFixed(2), supplyCity)

	return CraneCost{CategoryCost: markup(cost, e.markups.Crane), BillableHours: billable, Detail: detail}
}

func (e *Engine) flatCraneCost(rates catalog.CityRate, scheme catalog.FlatScheme, class model.CraneClass, supplyCity string, roundTrip decimal.Decimal, hours int, shift model.Shift) CraneCost {
	billable := max(hours, scheme.MinHours)
	factor := shiftStep(shift)
	perKm := scheme.PerKm

	hourly := scheme.HourlyRate(class).Mul(decimal.NewFromInt(int64(billable))).Mul(factor)
	cost := hourly.Add(roundTrip.Mul(perKm))

	detail := fmt.Sprintf("%s %s · %dh mín · %s · km i/v %s × %s € · base %s",
		rates.Provider, class, billable, shiftLabel(factor),
		roundTrip.String(), perKm.StringFixed(2), supplyCity)

	return CraneCost{CategoryCost: markup(cost, e.markups.Crane), BillableHours: billable, Detail: detail}
}
