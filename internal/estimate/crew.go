package estimate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/model"
)

type CrewCost struct {
	model.CategoryCost
	TeamDays   int
	UnitPublic decimal.Decimal
	Detail     string
}

// crewCost prices teams × days at the per-team day rate with the night step.
// The public figure is derived from the per-day public rate so the quote line
// always equals quantity × unit price.
func (e *Engine) crewCost(teams, days int, shift model.Shift) CrewCost {
	factor := shiftStep(shift)
	perTeamDay := e.crewRate.Mul(factor)
	teamDays := teams * days
	qty := decimal.NewFromInt(int64(teamDays))

	unitPublic := round2(perTeamDay.Mul(e.markups.Crew))
	return CrewCost{
		CategoryCost: model.CategoryCost{
			Cost:   round2(perTeamDay.Mul(qty)),
			Public: round2(unitPublic.Mul(qty)),
		},
		TeamDays:   teamDays,
		UnitPublic: unitPublic,
		Detail:     fmt.Sprintf("%d equipo(s) · %d jornada(s) · %s", teams, days, shiftLabel(factor)),
	}
}

const TransportDetail = "Rutas, permisos, escoltas y coordinación carga/descarga"

// transportCost is a fixed coordination fee, independent of the job.
func (e *Engine) transportCost() model.CategoryCost {
	return markup(e.transportFee, e.markups.Transport)
}
