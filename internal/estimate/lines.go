package estimate

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/model"
)

const (
	LineCodeCrew      = "01"
	LineCodeCrane     = "02"
	LineCodeTransport = "03"

	UnitTeamDay = "jornada"
	UnitLot     = "lote"
)

// NewCostLine derives the amount from quantity and unit price.
func NewCostLine(code, name, description, unit string, quantity, unitPrice decimal.Decimal) model.CostLine {
	return model.CostLine{
		Code:        code,
		Name:        name,
		Description: description,
		Unit:        unit,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      round2(quantity.Mul(unitPrice)),
	}
}

func craneLineName(class model.CraneClass) string {
	if class == model.CraneClassNeedsReview || class == "" {
		return "Grúa a convenir"
	}
	return "Grúa " + class.String()
}

// buildLines lays out crew, crane and transport coordination, in that order.
func buildLines(class model.CraneClass, crew CrewCost, crane CraneCost, transport model.CategoryCost) []model.CostLine {
	lot := decimal.NewFromInt(1)
	return []model.CostLine{
		NewCostLine(LineCodeCrew, "Cuadrillas de montaje", crew.Detail, UnitTeamDay,
			decimal.NewFromInt(int64(crew.TeamDays)), crew.UnitPublic),
		NewCostLine(LineCodeCrane, craneLineName(class), crane.Detail, UnitLot, lot, crane.Public),
		NewCostLine(LineCodeTransport, "Coordinación de transporte", TransportDetail, UnitLot, lot, transport.Public),
	}
}

// zeroLines is the layout of a quote whose pricing failed.
func zeroLines(class model.CraneClass) []model.CostLine {
	detail := "A convenir: error de cálculo"
	return []model.CostLine{
		NewCostLine(LineCodeCrew, "Cuadrillas de montaje", detail, UnitTeamDay, decimal.Zero, decimal.Zero),
		NewCostLine(LineCodeCrane, craneLineName(class), detail, UnitLot, decimal.Zero, decimal.Zero),
		NewCostLine(LineCodeTransport, "Coordinación de transporte", detail, UnitLot, decimal.Zero, decimal.Zero),
	}
}
