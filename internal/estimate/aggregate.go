package estimate

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/model"
)

// Summarize adds already-rounded category figures and applies VAT.
func Summarize(vatRate decimal.Decimal, amounts ...decimal.Decimal) model.Summary {
	subtotal := decimal.Zero
	for _, amount := range amounts {
		subtotal = subtotal.Add(amount)
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal.Mul(vatRate))
	return model.Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// aggregate returns the customer summary and the internal cost-basis summary.
func (e *Engine) aggregate(crew, crane, transport model.CategoryCost) (model.Summary, model.CostBasis) {
	public := Summarize(e.vatRate, crew.Public, crane.Public, transport.Public)
	basis := model.CostBasis{
		Crew:      crew,
		Crane:     crane,
		Transport: transport,
		Summary:   Summarize(e.vatRate, crew.Cost, crane.Cost, transport.Cost),
	}
	return public, basis
}
