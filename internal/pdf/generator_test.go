package pdf

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/liftquote/internal/model"
)

func sampleDocument() model.QuoteDocument {
	d := decimal.RequireFromString
	return model.QuoteDocument{
		Company:  "Montaje de Prefabricados",
		Customer: model.Customer{Name: "Construcciones Núñez", Contact: "Begoña", Site: "Nave logística", Period: "2 jornadas · 2 equipos"},
		Job:      model.JobRequest{WeightT: 12.5, RadiusM: 18},
		Quote: model.PublicView{
			Kind:      model.QuoteKindPriced,
			Selection: model.Selection{RecommendedClass: model.CraneClass120T, Criterion: "capacidad ≥ peso × 1.1 × 1.3"},
			LineItems: []model.CostLine{
				{Code: "01", Name: "Cuadrillas de montaje", Description: "2 equipo(s) · 2 jornada(s) · diurno", Unit: "jornada", Quantity: d("4"), UnitPrice: d("1380"), Amount: d("5520")},
				{Code: "02", Name: "Grúa 120T", Description: "Rigar 120T · 16h mín · diurno · km i/v 0 × 3.20 € · base Valencia", Unit: "lote", Quantity: d("1"), UnitPrice: d("3580"), Amount: d("3580")},
			},
			Summary: model.Summary{Subtotal: d("9100"), Tax: d("1911"), Total: d("11011")},
			Meta:    model.Meta{JobCity: "Valencia", SupplyCity: "Valencia", AvailableLocally: true},
		},
		Narrative: "Montaje de vigas y pilares con grúa móvil. Se asume acceso pavimentado.",
		VATRate:   d("0.21"),
	}
}

func TestGenerator_CustomerPDF(t *testing.T) {
	t.Parallel()
	out, err := NewGenerator().CustomerPDF(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerator_AdvisoryWithoutLines(t *testing.T) {
	t.Parallel()
	doc := sampleDocument()
	advisory := "Fallo de cálculo: class: unknown crane class \"75T\""
	doc.Quote.Kind = model.QuoteKindAdvisory
	doc.Quote.Advisory = &advisory
	for i := range doc.Quote.LineItems {
		doc.Quote.LineItems[i].Amount = decimal.Zero
	}

	out, err := NewGenerator().CustomerPDF(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerator_InternalPDF(t *testing.T) {
	t.Parallel()
	d := decimal.RequireFromString
	doc := model.InternalDocument{
		QuoteDocument: sampleDocument(),
		CostBasis: model.CostBasis{
			Crew:    model.CategoryCost{Cost: d("4600"), Public: d("5520")},
			Crane:   model.CategoryCost{Cost: d("2864"), Public: d("3580")},
			Summary: model.Summary{Subtotal: d("7464"), Tax: d("1567.44"), Total: d("9031.44")},
		},
	}

	out, err := NewGenerator().InternalPDF(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerator_ManyLinesBreakPages(t *testing.T) {
	t.Parallel()
	doc := sampleDocument()
	line := doc.Quote.LineItems[1]
	for range 80 {
		doc.Quote.LineItems = append(doc.Quote.LineItems, line)
	}

	out, err := NewGenerator().CustomerPDF(doc)
	require.NoError(t, err)
	assert.Greater(t, bytes.Count(out, []byte("/Type /Page\n")), 1)
}

func TestMarginPct(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "25.0%", marginPct(decimal.NewFromInt(100), decimal.NewFromInt(125)))
	assert.Equal(t, "-", marginPct(decimal.Zero, decimal.NewFromInt(10)))
}
