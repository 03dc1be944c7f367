package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/model"
)

const fontName = "Helvetica"

var (
	lineHeaders = []string{"Partida", "Descripción", "Ud", "Cant.", "P. Unit", "Importe"}
	lineWidths  = []float64{42, 62, 16, 14, 23, 23}
)

// Generator renders quotes with the core Helvetica font. Text goes through
// the cp1252 translator so accents and the euro sign survive.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// CustomerPDF never reads cost figures: the document has none.
func (g *Generator) CustomerPDF(doc model.QuoteDocument) ([]byte, error) {
	pdf, tr := newDocument()

	writeHeader(pdf, tr, doc)
	writeCustomerBlock(pdf, tr, doc)
	writeQuoteBody(pdf, tr, doc)
	writeNarrative(pdf, tr, doc.Narrative)
	writeDisclaimer(pdf, tr)

	return output(pdf)
}

// InternalPDF is the company copy: the customer document plus the cost
// breakdown behind every line.
func (g *Generator) InternalPDF(doc model.InternalDocument) ([]byte, error) {
	pdf, tr := newDocument()

	writeHeader(pdf, tr, doc.QuoteDocument)
	pdf.SetFont(fontName, "B", 10)
	pdf.SetTextColor(180, 0, 0)
	pdf.CellFormat(0, 6, tr("COPIA INTERNA: contiene costes, no reenviar al cliente"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)

	writeCustomerBlock(pdf, tr, doc.QuoteDocument)
	writeQuoteBody(pdf, tr, doc.QuoteDocument)
	writeCostBasis(pdf, tr, doc)
	writeNarrative(pdf, tr, doc.Narrative)

	return output(pdf)
}

func newDocument() (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	translate := pdf.UnicodeTranslatorFromDescriptor("")
	tr := func(s string) string {
		return translate(strings.NewReplacer("≥", ">=", "≤", "<=").Replace(s))
	}
	return pdf, tr
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gofpdf.Fpdf, tr func(string) string, doc model.QuoteDocument) {
	pdf.SetFont(fontName, "B", 9)
	pdf.SetTextColor(245, 158, 11)
	pdf.CellFormat(0, 5, tr(strings.ToUpper(doc.Company)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont(fontName, "B", 15)
	pdf.CellFormat(0, 10, tr(doc.Title()), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func writeCustomerBlock(pdf *gofpdf.Fpdf, tr func(string) string, doc model.QuoteDocument) {
	meta := doc.Quote.Meta
	city := meta.JobCity
	if !meta.AvailableLocally && meta.SupplyCity != "" && meta.SupplyCity != meta.JobCity {
		city = fmt.Sprintf("%s (grúa desde %s)", meta.JobCity, meta.SupplyCity)
	}

	rows := [][2]string{
		{"Cliente", doc.Customer.Name},
		{"Contacto", doc.Customer.Contact},
		{"Email", doc.Customer.Email},
		{"Ciudad", city},
		{"Obra", doc.Customer.Site},
		{"Tipo de obra", doc.Customer.WorkType},
		{"Jornadas", doc.Customer.Period},
		{"Carga / radio", fmt.Sprintf("%s t / %s m", trimFloat(doc.Job.WeightT), trimFloat(doc.Job.RadiusM))},
		{"Clase de grúa", doc.Quote.Selection.RecommendedClass.String()},
	}
	for _, row := range rows {
		pdf.SetFont(fontName, "B", 10)
		pdf.CellFormat(35, 5, tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont(fontName, "", 10)
		pdf.MultiCell(0, 5, tr(safeValue(row[1])), "", "L", false)
	}
	pdf.SetFont(fontName, "", 8)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 4, tr("Criterio: "+doc.Quote.Selection.Criterion), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)
}

func writeQuoteBody(pdf *gofpdf.Fpdf, tr func(string) string, doc model.QuoteDocument) {
	if doc.Quote.Advisory != nil {
		pdf.SetFont(fontName, "B", 10)
		pdf.SetTextColor(220, 38, 38)
		pdf.MultiCell(0, 5, tr("Aviso: "+*doc.Quote.Advisory), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}
	if !doc.Priced() {
		return
	}

	drawTableRow(pdf, tr, lineHeaders, lineWidths, true)
	for _, line := range doc.Quote.LineItems {
		drawTableRow(pdf, tr, []string{
			line.Code + " " + line.Name,
			line.Description,
			line.Unit,
			line.Quantity.String(),
			model.Euros(line.UnitPrice),
			model.Euros(line.Amount),
		}, lineWidths, false)
	}
	pdf.Ln(3)

	summary := doc.Quote.Summary
	totals := [][2]string{
		{"Subtotal", model.Euros(summary.Subtotal)},
		{doc.VATLabel(), model.Euros(summary.Tax)},
		{"TOTAL", model.Euros(summary.Total)},
	}
	for i, row := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont(fontName, style, 11)
		pdf.CellFormat(140, 6, tr(row[0]), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, tr(row[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func writeCostBasis(pdf *gofpdf.Fpdf, tr func(string) string, doc model.InternalDocument) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Desglose interno"), "", 1, "L", false, 0, "")

	headers := []string{"Partida", "Coste", "PVP", "Margen"}
	widths := []float64{70, 36, 36, 38}
	drawTableRow(pdf, tr, headers, widths, true)

	basis := doc.CostBasis
	rows := []struct {
		name string
		cost model.CategoryCost
	}{
		{"Cuadrillas", basis.Crew},
		{"Grúa", basis.Crane},
		{"Coordinación de transporte", basis.Transport},
	}
	for _, row := range rows {
		drawTableRow(pdf, tr, []string{
			row.name,
			model.Euros(row.cost.Cost),
			model.Euros(row.cost.Public),
			model.Euros(row.cost.Public.Sub(row.cost.Cost)),
		}, widths, false)
	}
	drawTableRow(pdf, tr, []string{
		"Subtotal",
		model.Euros(basis.Summary.Subtotal),
		model.Euros(doc.Quote.Summary.Subtotal),
		model.Euros(doc.Quote.Summary.Subtotal.Sub(basis.Summary.Subtotal)),
	}, widths, true)

	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Coste con IVA: %s · Margen sobre coste: %s",
		model.Euros(basis.Summary.Total), marginPct(basis.Summary.Subtotal, doc.Quote.Summary.Subtotal))), "", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func writeNarrative(pdf *gofpdf.Fpdf, tr func(string) string, narrative string) {
	if strings.TrimSpace(narrative) == "" {
		return
	}
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Alcance y supuestos"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	pdf.MultiCell(0, 5, tr(narrative), "", "L", false)
	pdf.Ln(3)
}

func writeDisclaimer(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetFont(fontName, "", 8)
	pdf.SetTextColor(64, 64, 64)
	pdf.MultiCell(0, 4, tr(model.Disclaimer), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
}

// drawTableRow draws one row, wrapping every cell to the tallest one.
func drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)

	const lineHeight = 4.5
	lines := make([][][]byte, len(cols))
	rowLines := 1
	for i, col := range cols {
		lines[i] = pdf.SplitLines([]byte(tr(col)), widths[i]-2)
		rowLines = max(rowLines, len(lines[i]))
	}
	height := float64(rowLines)*lineHeight + 2

	_, pageHeight := pdf.GetPageSize()
	left, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+height > pageHeight-bottom {
		pdf.AddPage()
	}

	x, y := pdf.GetXY()
	for i := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		border := "D"
		if header {
			pdf.SetFillColor(243, 244, 246)
			border = "FD"
		}
		pdf.Rect(x, y, widths[i], height, border)
		for n, line := range lines[i] {
			pdf.SetXY(x+1, y+1+float64(n)*lineHeight)
			pdf.CellFormat(widths[i]-2, lineHeight, string(line), "", 0, align, false, 0, "")
		}
		x += widths[i]
	}
	pdf.SetXY(left, y+height)
}

func marginPct(cost, public decimal.Decimal) string {
	if cost.IsZero() {
		return "-"
	}
	return public.Sub(cost).Div(cost).Shift(2).StringFixed(1) + "%"
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func trimFloat(v float64) string {
	return decimal.NewFromFloat(v).String()
}
