package excel

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/liftquote/internal/model"
)

const (
	quoteSheet = "Presupuesto"
	costSheet  = "Costes"

	euroFormat = `#,##0.00 "€"`
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// QuoteSheet exports the customer view: header, line items and totals.
func (g *Generator) QuoteSheet(doc model.QuoteDocument) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", quoteSheet); err != nil {
		return nil, err
	}
	if err := g.writeQuote(file, doc); err != nil {
		return nil, err
	}
	return write(file)
}

// InternalSheet adds a cost sheet next to the customer view.
func (g *Generator) InternalSheet(doc model.InternalDocument) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", quoteSheet); err != nil {
		return nil, err
	}
	if err := g.writeQuote(file, doc.QuoteDocument); err != nil {
		return nil, err
	}
	if _, err := file.NewSheet(costSheet); err != nil {
		return nil, err
	}
	if err := g.writeCosts(file, doc); err != nil {
		return nil, err
	}
	return write(file)
}

func write(file *excelize.File) ([]byte, error) {
	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeQuote(file *excelize.File, doc model.QuoteDocument) error {
	euro, bold, err := styles(file)
	if err != nil {
		return err
	}
	set := func(cell string, value any) {
		_ = file.SetCellValue(quoteSheet, cell, value)
	}

	set("A1", doc.Title())
	_ = file.SetCellStyle(quoteSheet, "A1", "A1", bold)

	header := [][2]any{
		{"Cliente", doc.Customer.Name},
		{"Obra", doc.Customer.Site},
		{"Ciudad", doc.Quote.Meta.JobCity},
		{"Grúa desde", doc.Quote.Meta.SupplyCity},
		{"Jornadas", doc.Customer.Period},
		{"Clase de grúa", doc.Quote.Selection.RecommendedClass.String()},
		{"Criterio", doc.Quote.Selection.Criterion},
	}
	row := 3
	for _, pair := range header {
		set(cell(1, row), pair[0])
		set(cell(2, row), pair[1])
		row++
	}
	if doc.Quote.Advisory != nil {
		set(cell(1, row), "Aviso")
		set(cell(2, row), *doc.Quote.Advisory)
		row++
	}

	row++
	tableRow := row
	headers := []string{"Código", "Partida", "Descripción", "Ud", "Cantidad", "P. Unit", "Importe"}
	for i, h := range headers {
		set(cell(i+1, tableRow), h)
	}
	_ = file.SetCellStyle(quoteSheet, cell(1, tableRow), cell(len(headers), tableRow), bold)

	for i, line := range doc.Quote.LineItems {
		r := tableRow + 1 + i
		set(cell(1, r), line.Code)
		set(cell(2, r), line.Name)
		set(cell(3, r), line.Description)
		set(cell(4, r), line.Unit)
		set(cell(5, r), line.Quantity.InexactFloat64())
		set(cell(6, r), line.UnitPrice.InexactFloat64())
		set(cell(7, r), line.Amount.InexactFloat64())
	}
	lastLine := tableRow + len(doc.Quote.LineItems)
	if len(doc.Quote.LineItems) > 0 {
		_ = file.SetCellStyle(quoteSheet, cell(6, tableRow+1), cell(7, lastLine), euro)
	}

	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal", doc.Quote.Summary.Subtotal},
		{doc.VATLabel(), doc.Quote.Summary.Tax},
		{"TOTAL", doc.Quote.Summary.Total},
	}
	for i, total := range totals {
		r := lastLine + 2 + i
		set(cell(6, r), total.label)
		set(cell(7, r), total.value.InexactFloat64())
		_ = file.SetCellStyle(quoteSheet, cell(7, r), cell(7, r), euro)
	}

	_ = file.SetColWidth(quoteSheet, "A", "A", 16)
	_ = file.SetColWidth(quoteSheet, "B", "B", 28)
	_ = file.SetColWidth(quoteSheet, "C", "C", 60)
	_ = file.SetColWidth(quoteSheet, "D", "E", 10)
	_ = file.SetColWidth(quoteSheet, "F", "G", 16)
	return nil
}

func (g *Generator) writeCosts(file *excelize.File, doc model.InternalDocument) error {
	euro, bold, err := styles(file)
	if err != nil {
		return err
	}
	set := func(cell string, value any) {
		_ = file.SetCellValue(costSheet, cell, value)
	}

	headers := []string{"Partida", "Coste", "PVP", "Margen"}
	for i, h := range headers {
		set(cell(i+1, 1), h)
	}
	_ = file.SetCellStyle(costSheet, "A1", "D1", bold)

	basis := doc.CostBasis
	rows := []struct {
		name string
		cost model.CategoryCost
	}{
		{"Cuadrillas", basis.Crew},
		{"Grúa", basis.Crane},
		{"Coordinación de transporte", basis.Transport},
	}
	for i, row := range rows {
		r := i + 2
		set(cell(1, r), row.name)
		set(cell(2, r), row.cost.Cost.InexactFloat64())
		set(cell(3, r), row.cost.Public.InexactFloat64())
		if err := file.SetCellFormula(costSheet, cell(4, r), fmt.Sprintf("C%d-B%d", r, r)); err != nil {
			return err
		}
	}

	summary := [][2]any{
		{"Subtotal coste", basis.Summary.Subtotal.InexactFloat64()},
		{"IVA coste", basis.Summary.Tax.InexactFloat64()},
		{"Total coste", basis.Summary.Total.InexactFloat64()},
	}
	for i, pair := range summary {
		r := len(rows) + 3 + i
		set(cell(1, r), pair[0])
		set(cell(2, r), pair[1])
	}
	_ = file.SetCellStyle(costSheet, "B2", cell(4, len(rows)+2+len(summary)), euro)
	_ = file.SetColWidth(costSheet, "A", "A", 30)
	_ = file.SetColWidth(costSheet, "B", "D", 16)
	return nil
}

func styles(file *excelize.File) (euro, bold int, err error) {
	format := euroFormat
	euro, err = file.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return 0, 0, err
	}
	bold, err = file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, 0, err
	}
	return euro, bold, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
