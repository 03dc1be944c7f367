package model

import "github.com/shopspring/decimal"

// QuoteDocument is the input of every customer-facing renderer. It carries
// the public view only.
type QuoteDocument struct {
	Company   string
	Customer  Customer
	Job       JobRequest
	Quote     PublicView
	Narrative string
	VATRate   decimal.Decimal
}

// InternalDocument adds the cost basis for the company copy.
type InternalDocument struct {
	QuoteDocument
	CostBasis CostBasis
}

type Attachment struct {
	Filename string
	Content  []byte
}

type Email struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
	// IdempotencyKey is stable for one recipient of one submission, so the
	// provider drops repeats of a message it already accepted.
	IdempotencyKey string
}

func (s QuoteSnapshot) Document(company string) QuoteDocument {
	return QuoteDocument{
		Company:   company,
		Customer:  s.Customer,
		Job:       s.Job,
		Quote:     s.Quote.PublicView,
		Narrative: s.Narrative,
		VATRate:   s.VATRate,
	}
}

func (s QuoteSnapshot) InternalDocument(company string) InternalDocument {
	return InternalDocument{QuoteDocument: s.Document(company), CostBasis: s.Quote.CostBasis}
}

const (
	TitlePriced   = "Presupuesto técnico orientativo (no vinculante)"
	TitleAdvisory = "Resumen de solicitud (en estudio técnico)"

	Disclaimer = "Estimación sujeta a validación técnica con curvas del fabricante, útiles/pluma, accesos y visita de obra. " +
		"Para radios >30 m o cargas >120T, la definición final se realiza con técnico comercial."
)

func (d QuoteDocument) Title() string {
	if d.Quote.Kind == QuoteKindAdvisory {
		return TitleAdvisory
	}
	return TitlePriced
}

// VATLabel renders the rate as a percentage, "IVA (21%)".
func (d QuoteDocument) VATLabel() string {
	return "IVA (" + d.VATRate.Shift(2).String() + "%)"
}

// Priced reports whether any line carries an amount. A failed computation
// renders as a request summary without the price table.
func (d QuoteDocument) Priced() bool {
	for _, line := range d.Quote.LineItems {
		if !line.Amount.IsZero() {
			return true
		}
	}
	return false
}

// Euros formats an amount the way every document shows it: "1076.63 €".
func Euros(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " €"
}
