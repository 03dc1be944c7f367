package model

import "github.com/shopspring/decimal"

type QuoteKind string

const (
	QuoteKindPriced   QuoteKind = "PRICED"
	QuoteKindAdvisory QuoteKind = "ADVISORY"
)

type CostLine struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

type Selection struct {
	RecommendedClass CraneClass `json:"recommended_class"`
	Criterion        string     `json:"criterion"`
}

type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type Meta struct {
	JobCity          string `json:"job_city"`
	SupplyCity       string `json:"supply_city"`
	AvailableLocally bool   `json:"available_locally"`
}

// CategoryCost is the cost and public price of one line before it is laid out.
type CategoryCost struct {
	Cost   decimal.Decimal `json:"cost"`
	Public decimal.Decimal `json:"public"`
}

// CostBasis is internal-only: it must never reach a customer-facing renderer.
type CostBasis struct {
	Crew      CategoryCost `json:"crew"`
	Crane     CategoryCost `json:"crane"`
	Transport CategoryCost `json:"transport"`
	Summary   Summary      `json:"summary"`
}

// Quote is produced fresh for every request and not modified afterwards.
type Quote struct {
	Kind      QuoteKind  `json:"kind"`
	Job       JobRequest `json:"-"`
	Selection Selection  `json:"selection"`
	LineItems []CostLine `json:"line_items"`
	Summary   Summary    `json:"summary"`
	Meta      Meta       `json:"meta"`
	Advisory  *string    `json:"advisory"`
	CostBasis CostBasis  `json:"-"`
}

func (q Quote) IsAdvisory() bool {
	return q.Kind == QuoteKindAdvisory
}

// PublicView is the customer-facing projection of a quote.
type PublicView struct {
	Kind      QuoteKind  `json:"kind"`
	Selection Selection  `json:"selection"`
	LineItems []CostLine `json:"line_items"`
	Summary   Summary    `json:"summary"`
	Meta      Meta       `json:"meta"`
	Advisory  *string    `json:"advisory"`
}

// InternalView adds the cost basis for staff-only callers.
type InternalView struct {
	PublicView
	CostBasis CostBasis `json:"cost_basis"`
}

func (q Quote) Public() PublicView {
	return PublicView{
		Kind:      q.Kind,
		Selection: q.Selection,
		LineItems: q.LineItems,
		Summary:   q.Summary,
		Meta:      q.Meta,
		Advisory:  q.Advisory,
	}
}

func (q Quote) Internal() InternalView {
	return InternalView{PublicView: q.Public(), CostBasis: q.CostBasis}
}
