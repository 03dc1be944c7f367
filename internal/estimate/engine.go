package estimate

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/capacity"
	"github.com/nurpe/liftquote/internal/catalog"
	"github.com/nurpe/liftquote/internal/model"
)

const (
	DefaultCrewMarkup      = 1.2
	DefaultCraneMarkup     = 1.25
	DefaultTransportMarkup = 1.15
	DefaultVATRate         = 0.21
	DefaultCrewRate        = 1150.0
	DefaultTransportFee    = 450.0
	DefaultHoursPerDay     = 8

	// OverrideToBeAgreed is what the quote form sends when the customer leaves
	// the crane choice to the engineer.
	OverrideToBeAgreed = "A convenir con técnico"

	overrideCriterion = "clase indicada en la solicitud"
)

type Markups struct {
	Crew      decimal.Decimal
	Crane     decimal.Decimal
	Transport decimal.Decimal
}

// Engine builds quotes from immutable reference data. It keeps no state
// between calls and is safe for concurrent use.
type Engine struct {
	capacity     *capacity.Table
	catalog      *catalog.Catalog
	markups      Markups
	vatRate      decimal.Decimal
	crewRate     decimal.Decimal
	transportFee decimal.Decimal
	hoursPerDay  int
}

// Option configures an Engine. Non-positive values are ignored and the
// default is kept.
type Option func(*Engine)

func WithMarkups(crew, crane, transport float64) Option {
	return func(e *Engine) {
		if crew > 0 {
			e.markups.Crew = decimal.NewFromFloat(crew)
		}
		if crane > 0 {
			e.markups.Crane = decimal.NewFromFloat(crane)
		}
		if transport > 0 {
			e.markups.Transport = decimal.NewFromFloat(transport)
		}
	}
}

func WithVATRate(rate float64) Option {
	return func(e *Engine) {
		if rate > 0 {
			e.vatRate = decimal.NewFromFloat(rate)
		}
	}
}

func WithCrewRate(perTeamDay float64) Option {
	return func(e *Engine) {
		if perTeamDay > 0 {
			e.crewRate = decimal.NewFromFloat(perTeamDay)
		}
	}
}

func WithTransportFee(fee float64) Option {
	return func(e *Engine) {
		if fee > 0 {
			e.transportFee = decimal.NewFromFloat(fee)
		}
	}
}

func WithHoursPerDay(hours int) Option {
	return func(e *Engine) {
		if hours > 0 {
			e.hoursPerDay = hours
		}
	}
}

func NewEngine(table *capacity.Table, cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		capacity: table,
		catalog:  cat,
		markups: Markups{
			Crew:      decimal.NewFromFloat(DefaultCrewMarkup),
			Crane:     decimal.NewFromFloat(DefaultCraneMarkup),
			Transport: decimal.NewFromFloat(DefaultTransportMarkup),
		},
		vatRate:      decimal.NewFromFloat(DefaultVATRate),
		crewRate:     decimal.NewFromFloat(DefaultCrewRate),
		transportFee: decimal.NewFromFloat(DefaultTransportFee),
		hoursPerDay:  DefaultHoursPerDay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Markups() Markups {
	return e.markups
}

func (e *Engine) VATRate() decimal.Decimal {
	return e.vatRate
}

// Quote prices the job. It never fails: a job no crane class covers and any
// pricing failure both come back as an advisory quote.
func (e *Engine) Quote(job model.JobRequest) (quote model.Quote) {
	job = normalizeJob(job)
	jobCity := e.catalog.ResolveCity(job.City)

	defer func() {
		if r := recover(); r != nil {
			quote = e.degraded(job, jobCity, &ComputationError{Step: "quote", Err: fmt.Errorf("%v", r)})
		}
	}()

	quote, err := e.price(job, jobCity)
	if err != nil {
		return e.degraded(job, jobCity, err)
	}
	return quote
}

func (e *Engine) price(job model.JobRequest, jobCity string) (model.Quote, error) {
	class, criterion, err := e.selectClass(job)
	if err != nil {
		return model.Quote{}, err
	}

	provision := e.catalog.SelectProvider(jobCity, class)
	crane, err := e.craneCost(jobCity, class, provision, e.hoursPerDay*job.Days, job.Shift)
	if err != nil {
		return model.Quote{}, err
	}
	crew := e.crewCost(job.Teams, job.Days, job.Shift)
	transport := e.transportCost()

	summary, basis := e.aggregate(crew.CategoryCost, crane.CategoryCost, transport)

	quote := model.Quote{
		Kind:      model.QuoteKindPriced,
		Job:       job,
		Selection: model.Selection{RecommendedClass: class, Criterion: criterion},
		LineItems: buildLines(class, crew, crane, transport),
		Summary:   summary,
		Meta: model.Meta{
			JobCity:          jobCity,
			SupplyCity:       provision.SupplyCity,
			AvailableLocally: provision.AvailableHere,
		},
		CostBasis: basis,
	}
	if class == model.CraneClassNeedsReview {
		advisory := NeedsReviewDetail
		quote.Kind = model.QuoteKindAdvisory
		quote.Advisory = &advisory
	}
	return quote, nil
}

func (e *Engine) selectClass(job model.JobRequest) (model.CraneClass, string, error) {
	override := strings.TrimSpace(job.ClassOverride)
	if override != "" && !strings.EqualFold(override, OverrideToBeAgreed) {
		class, ok := model.ParseCraneClass(override)
		if !ok {
			return "", "", computationErr("class", "unknown crane class %q", override)
		}
		return class, overrideCriterion, nil
	}
	if e.capacity == nil {
		return "", "", computationErr("class", "no load charts loaded")
	}
	return e.capacity.Recommend(job.WeightT, job.RadiusM), capacity.Criterion, nil
}

// degraded is the advisory quote for a failed computation: every line is
// priced at zero and the advisory carries the reason.
func (e *Engine) degraded(job model.JobRequest, jobCity string, err error) model.Quote {
	advisory := "Fallo de cálculo: " + err.Error()
	zero := model.Summary{Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
	return model.Quote{
		Kind: model.QuoteKindAdvisory,
		Job:  job,
		Selection: model.Selection{
			RecommendedClass: model.CraneClassNeedsReview,
			Criterion:        capacity.Criterion,
		},
		LineItems: zeroLines(model.CraneClassNeedsReview),
		Summary:   zero,
		Meta:      model.Meta{JobCity: jobCity, SupplyCity: jobCity},
		Advisory:  &advisory,
		CostBasis: model.CostBasis{Summary: zero},
	}
}

// normalizeJob applies the input defaults: unusable numbers become zero,
// teams and days are at least one, days at most model.MaxJobDays, and an
// unknown shift is a day shift.
func normalizeJob(job model.JobRequest) model.JobRequest {
	job.WeightT = nonNegative(job.WeightT)
	job.RadiusM = nonNegative(job.RadiusM)
	if job.Teams < 1 {
		job.Teams = 1
	}
	job.Days = min(max(job.Days, 1), model.MaxJobDays)
	switch job.Shift {
	case model.ShiftNocturnal, model.ShiftNocturnalHoliday:
	default:
		job.Shift = model.ShiftDiurnal
	}
	return job
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
