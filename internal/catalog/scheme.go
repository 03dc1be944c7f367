package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/model"
)

// RateScheme is one of FlatScheme or GranularScheme. The set is closed; the
// estimator switches on the concrete type.
type RateScheme interface {
	rateScheme()
}

// FlatScheme bills every class with one hourly rate per class and shares the
// minimum hours and the per-km rate across classes. Zero values are taken
// literally; the loader fills in DefaultFlatMinHours and DefaultFlatPerKm
// when a file leaves them out.
type FlatScheme struct {
	Hourly   map[model.CraneClass]decimal.Decimal
	MinHours int
	PerKm    decimal.Decimal
}

// GranularScheme prices every class on its own terms.
type GranularScheme struct {
	Classes map[model.CraneClass]GranularRate
}

// GranularRate is the tariff of one class. SurchargePct is a fraction: 0.3
// adds 30% to the hourly part on night shifts.
type GranularRate struct {
	Hourly       decimal.Decimal
	MinHours     int
	PerKm        decimal.Decimal
	Mobilization decimal.Decimal
	SurchargePct decimal.Decimal
}

func (FlatScheme) rateScheme()     {}
func (GranularScheme) rateScheme() {}

const (
	DefaultFlatMinHours     = 7
	DefaultGranularMinHours = 8
)

var (
	DefaultFlatPerKm        = decimal.NewFromFloat(3.0)
	DefaultGranularSurgePct = decimal.NewFromFloat(0.30)
)

// HourlyRate is zero for classes the scheme does not list.
func (s FlatScheme) HourlyRate(class model.CraneClass) decimal.Decimal {
	return s.Hourly[class]
}

// Rate returns the class tariff as listed. Classes the scheme does not list
// cost nothing per hour, have no mobilization fee, bill at least
// DefaultGranularMinHours and carry DefaultGranularSurgePct at night.
func (s GranularScheme) Rate(class model.CraneClass) GranularRate {
	rate, ok := s.Classes[class]
	if !ok {
		return GranularRate{MinHours: DefaultGranularMinHours, SurchargePct: DefaultGranularSurgePct}
	}
	return rate
}
