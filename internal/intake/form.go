package intake

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/nurpe/liftquote/internal/model"
)

type Mode string

const (
	ModeCompute Mode = "compute"
	ModeSubmit  Mode = "submit"
)

const (
	defaultCustomer = "Cliente"
	defaultPeriod   = "1 diurna"
	maxTeams        = 3
)

// Form is the quote request as the web form posts it. Numeric fields accept
// numbers or numeric strings; anything else reads as zero.
type Form struct {
	Mode          string `json:"mode"`
	Customer      string `json:"customer"`
	Contact       string `json:"contact"`
	Email         string `json:"email"`
	Site          string `json:"site"`
	City          string `json:"city"`
	WorkType      string `json:"work_type"`
	WeightT       any    `json:"weight_t"`
	RadiusM       any    `json:"radius_m"`
	Period        string `json:"period"`
	Teams         any    `json:"teams"`
	Days          any    `json:"days"`
	Shift         string `json:"shift"`
	ClassOverride string `json:"class_override"`
	Beams         any    `json:"beams"`
	FacadePanels  any    `json:"facade_panels"`
	HollowSlabs   any    `json:"hollow_slabs"`
	Columns       any    `json:"columns"`
}

// Request is a parsed form: what to price and who to tell about it.
type Request struct {
	Mode     Mode
	Job      model.JobRequest
	Customer model.Customer
}

func (f Form) Parse() Request {
	period := strings.TrimSpace(f.Period)
	if period == "" {
		period = defaultPeriod
	}
	days, teams := ParsePeriod(period)
	if explicit := toInt(f.Days); explicit > 0 {
		days = min(explicit, model.MaxJobDays)
	}
	if explicit := toInt(f.Teams); explicit > 0 {
		teams = min(explicit, maxTeams)
	}

	customer := strings.TrimSpace(f.Customer)
	if customer == "" {
		customer = defaultCustomer
	}

	return Request{
		Mode: ParseMode(f.Mode),
		Job: model.JobRequest{
			WeightT:       toFloat(f.WeightT),
			RadiusM:       toFloat(f.RadiusM),
			City:          strings.TrimSpace(f.City),
			Shift:         ParseShift(f.Shift),
			Teams:         teams,
			Days:          days,
			ClassOverride: strings.TrimSpace(f.ClassOverride),
		},
		Customer: model.Customer{
			Name:     customer,
			Contact:  strings.TrimSpace(f.Contact),
			Email:    strings.TrimSpace(f.Email),
			Site:     strings.TrimSpace(f.Site),
			WorkType: strings.TrimSpace(f.WorkType),
			Period:   period,
			Elements: model.Elements{
				Beams:        toInt(f.Beams),
				FacadePanels: toInt(f.FacadePanels),
				HollowSlabs:  toInt(f.HollowSlabs),
				Columns:      toInt(f.Columns),
			},
		},
	}
}

// ParseMode accepts the English and the Spanish names. Anything unknown
// computes without notifying.
func ParseMode(raw string) Mode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "submit", "enviar":
		return ModeSubmit
	default:
		return ModeCompute
	}
}

// ParseShift reads either an enum value or the form's free text
// ("Diurna", "Nocturna", "Nocturna festivo", "Nocturna fin de semana").
func ParseShift(raw string) model.Shift {
	text := strings.ToLower(strings.TrimSpace(raw))
	switch model.Shift(strings.ToUpper(text)) {
	case model.ShiftDiurnal, model.ShiftNocturnal, model.ShiftNocturnalHoliday:
		return model.Shift(strings.ToUpper(text))
	}
	if !strings.Contains(text, "noct") {
		return model.ShiftDiurnal
	}
	if strings.Contains(text, "festiv") || strings.Contains(text, "fin") {
		return model.ShiftNocturnalHoliday
	}
	return model.ShiftNocturnal
}

var (
	teamsPattern  = regexp.MustCompile(`(?i)(?:^|\D)([1-9]\d*)\s*equip`)
	daysPattern   = regexp.MustCompile(`(?i)(\d+)\s*(?:jornada|d[ií]a)`)
	numberPattern = regexp.MustCompile(`\d+`)
)

// ParsePeriod extracts days and teams from text such as
// "2 jornadas · 3 equipos". Days default to the first number found, teams to
// one; teams are capped at three and days at model.MaxJobDays.
func ParsePeriod(text string) (days, teams int) {
	days, teams = 1, 1

	teamsLoc := []int{-1, -1}
	if m := teamsPattern.FindStringSubmatchIndex(text); m != nil {
		teams = min(count(text[m[2]:m[3]]), maxTeams)
		teamsLoc = []int{m[2], m[3]}
	}

	if m := daysPattern.FindStringSubmatch(text); m != nil {
		return min(count(m[1]), model.MaxJobDays), teams
	}
	for _, loc := range numberPattern.FindAllStringIndex(text, -1) {
		if loc[0] == teamsLoc[0] {
			continue
		}
		days = min(count(text[loc[0]:loc[1]]), model.MaxJobDays)
		break
	}
	return days, teams
}

// count reads a run of decimal digits. Leading zeros do not switch the base;
// values too large for an int saturate.
func count(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxInt
		}
		return 1
	}
	return max(n, 1)
}

func toFloat(v any) float64 {
	if s, ok := v.(string); ok {
		v = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func toInt(v any) int {
	f := math.Floor(toFloat(v))
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
