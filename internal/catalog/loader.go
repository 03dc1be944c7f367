package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/nurpe/liftquote/internal/capacity"
	"github.com/nurpe/liftquote/internal/model"
)

// ReferenceData is the static data the estimator reads: load charts, city
// rates and distances. It is loaded once at startup.
type ReferenceData struct {
	Catalog  *Catalog
	Capacity *capacity.Table
}

// Viper lower-cases map keys, so classes and city names are carried as
// values in lists rather than as keys.
type fileData struct {
	FallbackCity string      `mapstructure:"fallback_city"`
	Cities       []fileCity  `mapstructure:"cities"`
	Distances    []fileLeg   `mapstructure:"distances"`
	Curves       []fileCurve `mapstructure:"curves"`
}

type fileCity struct {
	Name         string     `mapstructure:"name"`
	Provider     string     `mapstructure:"provider"`
	Scheme       string     `mapstructure:"scheme"`
	Availability []string   `mapstructure:"availability"`
	Prefixes     []string   `mapstructure:"prefixes"`
	Keywords     []string   `mapstructure:"keywords"`
	MinHours     *int       `mapstructure:"min_hours"`
	PerKm        *float64   `mapstructure:"per_km"`
	Rates        []fileRate `mapstructure:"rates"`
}

type fileRate struct {
	Class        string   `mapstructure:"class"`
	Hourly       float64  `mapstructure:"hourly"`
	MinHours     *int     `mapstructure:"min_hours"`
	PerKm        float64  `mapstructure:"per_km"`
	Mobilization float64  `mapstructure:"mobilization"`
	SurchargePct *float64 `mapstructure:"surcharge_pct"`
}

type fileLeg struct {
	From string  `mapstructure:"from"`
	To   string  `mapstructure:"to"`
	Km   float64 `mapstructure:"km"`
}

type fileCurve struct {
	Class  string           `mapstructure:"class"`
	Points []capacity.Point `mapstructure:"points"`
}

// Load builds the reference data. With an empty path the built-in tables are
// used; otherwise the YAML/JSON/TOML file replaces the sections it defines.
// Omitted min_hours, per_km and surcharge_pct take the package defaults; an
// explicit zero is kept. Negative values are rejected.
func Load(path, fallbackCity string) (*ReferenceData, error) {
	rates := DefaultRates()
	legs := DefaultLegs()
	curves := capacity.DefaultCurves()

	if strings.TrimSpace(path) != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		var data fileData
		if err := v.Unmarshal(&data); err != nil {
			return nil, fmt.Errorf("decode catalog file: %w", err)
		}
		if len(data.Cities) > 0 {
			parsed, err := parseCities(data.Cities)
			if err != nil {
				return nil, err
			}
			rates = parsed
		}
		if len(data.Distances) > 0 {
			legs = make([]Leg, 0, len(data.Distances))
			for _, leg := range data.Distances {
				legs = append(legs, Leg{From: leg.From, To: leg.To, Km: leg.Km})
			}
		}
		if len(data.Curves) > 0 {
			curves = make(map[model.CraneClass]capacity.Curve, len(data.Curves))
			for _, c := range data.Curves {
				class, ok := model.ParseCraneClass(c.Class)
				if !ok || !class.IsCatalogued() {
					return nil, fmt.Errorf("catalog file: unknown crane class %q in curves", c.Class)
				}
				curves[class] = c.Points
			}
		}
		if fallbackCity == "" {
			fallbackCity = data.FallbackCity
		}
	}
	if fallbackCity == "" {
		fallbackCity = DefaultFallbackCity
	}

	distances, err := NewDistanceMatrix(legs)
	if err != nil {
		return nil, err
	}
	cat, err := NewCatalog(rates, distances, fallbackCity)
	if err != nil {
		return nil, err
	}
	table, err := capacity.NewTable(curves)
	if err != nil {
		return nil, err
	}
	return &ReferenceData{Catalog: cat, Capacity: table}, nil
}

func parseCities(cities []fileCity) ([]CityRate, error) {
	out := make([]CityRate, 0, len(cities))
	for _, city := range cities {
		availability := make([]model.CraneClass, 0, len(city.Availability))
		for _, raw := range city.Availability {
			class, ok := model.ParseCraneClass(raw)
			if !ok || !class.IsCatalogued() {
				return nil, fmt.Errorf("catalog file: city %q lists unknown class %q", city.Name, raw)
			}
			availability = append(availability, class)
		}

		rate := CityRate{
			City:         city.Name,
			Provider:     city.Provider,
			Availability: availability,
			Prefixes:     city.Prefixes,
			Keywords:     city.Keywords,
		}

		switch strings.ToLower(strings.TrimSpace(city.Scheme)) {
		case "flat", "":
			minHours, err := orDefault(city.Name, "min_hours", city.MinHours, DefaultFlatMinHours)
			if err != nil {
				return nil, err
			}
			perKm := DefaultFlatPerKm
			if city.PerKm != nil {
				if *city.PerKm < 0 {
					return nil, fmt.Errorf("catalog file: city %q has negative per_km", city.Name)
				}
				perKm = decimal.NewFromFloat(*city.PerKm)
			}
			scheme := FlatScheme{
				Hourly:   make(map[model.CraneClass]decimal.Decimal, len(city.Rates)),
				MinHours: minHours,
				PerKm:    perKm,
			}
			for _, r := range city.Rates {
				class, ok := model.ParseCraneClass(r.Class)
				if !ok {
					return nil, fmt.Errorf("catalog file: city %q rates unknown class %q", city.Name, r.Class)
				}
				scheme.Hourly[class] = decimal.NewFromFloat(r.Hourly)
			}
			rate.Scheme = scheme
		case "granular":
			scheme := GranularScheme{Classes: make(map[model.CraneClass]GranularRate, len(city.Rates))}
			for _, r := range city.Rates {
				class, ok := model.ParseCraneClass(r.Class)
				if !ok {
					return nil, fmt.Errorf("catalog file: city %q rates unknown class %q", city.Name, r.Class)
				}
				pct := DefaultGranularSurgePct
				if r.SurchargePct != nil {
					pct = decimal.NewFromFloat(*r.SurchargePct)
				}
				minHours, err := orDefault(city.Name, "min_hours", r.MinHours, DefaultGranularMinHours)
				if err != nil {
					return nil, err
				}
				scheme.Classes[class] = GranularRate{
					Hourly:       decimal.NewFromFloat(r.Hourly),
					MinHours:     minHours,
					PerKm:        decimal.NewFromFloat(r.PerKm),
					Mobilization: decimal.NewFromFloat(r.Mobilization),
					SurchargePct: pct,
				}
			}
			rate.Scheme = scheme
		default:
			return nil, fmt.Errorf("catalog file: city %q has unknown scheme %q", city.Name, city.Scheme)
		}
		out = append(out, rate)
	}
	return out, nil
}

func orDefault(city, field string, v *int, def int) (int, error) {
	if v == nil {
		return def, nil
	}
	if *v < 0 {
		return 0, fmt.Errorf("catalog file: city %q has negative %s", city, field)
	}
	return *v, nil
}
