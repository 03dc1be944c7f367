package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/model"
)

const DefaultFallbackCity = "Madrid"

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func allClasses() []model.CraneClass {
	return model.CraneClasses()
}

func rigarValencia() CityRate {
	return CityRate{
		City:         "Valencia",
		Provider:     "Rigar",
		Availability: allClasses(),
		Prefixes:     []string{"vale"},
		Keywords:     []string{"quart", "poblet", "sagunto", "alicante", "castellon"},
		Scheme: FlatScheme{
			Hourly: map[model.CraneClass]decimal.Decimal{
				model.CraneClass60T:  d(95),
				model.CraneClass90T:  d(129),
				model.CraneClass100T: d(139),
				model.CraneClass120T: d(179),
				model.CraneClass150T: d(201),
				model.CraneClass250T: d(286),
				model.CraneClass350T: d(340),
			},
			MinHours: 7,
			PerKm:    d(3.2),
		},
	}
}

func aguadoMadrid() CityRate {
	rate := func(hourly float64, minHours int, perKm, mobilization, pct float64) GranularRate {
		return GranularRate{
			Hourly:       d(hourly),
			MinHours:     minHours,
			PerKm:        d(perKm),
			Mobilization: d(mobilization),
			SurchargePct: d(pct),
		}
	}
	return CityRate{
		City:         "Madrid",
		Provider:     "Aguado",
		Availability: allClasses(),
		Prefixes:     []string{"madri"},
		Scheme: GranularScheme{Classes: map[model.CraneClass]GranularRate{
			model.CraneClass60T:  rate(85.50, 6, 2.87, 177.30, 0.45),
			model.CraneClass90T:  rate(117.00, 6, 4.50, 331.20, 0.40),
			model.CraneClass100T: rate(150.30, 8, 4.57, 620.10, 0.30),
			model.CraneClass120T: rate(154.80, 8, 4.64, 891.00, 0.30),
			model.CraneClass150T: rate(186.30, 8, 5.60, 1251.00, 0.30),
			model.CraneClass250T: rate(287.10, 8, 8.83, 2921.40, 0.20),
			model.CraneClass350T: rate(392.40, 8, 10.13, 4449.60, 0.20),
		}},
	}
}

func generic(city string, prefixes ...string) CityRate {
	return CityRate{
		City:         city,
		Provider:     "Generic",
		Availability: allClasses(),
		Prefixes:     prefixes,
		Scheme: FlatScheme{
			Hourly: map[model.CraneClass]decimal.Decimal{
				model.CraneClass60T:  d(190),
				model.CraneClass90T:  d(240),
				model.CraneClass100T: d(310),
				model.CraneClass120T: d(380),
				model.CraneClass150T: d(460),
				model.CraneClass250T: d(820),
				model.CraneClass350T: d(1000),
			},
			MinHours: 4,
			PerKm:    d(3.0),
		},
	}
}

// DefaultRates lists the cities in the order free text is matched against them.
func DefaultRates() []CityRate {
	return []CityRate{
		aguadoMadrid(),
		rigarValencia(),
		generic("Barcelona", "barc"),
		generic("Zaragoza", "zar"),
		generic("Sevilla", "sev"),
	}
}

func DefaultLegs() []Leg {
	return []Leg{
		{From: "Madrid", To: "Valencia", Km: 355},
		{From: "Madrid", To: "Barcelona", Km: 620},
		{From: "Madrid", To: "Zaragoza", Km: 315},
		{From: "Madrid", To: "Sevilla", Km: 530},
		{From: "Valencia", To: "Barcelona", Km: 350},
		{From: "Valencia", To: "Zaragoza", Km: 310},
		{From: "Valencia", To: "Sevilla", Km: 650},
		{From: "Barcelona", To: "Zaragoza", Km: 300},
		{From: "Barcelona", To: "Sevilla", Km: 1000},
		{From: "Zaragoza", To: "Sevilla", Km: 820},
	}
}

// DefaultCatalog panics only if the built-in tables are inconsistent.
func DefaultCatalog(fallbackCity string) *Catalog {
	if fallbackCity == "" {
		fallbackCity = DefaultFallbackCity
	}
	distances, err := NewDistanceMatrix(DefaultLegs())
	if err != nil {
		panic(err)
	}
	c, err := NewCatalog(DefaultRates(), distances, fallbackCity)
	if err != nil {
		panic(err)
	}
	return c
}
