package intake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/liftquote/internal/model"
)

func TestParsePeriod(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text  string
		days  int
		teams int
	}{
		{text: "1 diurna", days: 1, teams: 1},
		{text: "2 jornadas · 3 equipos", days: 2, teams: 3},
		{text: "3 equipos, 4 jornadas", days: 4, teams: 3},
		{text: "2 equipos 5", days: 5, teams: 2},
		{text: "7 días, 1 equipo", days: 7, teams: 1},
		{text: "5 equipos", days: 1, teams: 3},
		{text: "0 jornadas", days: 1, teams: 1},
		{text: "08 jornadas", days: 8, teams: 1},
		{text: "09 jornadas · 2 equipos", days: 9, teams: 2},
		{text: "010 jornadas · 2 equipos", days: 10, teams: 2},
		{text: "2 equipos 012", days: 12, teams: 2},
		{text: "900 jornadas", days: model.MaxJobDays, teams: 1},
		{text: "99999999999999999999999 jornadas", days: model.MaxJobDays, teams: 1},
		{text: "a convenir", days: 1, teams: 1},
		{text: "", days: 1, teams: 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			days, teams := ParsePeriod(tt.text)
			assert.Equal(t, tt.days, days)
			assert.Equal(t, tt.teams, teams)
		})
	}
}

func TestParseShift(t *testing.T) {
	t.Parallel()
	tests := map[string]model.Shift{
		"":                       model.ShiftDiurnal,
		"Diurna":                 model.ShiftDiurnal,
		"Nocturna":               model.ShiftNocturnal,
		"nocturna festivo":       model.ShiftNocturnalHoliday,
		"Nocturna fin de semana": model.ShiftNocturnalHoliday,
		"NOCTURNAL":              model.ShiftNocturnal,
		"nocturnal_holiday":      model.ShiftNocturnalHoliday,
		"festivo":                model.ShiftDiurnal,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseShift(raw), raw)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ModeCompute, ParseMode(""))
	assert.Equal(t, ModeCompute, ParseMode("calcular"))
	assert.Equal(t, ModeSubmit, ParseMode("Enviar"))
	assert.Equal(t, ModeSubmit, ParseMode("submit"))
	assert.Equal(t, ModeCompute, ParseMode("print"))
}

func TestFormParse(t *testing.T) {
	t.Parallel()
	raw := `{
		"mode": "enviar",
		"customer": " Prefabricados Sur ",
		"email": "obra@example.com",
		"city": "Quart de Poblet",
		"weight_t": "12,5",
		"radius_m": 18,
		"period": "2 jornadas · 2 equipos",
		"shift": "Nocturna",
		"class_override": "A convenir con técnico",
		"beams": "14",
		"columns": -3,
		"facade_panels": "muchos"
	}`
	var form Form
	require.NoError(t, json.Unmarshal([]byte(raw), &form))

	req := form.Parse()
	assert.Equal(t, ModeSubmit, req.Mode)
	assert.Equal(t, model.JobRequest{
		WeightT:       12.5,
		RadiusM:       18,
		City:          "Quart de Poblet",
		Shift:         model.ShiftNocturnal,
		Teams:         2,
		Days:          2,
		ClassOverride: "A convenir con técnico",
	}, req.Job)
	assert.Equal(t, "Prefabricados Sur", req.Customer.Name)
	assert.Equal(t, "2 jornadas · 2 equipos", req.Customer.Period)
	assert.Equal(t, model.Elements{Beams: 14}, req.Customer.Elements)
}

func TestFormParse_CapsDays(t *testing.T) {
	t.Parallel()
	for _, days := range []any{2e18, "1e30", 400} {
		req := Form{Days: days}.Parse()
		assert.Equal(t, model.MaxJobDays, req.Job.Days, "%v", days)
	}
	assert.Equal(t, 12, Form{Days: "012"}.Parse().Job.Days)
}

func TestFormParse_Defaults(t *testing.T) {
	t.Parallel()
	req := Form{WeightT: "abc", RadiusM: nil, Teams: 9, Days: "3"}.Parse()

	assert.Equal(t, ModeCompute, req.Mode)
	assert.Zero(t, req.Job.WeightT)
	assert.Zero(t, req.Job.RadiusM)
	assert.Equal(t, 3, req.Job.Teams)
	assert.Equal(t, 3, req.Job.Days)
	assert.Equal(t, model.ShiftDiurnal, req.Job.Shift)
	assert.Equal(t, "Cliente", req.Customer.Name)
	assert.Equal(t, "1 diurna", req.Customer.Period)
}
