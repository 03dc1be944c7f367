package model

type Shift string

const (
	ShiftDiurnal          Shift = "DIURNAL"
	ShiftNocturnal        Shift = "NOCTURNAL"
	ShiftNocturnalHoliday Shift = "NOCTURNAL_HOLIDAY"
)

func (s Shift) IsNight() bool {
	return s == ShiftNocturnal || s == ShiftNocturnalHoliday
}

// MaxJobDays bounds the schedule of a single quote. Longer jobs are quoted
// per phase.
const MaxJobDays = 365

// JobRequest carries the already-defaulted job parameters the engine prices.
type JobRequest struct {
	WeightT       float64 `json:"weight_t"`
	RadiusM       float64 `json:"radius_m"`
	City          string  `json:"city"`
	Shift         Shift   `json:"shift"`
	Teams         int     `json:"teams"`
	Days          int     `json:"days"`
	ClassOverride string  `json:"class_override,omitempty"`
}

// Customer identifies who asked for the quote. It only travels to documents
// and notifications, never into pricing.
type Customer struct {
	Name     string `json:"name"`
	Contact  string `json:"contact,omitempty"`
	Email    string `json:"email,omitempty"`
	Site     string `json:"site,omitempty"`
	WorkType string `json:"work_type,omitempty"`

	// Period is the free text the schedule was parsed from, kept for documents.
	Period   string   `json:"period,omitempty"`
	Elements Elements `json:"elements"`
}

// Elements counts the precast pieces to erect. They feed the scope narrative.
type Elements struct {
	Beams        int `json:"beams"`
	FacadePanels int `json:"facade_panels"`
	HollowSlabs  int `json:"hollow_slabs"`
	Columns      int `json:"columns"`
}
