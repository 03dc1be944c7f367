package model

import "strings"

type CraneClass string

const (
	CraneClass60T  CraneClass = "60T"
	CraneClass90T  CraneClass = "90T"
	CraneClass100T CraneClass = "100T"
	CraneClass120T CraneClass = "120T"
	CraneClass150T CraneClass = "150T"
	CraneClass250T CraneClass = "250T"
	CraneClass350T CraneClass = "350T"

	// CraneClassNeedsReview means no catalogued class covers the lift and an
	// engineer has to size the crane after a site visit.
	CraneClassNeedsReview CraneClass = "NEEDS_REVIEW"
)

var craneClassOrder = []CraneClass{
	CraneClass60T,
	CraneClass90T,
	CraneClass100T,
	CraneClass120T,
	CraneClass150T,
	CraneClass250T,
	CraneClass350T,
}

// CraneClasses returns the catalogued classes from smallest to largest.
func CraneClasses() []CraneClass {
	out := make([]CraneClass, len(craneClassOrder))
	copy(out, craneClassOrder)
	return out
}

// Rank is the position of the class in the shared order. NEEDS_REVIEW ranks
// after every catalogued class, unknown values return -1.
func (c CraneClass) Rank() int {
	for i, class := range craneClassOrder {
		if class == c {
			return i
		}
	}
	if c == CraneClassNeedsReview {
		return len(craneClassOrder)
	}
	return -1
}

func (c CraneClass) IsCatalogued() bool {
	return c.Rank() >= 0 && c != CraneClassNeedsReview
}

func (c CraneClass) String() string {
	return string(c)
}

// ParseCraneClass accepts "150T", "150 t", "150" and the review sentinel.
// The second return value is false when the input names no known class.
func ParseCraneClass(raw string) (CraneClass, bool) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	value = strings.ReplaceAll(value, " ", "")
	if value == "" {
		return "", false
	}
	if value == string(CraneClassNeedsReview) {
		return CraneClassNeedsReview, true
	}
	if !strings.HasSuffix(value, "T") {
		value += "T"
	}
	class := CraneClass(value)
	if class.IsCatalogued() {
		return class, true
	}
	return class, false
}
