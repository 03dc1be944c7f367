package capacity

import "github.com/nurpe/liftquote/internal/model"

func curve(pairs ...float64) Curve {
	out := make(Curve, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Point{RadiusM: pairs[i], LoadT: pairs[i+1]})
	}
	return out
}

// DefaultCurves are conservative readings of the manufacturer charts.
func DefaultCurves() map[model.CraneClass]Curve {
	return map[model.CraneClass]Curve{
		model.CraneClass60T:  curve(10, 18, 12, 14, 14, 11, 16, 9, 18, 7, 20, 6, 22, 5, 24, 4, 26, 3.5, 28, 3.0, 30, 2.5, 35, 1.8, 40, 1.2),
		model.CraneClass90T:  curve(10, 28, 12, 22, 14, 18, 16, 15, 18, 12, 20, 10, 22, 8.5, 24, 7.5, 26, 6.5, 28, 5.8, 30, 5.0, 35, 3.5, 40, 2.5),
		model.CraneClass100T: curve(10, 32, 12, 26, 14, 22, 16, 18, 18, 15, 20, 13, 22, 11, 24, 9.5, 26, 8.5, 28, 7.5, 30, 6.5, 35, 4.5, 40, 3.2),
		model.CraneClass120T: curve(10, 40, 12, 32, 14, 28, 16, 24, 18, 20, 20, 17, 22, 15, 24, 13, 26, 11.5, 28, 10, 30, 9, 35, 6.2, 40, 4.5),
		model.CraneClass150T: curve(10, 48, 12, 40, 14, 34, 16, 30, 18, 26, 20, 22, 22, 19, 24, 17, 26, 15, 28, 13.5, 30, 12, 35, 8.5, 40, 6.0),
		model.CraneClass250T: curve(10, 70, 12, 60, 14, 52, 16, 46, 18, 40, 20, 35, 22, 31, 24, 28, 26, 26, 28, 23, 30, 21, 35, 16, 40, 12),
		model.CraneClass350T: curve(10, 90, 12, 80, 14, 70, 16, 62, 18, 55, 20, 49, 22, 44, 24, 40, 26, 37, 28, 34, 30, 31, 35, 24, 40, 18),
	}
}

// DefaultTable panics only if the built-in charts are inconsistent.
func DefaultTable() *Table {
	t, err := NewTable(DefaultCurves())
	if err != nil {
		panic(err)
	}
	return t
}
