// Package estimate prices a heavy-lift job: it picks the crane class, finds
// the supplying city, costs crane, crew and transport coordination, applies
// the markups and VAT and lays the result out as quote lines.
//
// All money is shopspring decimal and is rounded to cents where it is
// computed, never later.
package estimate
