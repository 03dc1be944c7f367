package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ResolveCity maps free text to a catalog key. It tries an exact name match,
// then the prefixes and keywords of each city in catalog order. Empty or
// unrecognised input resolves to the fallback city.
func (c *Catalog) ResolveCity(raw string) string {
	text := fold(raw)
	if text == "" {
		return c.fallback
	}
	for _, name := range c.order {
		if fold(name) == text {
			return name
		}
	}
	for _, name := range c.order {
		rate := c.cities[name]
		for _, prefix := range rate.Prefixes {
			if strings.HasPrefix(text, fold(prefix)) {
				return name
			}
		}
		for _, keyword := range rate.Keywords {
			if strings.Contains(text, fold(keyword)) {
				return name
			}
		}
	}
	return c.fallback
}

// fold lower-cases and strips accents so "Castellón" matches "castellon".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return strings.ToLower(out)
}
