package catalog

import "strings"

// countryAliases folds dataset spellings onto the convention used by the
// curated reference table. Applied at catalog construction so every
// downstream country comparison sees a single spelling.
var countryAliases = map[string]string{
	"United States": "USA",
	"U.S.A.":        "USA",
}

// Normalize canonicalizes a free-text port or country name for matching:
// lower-case, trimmed, internal whitespace collapsed, everything outside
// [a-z0-9 ] stripped. Idempotent; two names are "the same" iff their
// normalized forms are equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			space = true
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalCountry trims a country name and resolves known aliases.
func CanonicalCountry(country string) string {
	c := strings.TrimSpace(country)
	if alias, ok := countryAliases[c]; ok {
		return alias
	}
	return c
}
