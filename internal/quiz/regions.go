package quiz

import "strings"

// RegionWorld disables regional filtering.
const RegionWorld = "world"

// regionCountries holds the fixed per-region country allow-lists. A port
// belongs to a region when its country name contains one of the entries
// (case-insensitive substring, so "USA" style variants still match).
var regionCountries = map[string][]string{
	"asia": {
		"china", "japan", "south korea", "india", "indonesia", "malaysia",
		"singapore", "thailand", "vietnam", "philippines", "bangladesh",
		"pakistan", "taiwan", "hong kong", "sri lanka", "myanmar", "cambodia",
	},
	"europe": {
		"united kingdom", "france", "germany", "spain", "italy", "netherlands",
		"belgium", "poland", "greece", "portugal", "sweden", "norway",
		"denmark", "finland", "ireland", "romania", "ukraine", "turkey", "russia",
	},
	"americas": {
		"usa", "united states", "u.s.a.", "canada", "mexico", "brazil",
		"argentina", "chile", "colombia", "peru", "venezuela", "ecuador",
		"uruguay", "panama", "costa rica", "dominican republic", "puerto rico",
		"jamaica", "cuba",
	},
	"africa": {
		"south africa", "egypt", "nigeria", "kenya", "morocco", "tanzania",
		"ghana", "algeria", "tunisia", "ethiopia", "libya", "senegal",
		"angola", "mozambique", "cameroon", "ivory coast", "madagascar",
	},
	"oceania": {
		"australia", "new zealand", "papua new guinea", "fiji",
	},
}

// Regions returns the known region names, world excluded.
func Regions() []string {
	return []string{"asia", "europe", "americas", "africa", "oceania"}
}

// countryInRegions reports whether a country belongs to any of the
// selected regions. A selection containing "world" matches everything.
func countryInRegions(country string, regions []string) bool {
	lc := strings.ToLower(country)
	for _, region := range regions {
		if region == RegionWorld {
			return true
		}
		for _, c := range regionCountries[region] {
			if strings.Contains(lc, c) {
				return true
			}
		}
	}
	return false
}
