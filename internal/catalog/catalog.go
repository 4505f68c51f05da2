package catalog

import (
	"sort"

	"github.com/PeterK0/Quintry/internal/model"
)

// Catalog is the deduplicated canonical set of ports derived from the raw
// dataset. Construction is the only creation point; ports are never
// mutated afterwards.
type Catalog struct {
	ports []model.Port

	// byNormKey maps "normalize(name)-normalize(country)" to the first
	// port inserted under that key. normKeys preserves insertion order so
	// substring-fallback scans during reconciliation stay deterministic.
	byNormKey map[string]model.Port
	normKeys  []string
}

// NormKey builds the normalized lookup key used for record linkage.
func NormKey(name, country string) string {
	return Normalize(name) + "-" + Normalize(country)
}

// Build converts the raw dataset into a catalog of canonical ports with
// sequential 1-based ids in input order. Two rows are the same port only
// if names and countries normalize equal AND coordinates are identical;
// distinct ports sharing a name in different locations both survive.
// On duplicate the first-seen record wins.
func Build(raw []model.RawPortRecord) *Catalog {
	c := &Catalog{byNormKey: make(map[string]model.Port)}
	seen := make(map[dedupKey]bool, len(raw))

	for i, rec := range raw {
		country := CanonicalCountry(rec.Country)
		dk := dedupKey{
			name:    Normalize(rec.City),
			country: Normalize(country),
			lat:     rec.Latitude,
			lng:     rec.Longitude,
		}
		if seen[dk] {
			continue
		}
		seen[dk] = true

		region := rec.State
		if region == "" {
			region = country
		}
		p := model.Port{
			ID:      i + 1,
			Name:    rec.City,
			Country: country,
			Region:  region,
			Lat:     rec.Latitude,
			Lng:     rec.Longitude,
		}
		c.ports = append(c.ports, p)

		nk := dk.name + "-" + dk.country
		if _, ok := c.byNormKey[nk]; !ok {
			c.byNormKey[nk] = p
			c.normKeys = append(c.normKeys, nk)
		}
	}
	return c
}

type dedupKey struct {
	name    string
	country string
	lat     float64
	lng     float64
}

// Ports returns all catalog ports in dataset order. The returned slice is
// shared; callers must not modify it.
func (c *Catalog) Ports() []model.Port {
	return c.ports
}

// Len returns the number of canonical ports.
func (c *Catalog) Len() int {
	return len(c.ports)
}

// LookupNorm returns the first port inserted under the given normalized
// "name-country" key.
func (c *Catalog) LookupNorm(key string) (model.Port, bool) {
	p, ok := c.byNormKey[key]
	return p, ok
}

// NormKeys returns all normalized keys in insertion order.
func (c *Catalog) NormKeys() []string {
	return c.normKeys
}

// Countries returns the sorted distinct countries present in the given
// ports. Used to recompute the offerable country set after list and
// region filtering.
func Countries(ports []model.Port) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range ports {
		if !seen[p.Country] {
			seen[p.Country] = true
			out = append(out, p.Country)
		}
	}
	sort.Strings(out)
	return out
}
