// Package reconcile maps the curated top-ports reference table onto
// canonical catalog keys. Matching is best-effort record linkage:
// manual override, then exact normalized lookup, then substring fallback.
// Entries that still miss are logged and dropped, never an error.
package reconcile

import (
	"log/slog"
	"strings"

	"github.com/PeterK0/Quintry/internal/catalog"
	"github.com/PeterK0/Quintry/internal/model"
)

// BuiltInListID identifies the reconciled top-ports list.
const BuiltInListID = "top-150"

// Result carries the resolved keys plus diagnostics about misses.
type Result struct {
	PortKeys  []model.PortKey
	Unmatched []string
}

// applyMapping consults the manual override table for a reference entry.
// It returns normalized name/country pairs either way: the mapped values
// when an override exists, the normalized originals otherwise.
func applyMapping(portName, country string) (string, string) {
	key := catalog.Normalize(portName) + "|" + catalog.Normalize(country)
	if mapped, ok := manualMappings[key]; ok {
		if name, c, found := strings.Cut(mapped, "|"); found {
			return name, c
		}
	}
	return catalog.Normalize(portName), catalog.Normalize(country)
}

// Match resolves each reference entry to a catalog port key, in order.
// Per entry: manual mapping substitution, exact lookup under the mapped
// key, exact lookup under the plain normalized key, then a scan of all
// catalog keys in insertion order accepting the first that contains both
// the normalized port-name and country substrings. First occurrence wins
// on every tie. Unmatched entries are dropped from the result.
func Match(items []model.ReferenceListItem, cat *catalog.Catalog) Result {
	var res Result
	for _, item := range items {
		if key, ok := matchOne(item, cat); ok {
			res.PortKeys = append(res.PortKeys, key)
		} else {
			res.Unmatched = append(res.Unmatched, item.PortName+", "+item.Country)
		}
	}
	if len(res.Unmatched) > 0 {
		slog.Warn("reference entries could not be matched against the catalog",
			"count", len(res.Unmatched), "ports", res.Unmatched)
	}
	return res
}

func matchOne(item model.ReferenceListItem, cat *catalog.Catalog) (model.PortKey, bool) {
	mappedName, mappedCountry := applyMapping(item.PortName, item.Country)
	if p, ok := cat.LookupNorm(mappedName + "-" + mappedCountry); ok {
		return p.Key(), true
	}

	// The mapping table may have been unnecessary for this entry.
	searchName := catalog.Normalize(item.PortName)
	searchCountry := catalog.Normalize(item.Country)
	if p, ok := cat.LookupNorm(searchName + "-" + searchCountry); ok {
		return p.Key(), true
	}

	for _, key := range cat.NormKeys() {
		if strings.Contains(key, searchName) && strings.Contains(key, searchCountry) {
			p, _ := cat.LookupNorm(key)
			return p.Key(), true
		}
	}
	return model.PortKey{}, false
}

// BuiltInList reconciles the reference table and wraps the resolved keys
// as the built-in "150 Top Ports" list.
func BuiltInList(items []model.ReferenceListItem, cat *catalog.Catalog) (model.PortList, Result) {
	res := Match(items, cat)
	return model.PortList{
		ID:        BuiltInListID,
		Name:      "150 Top Ports",
		PortKeys:  res.PortKeys,
		IsBuiltIn: true,
	}, res
}
