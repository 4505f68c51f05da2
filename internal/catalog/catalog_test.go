package catalog

import (
	"testing"

	"github.com/PeterK0/Quintry/internal/model"
)

func rec(city, country, state string, lat, lng float64) model.RawPortRecord {
	return model.RawPortRecord{City: city, Country: country, State: state, Latitude: lat, Longitude: lng}
}

func TestBuildDedup(t *testing.T) {
	raw := []model.RawPortRecord{
		rec("Rotterdam", "Netherlands", "", 51.9, 4.5),
		rec("rotterdam", " Netherlands ", "", 51.9, 4.5), // normalizes equal, same coords: dropped
		rec("Portland", "United States", "Oregon", 45.5, -122.6),
		rec("Portland", "United States", "Maine", 43.6, -70.2), // same name, different coords: kept
	}
	cat := Build(raw)

	if cat.Len() != 3 {
		t.Fatalf("expected 3 ports after dedup, got %d", cat.Len())
	}

	// First-seen record wins and ids follow input order.
	ports := cat.Ports()
	if ports[0].Name != "Rotterdam" || ports[0].ID != 1 {
		t.Errorf("expected first port Rotterdam id 1, got %q id %d", ports[0].Name, ports[0].ID)
	}

	// No two retained records share the full dedup key.
	type key struct {
		name, country string
		lat, lng      float64
	}
	seen := make(map[key]bool)
	for _, p := range ports {
		k := key{Normalize(p.Name), Normalize(p.Country), p.Lat, p.Lng}
		if seen[k] {
			t.Errorf("duplicate dedup key retained: %+v", k)
		}
		seen[k] = true
	}
}

func TestBuildCountryAliasAndRegion(t *testing.T) {
	cat := Build([]model.RawPortRecord{
		rec("Long Beach", "United States", "California", 33.7, -118.2),
		rec("Houston", "U.S.A.", "", 29.7, -95.3),
		rec("Hamburg", "Germany", "", 53.5, 10.0),
	})

	ports := cat.Ports()
	if ports[0].Country != "USA" {
		t.Errorf("expected United States folded to USA, got %q", ports[0].Country)
	}
	if ports[0].Region != "California" {
		t.Errorf("expected state as region, got %q", ports[0].Region)
	}
	if ports[1].Region != "USA" {
		t.Errorf("expected country fallback region USA, got %q", ports[1].Region)
	}
	if ports[2].Region != "Germany" {
		t.Errorf("expected country fallback region Germany, got %q", ports[2].Region)
	}
}

func TestLookupNormFirstWins(t *testing.T) {
	cat := Build([]model.RawPortRecord{
		rec("Portland", "USA", "Oregon", 45.5, -122.6),
		rec("Portland", "USA", "Maine", 43.6, -70.2),
	})

	p, ok := cat.LookupNorm("portland-usa")
	if !ok {
		t.Fatal("expected portland-usa in normalized index")
	}
	if p.Region != "Oregon" {
		t.Errorf("expected first occurrence (Oregon) under shared key, got %q", p.Region)
	}
	if len(cat.NormKeys()) != 1 {
		t.Errorf("expected a single normalized key, got %d", len(cat.NormKeys()))
	}
}

func TestCountries(t *testing.T) {
	cat := Build([]model.RawPortRecord{
		rec("Hamburg", "Germany", "", 53.5, 10.0),
		rec("Rotterdam", "Netherlands", "", 51.9, 4.5),
		rec("Bremerhaven", "Germany", "", 53.5, 8.6),
	})

	got := Countries(cat.Ports())
	want := []string{"Germany", "Netherlands"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}
