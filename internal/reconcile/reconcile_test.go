package reconcile

import (
	"testing"

	"github.com/PeterK0/Quintry/internal/catalog"
	"github.com/PeterK0/Quintry/internal/model"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.Build([]model.RawPortRecord{
		{City: "Rotterdam", Country: "Netherlands", Latitude: 51.9, Longitude: 4.5},
		{City: "Geraldton", Country: "Australia", Latitude: -28.8, Longitude: 114.6},
		{City: "Port Hedland", Country: "Australia", Latitude: -20.3, Longitude: 118.6},
		{City: "Hamburg", Country: "Germany", Latitude: 53.5, Longitude: 10.0},
	})
}

func ref(name, country string) model.ReferenceListItem {
	return model.ReferenceListItem{PortName: name, Country: country}
}

func TestMatchExact(t *testing.T) {
	res := Match([]model.ReferenceListItem{ref("Rotterdam", "Netherlands")}, testCatalog(t))
	if len(res.PortKeys) != 1 {
		t.Fatalf("expected 1 match, got %d", len(res.PortKeys))
	}
	want := model.PortKey{Name: "Rotterdam", Country: "Netherlands"}
	if res.PortKeys[0] != want {
		t.Errorf("expected %v, got %v", want, res.PortKeys[0])
	}
}

func TestMatchManualMapping(t *testing.T) {
	// "Geralton" is a reference-table misspelling fixed by the override table.
	res := Match([]model.ReferenceListItem{ref("Geralton", "Australia")}, testCatalog(t))
	if len(res.PortKeys) != 1 {
		t.Fatalf("expected 1 match via manual mapping, got %d (unmatched: %v)", len(res.PortKeys), res.Unmatched)
	}
	want := model.PortKey{Name: "Geraldton", Country: "Australia"}
	if res.PortKeys[0] != want {
		t.Errorf("expected %v, got %v", want, res.PortKeys[0])
	}
}

func TestMatchSubstringFallback(t *testing.T) {
	// "Hedland" is a partial name; only the substring scan can resolve it.
	res := Match([]model.ReferenceListItem{ref("Hedland", "Australia")}, testCatalog(t))
	if len(res.PortKeys) != 1 {
		t.Fatalf("expected 1 match via substring fallback, got %d", len(res.PortKeys))
	}
	if res.PortKeys[0].Name != "Port Hedland" {
		t.Errorf("expected Port Hedland, got %v", res.PortKeys[0])
	}
}

func TestMatchUnmatchedDropped(t *testing.T) {
	items := []model.ReferenceListItem{
		ref("Rotterdam", "Netherlands"),
		ref("Atlantis", "Nowhere"),
		ref("Hamburg", "Germany"),
	}
	res := Match(items, testCatalog(t))
	if len(res.PortKeys) != 2 {
		t.Fatalf("expected 2 matches with the miss dropped, got %d", len(res.PortKeys))
	}
	if len(res.Unmatched) != 1 || res.Unmatched[0] != "Atlantis, Nowhere" {
		t.Errorf("expected one unmatched diagnostic, got %v", res.Unmatched)
	}
}

func TestMatchDeterministic(t *testing.T) {
	cat := testCatalog(t)
	items := []model.ReferenceListItem{
		ref("Geralton", "Australia"),
		ref("Hedland", "Australia"),
		ref("Rotterdam", "Netherlands"),
	}
	first := Match(items, cat)
	second := Match(items, cat)
	if len(first.PortKeys) != len(second.PortKeys) {
		t.Fatalf("match counts differ: %d vs %d", len(first.PortKeys), len(second.PortKeys))
	}
	for i := range first.PortKeys {
		if first.PortKeys[i] != second.PortKeys[i] {
			t.Errorf("position %d differs: %v vs %v", i, first.PortKeys[i], second.PortKeys[i])
		}
	}
}

func TestBuiltInList(t *testing.T) {
	list, res := BuiltInList([]model.ReferenceListItem{
		ref("Rotterdam", "Netherlands"),
		ref("Atlantis", "Nowhere"),
	}, testCatalog(t))

	if list.ID != BuiltInListID || !list.IsBuiltIn {
		t.Errorf("expected built-in list %q, got %+v", BuiltInListID, list)
	}
	if list.Name != "150 Top Ports" {
		t.Errorf("unexpected list name %q", list.Name)
	}
	if len(list.PortKeys) != 1 || len(res.Unmatched) != 1 {
		t.Errorf("expected 1 key and 1 unmatched, got %d and %d", len(list.PortKeys), len(res.Unmatched))
	}
}
