package constraint

import (
	"math/rand"
	"testing"
)

func testCatalog() []Lens {
	return []Lens{
		{Name: "alpha", Prompt: "a", Mandatory: true},
		{Name: "bravo", Prompt: "b", Mandatory: true},
		{Name: "charlie", Prompt: "c"},
		{Name: "delta", Prompt: "d"},
		{Name: "echo", Prompt: "e"},
		{Name: "foxtrot", Prompt: "f"},
	}
}

func newTestRegistry(t *testing.T, seed int64) *Registry {
	t.Helper()
	reg, err := NewRegistry(testCatalog(), rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}
	return reg
}

func TestNewRegistryRejectsBadCatalogs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := NewRegistry(nil, rng); err == nil {
		t.Fatal("expected error for empty catalog")
	}
	if _, err := NewRegistry([]Lens{{Name: "x"}, {Name: "x"}}, rng); err == nil {
		t.Fatal("expected error for duplicate lens name")
	}
	if _, err := NewRegistry([]Lens{{Name: " "}}, rng); err == nil {
		t.Fatal("expected error for blank lens name")
	}
	if _, err := NewRegistry(testCatalog(), nil); err == nil {
		t.Fatal("expected error for nil random source")
	}
}

func TestSelectAlwaysIncludesEveryMandatoryLensOnce(t *testing.T) {
	reg := newTestRegistry(t, 7)
	for n := 0; n <= reg.Len()+3; n++ {
		selection := reg.Select(n)
		counts := map[string]int{}
		for _, lens := range selection {
			counts[lens.Name]++
		}
		for name, c := range counts {
			if c != 1 {
				t.Fatalf("n=%d: lens %q selected %d times", n, name, c)
			}
		}
		if counts["alpha"] != 1 || counts["bravo"] != 1 {
			t.Fatalf("n=%d: mandatory lenses missing from selection %v", n, counts)
		}
	}
}

func TestSelectMandatoryPrefixKeepsCatalogOrder(t *testing.T) {
	reg := newTestRegistry(t, 99)
	selection := reg.Select(5)
	if selection[0].Name != "alpha" || selection[1].Name != "bravo" {
		t.Fatalf("mandatory prefix out of order: %q, %q", selection[0].Name, selection[1].Name)
	}
}

func TestSelectBelowMandatoryCountReturnsMandatorySet(t *testing.T) {
	reg := newTestRegistry(t, 3)
	selection := reg.Select(1)
	if len(selection) != 2 {
		t.Fatalf("expected 2 lenses for n=1, got %d", len(selection))
	}
	if selection[0].Name != "alpha" || selection[1].Name != "bravo" {
		t.Fatalf("unexpected mandatory set: %v", selection)
	}
}

func TestSelectClampsToCatalogSize(t *testing.T) {
	reg := newTestRegistry(t, 3)
	selection := reg.Select(50)
	if len(selection) != reg.Len() {
		t.Fatalf("expected selection of %d, got %d", reg.Len(), len(selection))
	}
}

func TestSelectIsDeterministicForASeed(t *testing.T) {
	a := newTestRegistry(t, 42).Select(4)
	b := newTestRegistry(t, 42).Select(4)
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Fatalf("same seed diverged at slot %d: %q vs %q", i, a[i].Name, b[i].Name)
		}
	}
}

func TestSelectVariesOptionalSubsetAcrossDraws(t *testing.T) {
	reg := newTestRegistry(t, 1)
	first := reg.Select(4)
	varied := false
	for i := 0; i < 50 && !varied; i++ {
		next := reg.Select(4)
		for j := 2; j < len(next); j++ {
			if next[j].Name != first[j].Name {
				varied = true
				break
			}
		}
	}
	if !varied {
		t.Fatal("optional tail never varied across 50 draws")
	}
}

func TestBuiltinCatalogInvariants(t *testing.T) {
	catalog := Catalog()
	if len(catalog) != 16 {
		t.Fatalf("expected 16 built-in lenses, got %d", len(catalog))
	}
	mandatory := 0
	for _, lens := range catalog {
		if lens.Prompt == "" {
			t.Fatalf("lens %q has no prompt", lens.Name)
		}
		if lens.Mandatory {
			mandatory++
		}
	}
	if mandatory != 2 {
		t.Fatalf("expected 2 mandatory built-ins, got %d", mandatory)
	}

	// Catalog hands out copies; mutating one must not leak into the next.
	catalog[0].Name = "mutated"
	if Catalog()[0].Name == "mutated" {
		t.Fatal("Catalog returned shared backing storage")
	}
}
