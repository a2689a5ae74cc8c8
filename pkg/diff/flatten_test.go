package diff

import (
	"testing"
)

func sampleForest() []Change {
	return []Change{
		{
			Type: Modified, Kind: SymbolNamespace, Name: "S", Impact: NonBreaking,
			NewLocation: &Location{StartLine: 1},
			Children: []Change{
				{
					Type: Modified, Kind: SymbolType, Name: "C", Impact: NonBreaking,
					NewLocation: &Location{StartLine: 2},
					Children: []Change{
						{Type: Added, Kind: SymbolMethod, Name: "Mul", Impact: BreakingPublicAPI, NewLocation: &Location{StartLine: 5}},
						{Type: Removed, Kind: SymbolField, Name: "count", Impact: BreakingInternalAPI, OldLocation: &Location{StartLine: 7}},
					},
				},
			},
		},
		{Type: Added, Kind: SymbolType, Name: "D", Impact: NonBreaking, NewLocation: &Location{StartLine: 10}},
	}
}

func TestFlatten_PreOrder(t *testing.T) {
	t.Parallel()

	flat := Flatten(sampleForest())

	wantNames := []string{"S", "C", "Mul", "count", "D"}
	if len(flat) != len(wantNames) {
		t.Fatalf("Expected %d changes, got %d", len(wantNames), len(flat))
	}

	for idx, want := range wantNames {
		if flat[idx].Name != want {
			t.Errorf("Position %d: expected %q, got %q", idx, want, flat[idx].Name)
		}
	}
}

func TestFlatten_DoesNotMutate(t *testing.T) {
	t.Parallel()

	forest := sampleForest()

	_ = Flatten(forest)

	if len(forest) != 2 || len(forest[0].Children) != 1 || len(forest[0].Children[0].Children) != 2 {
		t.Fatal("Flatten must not mutate the input forest")
	}
}

func TestCountAll(t *testing.T) {
	t.Parallel()

	if got := CountAll(sampleForest()); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}

	if got := CountAll(nil); got != 0 {
		t.Errorf("Expected 0 for nil forest, got %d", got)
	}
}

func TestFindByName(t *testing.T) {
	t.Parallel()

	found := FindByName(sampleForest(), "Mul")
	if len(found) != 1 || found[0].Kind != SymbolMethod {
		t.Fatalf("Expected single method Mul, got %+v", found)
	}

	if missing := FindByName(sampleForest(), "nope"); len(missing) != 0 {
		t.Errorf("Expected no matches, got %d", len(missing))
	}
}

func TestOfKind(t *testing.T) {
	t.Parallel()

	types := OfKind(sampleForest(), SymbolType)
	if len(types) != 2 {
		t.Fatalf("Expected 2 type changes, got %d", len(types))
	}
}

func TestOfImpactAtLeast(t *testing.T) {
	t.Parallel()

	breaking := OfImpactAtLeast(sampleForest(), BreakingInternalAPI)
	if len(breaking) != 2 {
		t.Fatalf("Expected 2 breaking changes, got %d", len(breaking))
	}

	all := OfImpactAtLeast(sampleForest(), FormattingOnly)
	if len(all) != 5 {
		t.Fatalf("Expected all 5 changes, got %d", len(all))
	}
}
