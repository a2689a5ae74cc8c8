package diff

import (
	"testing"

	"github.com/randlee/structdiff/pkg/syntax"
)

func TestMatchSiblings_PairsByIdentity(t *testing.T) {
	t.Parallel()

	oldKids := []*syntax.Node{
		methodNode("A", "int", nil, []param{{"int", "x"}}, "{ return 1; }", 1),
		methodNode("B", "int", nil, []param{{"int", "x"}}, "{ return 2; }", 2),
		fieldNode("count", "int", nil, 3),
	}

	newKids := []*syntax.Node{
		fieldNode("count", "int", nil, 1),
		methodNode("B", "int", nil, []param{{"int", "x"}}, "{ return 2; }", 2),
		methodNode("A", "int", nil, []param{{"int", "x"}}, "{ return 1; }", 3),
	}

	result := matchSiblings(oldKids, newKids)

	if len(result.matched) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(result.matched))
	}

	if len(result.unmatchedOld) != 0 || len(result.unmatchedNew) != 0 {
		t.Fatalf("Expected no unmatched, got %d old and %d new",
			len(result.unmatchedOld), len(result.unmatchedNew))
	}

	// A matched to position 2, B to 1, count to 0.
	want := map[int]int{0: 2, 1: 1, 2: 0}
	for _, pair := range result.matched {
		if want[pair[0]] != pair[1] {
			t.Errorf("Old %d matched to %d, want %d", pair[0], pair[1], want[pair[0]])
		}
	}
}

func TestMatchSiblings_OverloadsPairInSourceOrder(t *testing.T) {
	t.Parallel()

	overload := func(line uint) *syntax.Node {
		return methodNode("M", "void", nil, []param{{"int", "x"}}, "{ Work(); }", line)
	}

	oldKids := []*syntax.Node{overload(1), overload(2)}
	newKids := []*syntax.Node{overload(5), overload(6)}

	result := matchSiblings(oldKids, newKids)

	if len(result.matched) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(result.matched))
	}

	if result.matched[0] != [2]int{0, 0} || result.matched[1] != [2]int{1, 1} {
		t.Errorf("Overloads must pair in source order, got %v", result.matched)
	}
}

func TestMatchSiblings_SignatureSeparatesOverloads(t *testing.T) {
	t.Parallel()

	oldKids := []*syntax.Node{
		methodNode("M", "void", nil, []param{{"int", "x"}}, "{}", 1),
	}

	newKids := []*syntax.Node{
		methodNode("M", "void", nil, []param{{"string", "x"}}, "{}", 1),
	}

	result := matchSiblings(oldKids, newKids)

	if len(result.matched) != 0 {
		t.Fatalf("Different signatures must not match, got %d matches", len(result.matched))
	}

	if len(result.unmatchedOld) != 1 || len(result.unmatchedNew) != 1 {
		t.Fatalf("Expected 1 unmatched on each side, got %d and %d",
			len(result.unmatchedOld), len(result.unmatchedNew))
	}
}

func TestMatchSiblings_NilSignatureCollidesOnlyWithNil(t *testing.T) {
	t.Parallel()

	// A nil signature and an empty (but present) signature are distinct key
	// components even under the same name and kind.
	oldKids := []*syntax.Node{
		{Kind: syntax.KindMethod, Name: "X", Signature: nil, Text: "X"},
	}

	newKids := []*syntax.Node{
		{Kind: syntax.KindMethod, Name: "X", Signature: []string{}, Text: "X"},
	}

	result := matchSiblings(oldKids, newKids)

	if len(result.matched) != 0 {
		t.Fatalf("Nil signature must not collide with empty signature, got %d matches", len(result.matched))
	}
}

func TestMatchSiblings_Empty(t *testing.T) {
	t.Parallel()

	result := matchSiblings(nil, nil)

	if len(result.matched) != 0 || len(result.unmatchedOld) != 0 || len(result.unmatchedNew) != 0 {
		t.Fatal("Empty inputs must produce empty result")
	}
}

func TestMatchedRanks_DetectsReorder(t *testing.T) {
	t.Parallel()

	result := matchResult{matched: [][2]int{{0, 1}, {1, 2}, {2, 0}}}

	oldRanks, newRanks := matchedRanks(result)

	if oldRanks[0] == newRanks[1] {
		t.Error("Pair (0,1) must have different ranks")
	}

	if oldRanks[2] == newRanks[0] {
		t.Error("Pair (2,0) must have different ranks")
	}
}
