package diff

import (
	"testing"
)

func TestClassify_RenameRows(t *testing.T) {
	t.Parallel()

	impact, caveats := Classify(Renamed, SymbolParameter, Local, false, false)
	if impact != NonBreaking || !containsCaveat(caveats, CaveatParameterRename) {
		t.Errorf("Parameter rename: got %s %v", impact, caveats)
	}

	for _, kind := range []SymbolKind{SymbolField, SymbolProperty, SymbolMethod} {
		impact, caveats = Classify(Renamed, kind, Private, false, false)
		if impact != NonBreaking || !containsCaveat(caveats, CaveatPrivateMemberRename) {
			t.Errorf("Private %s rename: got %s %v", kind, impact, caveats)
		}
	}

	// Private renames of non-member kinds carry no reflection caveat.
	impact, caveats = Classify(Renamed, SymbolType, Private, false, false)
	if impact != NonBreaking || len(caveats) != 0 {
		t.Errorf("Private type rename: got %s %v", impact, caveats)
	}

	impact, _ = Classify(Renamed, SymbolMethod, Public, false, false)
	if impact != BreakingPublicAPI {
		t.Errorf("Public rename: got %s", impact)
	}

	impact, _ = Classify(Renamed, SymbolMethod, Internal, false, false)
	if impact != BreakingInternalAPI {
		t.Errorf("Internal rename: got %s", impact)
	}
}

func TestClassify_MoveRows(t *testing.T) {
	t.Parallel()

	impact, caveats := Classify(Moved, SymbolMethod, Public, false, true)
	if impact != NonBreaking || !containsCaveat(caveats, CaveatSameScopeReorder) {
		t.Errorf("Same-scope move: got %s %v", impact, caveats)
	}

	impact, _ = Classify(Moved, SymbolMethod, Public, false, false)
	if impact != BreakingPublicAPI {
		t.Errorf("Cross-scope public move: got %s", impact)
	}

	impact, _ = Classify(Moved, SymbolMethod, PrivateProtected, false, false)
	if impact != BreakingInternalAPI {
		t.Errorf("Cross-scope internal move: got %s", impact)
	}

	impact, _ = Classify(Moved, SymbolMethod, Private, false, false)
	if impact != NonBreaking {
		t.Errorf("Cross-scope private move: got %s", impact)
	}
}

func TestClassify_ModifiedRows(t *testing.T) {
	t.Parallel()

	impact, _ := Classify(Modified, SymbolMethod, Public, false, false)
	if impact != NonBreaking {
		t.Errorf("Body-only modification: got %s", impact)
	}

	impact, _ = Classify(Modified, SymbolMethod, Public, true, false)
	if impact != BreakingPublicAPI {
		t.Errorf("Public signature change: got %s", impact)
	}

	impact, _ = Classify(Modified, SymbolMethod, Internal, true, false)
	if impact != BreakingInternalAPI {
		t.Errorf("Internal signature change: got %s", impact)
	}

	impact, _ = Classify(Modified, SymbolMethod, Private, true, false)
	if impact != NonBreaking {
		t.Errorf("Private signature change: got %s", impact)
	}
}

func TestClassify_AddedRemovedByVisibility(t *testing.T) {
	t.Parallel()

	for _, changeType := range []ChangeType{Added, Removed} {
		impact, _ := Classify(changeType, SymbolType, Public, false, false)
		if impact != BreakingPublicAPI {
			t.Errorf("%s public: got %s", changeType, impact)
		}

		impact, _ = Classify(changeType, SymbolType, Internal, false, false)
		if impact != BreakingInternalAPI {
			t.Errorf("%s internal: got %s", changeType, impact)
		}

		impact, _ = Classify(changeType, SymbolType, Private, false, false)
		if impact != NonBreaking {
			t.Errorf("%s private: got %s", changeType, impact)
		}
	}
}

// TestClassify_Totality enumerates the full classifier domain: every
// visibility, symbol kind, change type, signature flag, and scope flag must
// produce a defined impact level.
func TestClassify_Totality(t *testing.T) {
	t.Parallel()

	changeTypes := []ChangeType{Added, Removed, Modified, Renamed, Moved}

	for vis := Visibility(0); vis < VisibilityCount; vis++ {
		for kind := SymbolKind(0); kind < SymbolKindCount; kind++ {
			for _, changeType := range changeTypes {
				for _, sigChange := range []bool{false, true} {
					for _, sameScope := range []bool{false, true} {
						impact, caveats := Classify(changeType, kind, vis, sigChange, sameScope)

						if impact < FormattingOnly || impact > BreakingPublicAPI {
							t.Fatalf("Undefined impact for (%s, %s, %s, %t, %t)",
								changeType, kind, vis, sigChange, sameScope)
						}

						for _, caveat := range caveats {
							if caveat == "" {
								t.Fatalf("Empty caveat for (%s, %s, %s, %t, %t)",
									changeType, kind, vis, sigChange, sameScope)
							}
						}
					}
				}
			}
		}
	}
}

func TestImpactLevel_Ordering(t *testing.T) {
	t.Parallel()

	if !(FormattingOnly < NonBreaking && NonBreaking < BreakingInternalAPI && BreakingInternalAPI < BreakingPublicAPI) {
		t.Fatal("Impact levels must order formatting-only < non-breaking < breaking-internal < breaking-public")
	}
}

func TestImpactLevel_StringEncoding(t *testing.T) {
	t.Parallel()

	want := map[ImpactLevel]string{
		FormattingOnly:      "formatting-only",
		NonBreaking:         "non-breaking",
		BreakingInternalAPI: "breaking-internal",
		BreakingPublicAPI:   "breaking-public",
	}

	for level, encoding := range want {
		if level.String() != encoding {
			t.Errorf("Expected %q, got %q", encoding, level.String())
		}

		parsed, err := ParseImpactLevel(encoding)
		if err != nil || parsed != level {
			t.Errorf("Round trip failed for %q: %v %v", encoding, parsed, err)
		}
	}
}
