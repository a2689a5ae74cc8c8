package parser

import (
	"context"
	"testing"

	"github.com/randlee/structdiff/pkg/syntax"
)

const sampleSource = `namespace Billing {
    public class Invoice {
        private int total;

        public int Add(int amount, int tax) {
            return total + amount + tax;
        }
    }
}
`

func parseSample(t *testing.T) *syntax.Node {
	t.Helper()

	root, err := New().Parse(context.Background(), []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	return root
}

func TestParse_FileStructure(t *testing.T) {
	t.Parallel()

	root := parseSample(t)

	if root.Kind != syntax.KindFile {
		t.Fatalf("Expected File root, got %s", root.Kind)
	}

	namespaces := root.StructuralChildren()
	if len(namespaces) != 1 || namespaces[0].Kind != syntax.KindNamespace {
		t.Fatalf("Expected a single namespace child, got %+v", namespaces)
	}

	if namespaces[0].Name != "Billing" {
		t.Errorf("Expected namespace Billing, got %q", namespaces[0].Name)
	}

	classes := namespaces[0].StructuralChildren()
	if len(classes) != 1 || classes[0].Kind != syntax.KindClass || classes[0].Name != "Invoice" {
		t.Fatalf("Expected class Invoice, got %+v", classes)
	}
}

func TestParse_MemberExtraction(t *testing.T) {
	t.Parallel()

	root := parseSample(t)

	methods := root.Find(func(n *syntax.Node) bool { return n.Kind == syntax.KindMethod })
	if len(methods) != 1 {
		t.Fatalf("Expected 1 method, got %d", len(methods))
	}

	method := methods[0]

	if method.Name != "Add" {
		t.Errorf("Expected method Add, got %q", method.Name)
	}

	wantModifiers := []string{"public"}
	if len(method.Modifiers) != 1 || method.Modifiers[0] != wantModifiers[0] {
		t.Errorf("Expected modifiers %v, got %v", wantModifiers, method.Modifiers)
	}

	// Signature: return type followed by parameter types, no names.
	wantSig := []string{"int", "int", "int"}
	if len(method.Signature) != len(wantSig) {
		t.Fatalf("Expected signature %v, got %v", wantSig, method.Signature)
	}

	for idx, token := range wantSig {
		if method.Signature[idx] != token {
			t.Errorf("Signature token %d: expected %q, got %q", idx, token, method.Signature[idx])
		}
	}

	params := method.StructuralChildren()
	if len(params) != 2 {
		t.Fatalf("Expected 2 parameter children, got %d", len(params))
	}

	if params[0].Name != "amount" || params[1].Name != "tax" {
		t.Errorf("Expected parameters amount, tax; got %q, %q", params[0].Name, params[1].Name)
	}

	fields := root.Find(func(n *syntax.Node) bool { return n.Kind == syntax.KindField })
	if len(fields) != 1 || fields[0].Name != "total" {
		t.Fatalf("Expected field total, got %+v", fields)
	}

	if len(fields[0].Modifiers) != 1 || fields[0].Modifiers[0] != "private" {
		t.Errorf("Expected private field, got %v", fields[0].Modifiers)
	}
}

func TestParse_Positions(t *testing.T) {
	t.Parallel()

	root := parseSample(t)

	namespaces := root.StructuralChildren()
	if namespaces[0].Pos == nil {
		t.Fatal("Expected namespace position")
	}

	if namespaces[0].Pos.StartLine != 1 {
		t.Errorf("Expected namespace on line 1, got %d", namespaces[0].Pos.StartLine)
	}

	if namespaces[0].Pos.StartCol != 1 {
		t.Errorf("Expected 1-based start column, got %d", namespaces[0].Pos.StartCol)
	}
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	p := New()

	first, err := p.Parse(context.Background(), []byte(sampleSource))
	if err != nil {
		t.Fatalf("First parse failed: %v", err)
	}

	second, err := p.Parse(context.Background(), []byte(sampleSource))
	if err != nil {
		t.Fatalf("Second parse failed: %v", err)
	}

	if !first.StructuralEqual(second) {
		t.Error("Two parses of identical input must be structurally equal")
	}
}

func TestParse_FileScopedNamespace(t *testing.T) {
	t.Parallel()

	source := "namespace Billing;\n\npublic class Invoice { }\n"

	root, err := New().Parse(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	namespaces := root.Find(func(n *syntax.Node) bool { return n.Kind == syntax.KindNamespace })
	if len(namespaces) != 1 || namespaces[0].Name != "Billing" {
		t.Fatalf("Expected file-scoped namespace Billing, got %+v", namespaces)
	}
}
