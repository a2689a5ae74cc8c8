package diff

import (
	"strings"

	"github.com/randlee/structdiff/pkg/syntax"
)

// NodeDescriptor is the transient projection of one syntax node the engine
// works with. It is created on demand and never stored in the change forest;
// only its derived fields propagate into Change values.
type NodeDescriptor struct {
	Kind           SymbolKind
	Name           string
	Signature      string
	HasSignature   bool
	Visibility     Visibility
	Span           Location
	TextNormalized string
}

// symbolKindOf maps a structural syntax kind to its SymbolKind. The bool is
// false for non-structural kinds.
func symbolKindOf(kind syntax.Kind) (SymbolKind, bool) {
	switch kind {
	case syntax.KindFile, syntax.KindNamespace:
		return SymbolNamespace, true
	case syntax.KindClass, syntax.KindStruct, syntax.KindRecord, syntax.KindInterface, syntax.KindEnum:
		return SymbolType, true
	case syntax.KindMethod:
		return SymbolMethod, true
	case syntax.KindConstructor:
		return SymbolConstructor, true
	case syntax.KindProperty:
		return SymbolProperty, true
	case syntax.KindIndexer:
		return SymbolIndexer, true
	case syntax.KindField:
		return SymbolField, true
	case syntax.KindEvent:
		return SymbolEvent, true
	case syntax.KindDelegate:
		return SymbolDelegate, true
	case syntax.KindOperator:
		return SymbolOperator, true
	case syntax.KindEnumMember:
		return SymbolEnumMember, true
	case syntax.KindParameter:
		return SymbolParameter, true
	case syntax.KindLocal:
		return SymbolLocal, true
	default:
		return SymbolLocal, false
	}
}

// describe builds the descriptor for one node. The parent provides the
// context the visibility rules need; path labels the emitted span.
func describe(node, parent *syntax.Node, path string) NodeDescriptor {
	kind, _ := symbolKindOf(node.Kind)

	return NodeDescriptor{
		Kind:           kind,
		Name:           node.Name,
		Signature:      signatureOf(node),
		HasSignature:   node.Signature != nil,
		Visibility:     ExtractVisibility(node, parent),
		Span:           locationOf(node, path),
		TextNormalized: node.NormalizedText(),
	}
}

// signatureOf renders the canonical signature key text. Nodes without a
// signature yield the empty string, which the matcher treats as a distinct
// key component colliding only with other signature-less nodes.
func signatureOf(node *syntax.Node) string {
	if node.Signature == nil {
		return ""
	}

	return "(" + strings.Join(node.Signature, ",") + ")"
}

// locationOf converts a node span to a Location. Nodes without position
// information produce a zero span at the given path.
func locationOf(node *syntax.Node, path string) Location {
	if node.Pos == nil {
		return Location{Path: path}
	}

	return Location{
		Path:      path,
		StartLine: uint32(node.Pos.StartLine),
		EndLine:   uint32(node.Pos.EndLine),
		StartCol:  uint32(node.Pos.StartCol),
	}
}

// structuralChildren extracts the immediate declaration children of a parent
// in source order. Comment nodes never qualify; everything else follows
// Kind.IsStructural. The operation is O(children).
func structuralChildren(parent *syntax.Node) []*syntax.Node {
	if parent == nil {
		return nil
	}

	return parent.StructuralChildren()
}
