package diff

import (
	"github.com/randlee/structdiff/pkg/syntax"
)

// Modifier tokens recognized by the visibility extractor.
const (
	modPublic    = "public"
	modProtected = "protected"
	modInternal  = "internal"
	modPrivate   = "private"
)

// accessModifiers is the set of tokens that carry accessibility meaning;
// other modifiers (static, readonly, async, ...) are ignored here.
//
//nolint:gochecknoglobals // Closed lookup table.
var accessModifiers = map[string]bool{
	modPublic:    true,
	modProtected: true,
	modInternal:  true,
	modPrivate:   true,
}

// ExtractVisibility maps a node's declared modifier tokens plus its
// enclosing context to a Visibility. Rules are applied in order:
//
//  1. An explicit accessibility modifier set maps directly.
//  2. Parameters and block-local declarations are Local.
//  3. Members of an interface declaration default to Public.
//  4. A top-level type defaults to Internal.
//  5. Anything else (nested type or member without a modifier) is Private.
//
// Unrecognized modifier combinations fall back to Internal, the
// conservative choice for impact classification.
func ExtractVisibility(node, parent *syntax.Node) Visibility {
	if vis, ok := explicitVisibility(node.Modifiers); ok {
		return vis
	}

	if node.Kind == syntax.KindParameter || node.Kind == syntax.KindLocal {
		return Local
	}

	if parent != nil && parent.Kind == syntax.KindInterface {
		return Public
	}

	if isTopLevelType(node, parent) {
		return Internal
	}

	return Private
}

// explicitVisibility maps an explicit accessibility modifier combination.
// The bool is false when no accessibility token is present.
func explicitVisibility(modifiers []string) (Visibility, bool) {
	var hasPublic, hasProtected, hasInternal, hasPrivate, hasAccess bool

	for _, mod := range modifiers {
		if !accessModifiers[mod] {
			continue
		}

		hasAccess = true

		switch mod {
		case modPublic:
			hasPublic = true
		case modProtected:
			hasProtected = true
		case modInternal:
			hasInternal = true
		case modPrivate:
			hasPrivate = true
		}
	}

	if !hasAccess {
		return Internal, false
	}

	switch {
	case hasPublic && !hasProtected && !hasInternal && !hasPrivate:
		return Public, true
	case hasProtected && hasInternal && !hasPublic && !hasPrivate:
		return ProtectedInternal, true
	case hasPrivate && hasProtected && !hasPublic && !hasInternal:
		return PrivateProtected, true
	case hasProtected && !hasPublic && !hasInternal && !hasPrivate:
		return Protected, true
	case hasInternal && !hasPublic && !hasProtected && !hasPrivate:
		return Internal, true
	case hasPrivate && !hasPublic && !hasProtected && !hasInternal:
		return Private, true
	default:
		// Contradictory combination; classify conservatively.
		return Internal, true
	}
}

// typeKinds are the syntax kinds that declare a type.
//
//nolint:gochecknoglobals // Closed lookup table.
var typeKinds = map[syntax.Kind]bool{
	syntax.KindClass:     true,
	syntax.KindStruct:    true,
	syntax.KindRecord:    true,
	syntax.KindInterface: true,
	syntax.KindEnum:      true,
	syntax.KindDelegate:  true,
}

// isTopLevelType reports whether node is a type declared directly in a file
// or namespace scope.
func isTopLevelType(node, parent *syntax.Node) bool {
	if !typeKinds[node.Kind] {
		return false
	}

	if parent == nil {
		return true
	}

	return parent.Kind == syntax.KindFile || parent.Kind == syntax.KindNamespace
}
