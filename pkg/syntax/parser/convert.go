package parser

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/randlee/structdiff/pkg/syntax"
)

// declarationKinds maps tree-sitter C# node types to structural syntax kinds.
//
//nolint:gochecknoglobals // Closed grammar mapping table.
var declarationKinds = map[string]syntax.Kind{
	"namespace_declaration":             syntax.KindNamespace,
	"file_scoped_namespace_declaration": syntax.KindNamespace,
	"class_declaration":                 syntax.KindClass,
	"struct_declaration":                syntax.KindStruct,
	"record_declaration":                syntax.KindRecord,
	"record_struct_declaration":         syntax.KindRecord,
	"interface_declaration":             syntax.KindInterface,
	"enum_declaration":                  syntax.KindEnum,
	"method_declaration":                syntax.KindMethod,
	"constructor_declaration":           syntax.KindConstructor,
	"destructor_declaration":            syntax.KindMethod,
	"property_declaration":              syntax.KindProperty,
	"indexer_declaration":               syntax.KindIndexer,
	"field_declaration":                 syntax.KindField,
	"event_field_declaration":           syntax.KindEvent,
	"event_declaration":                 syntax.KindEvent,
	"delegate_declaration":              syntax.KindDelegate,
	"operator_declaration":              syntax.KindOperator,
	"conversion_operator_declaration":   syntax.KindOperator,
	"enum_member_declaration":           syntax.KindEnumMember,
}

// containerKinds hold member declarations inside a body.
//
//nolint:gochecknoglobals // Closed lookup table.
var containerKinds = map[syntax.Kind]bool{
	syntax.KindNamespace: true,
	syntax.KindClass:     true,
	syntax.KindStruct:    true,
	syntax.KindRecord:    true,
	syntax.KindInterface: true,
	syntax.KindEnum:      true,
}

// parameterizedKinds carry a parameter list that becomes Parameter children.
//
//nolint:gochecknoglobals // Closed lookup table.
var parameterizedKinds = map[syntax.Kind]bool{
	syntax.KindMethod:      true,
	syntax.KindConstructor: true,
	syntax.KindIndexer:     true,
	syntax.KindDelegate:    true,
	syntax.KindOperator:    true,
}

// declarationWrappers are grammar nodes that only group declarations.
//
//nolint:gochecknoglobals // Closed lookup table.
var declarationWrappers = map[string]bool{
	"declaration_list":             true,
	"enum_member_declaration_list": true,
}

// converter walks a tree-sitter parse tree and produces syntax nodes.
type converter struct {
	source []byte
}

func (c *converter) convertFile(root sitter.Node) *syntax.Node {
	file := &syntax.Node{
		Kind: syntax.KindFile,
		Pos:  positionsOf(root),
		Text: string(c.source),
	}

	c.appendDeclarations(file, root)

	return file
}

// appendDeclarations converts the declaration children of a grammar node,
// descending through pure grouping wrappers. Comments and other trivia are
// dropped from the structural tree; they remain visible in the raw text.
func (c *converter) appendDeclarations(parent *syntax.Node, tsNode sitter.Node) {
	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		childType := child.Type()

		if kind, ok := declarationKinds[childType]; ok {
			parent.AddChild(c.convertDeclaration(child, kind))

			continue
		}

		if declarationWrappers[childType] {
			c.appendDeclarations(parent, child)
		}
	}
}

func (c *converter) convertDeclaration(tsNode sitter.Node, kind syntax.Kind) *syntax.Node {
	decl := &syntax.Node{
		Kind:      kind,
		Name:      c.declarationName(tsNode, kind),
		Modifiers: c.modifiersOf(tsNode),
		Signature: c.signatureTokens(tsNode, kind),
		Pos:       positionsOf(tsNode),
		Text:      c.textOf(tsNode),
	}

	switch {
	case containerKinds[kind]:
		decl.AddChild(c.headerLeaf(tsNode))
		c.appendDeclarations(decl, tsNode)
	case parameterizedKinds[kind]:
		c.appendParameters(decl, tsNode)
		decl.AddChild(c.bodyLeaf(tsNode))
	case kind == syntax.KindProperty:
		decl.AddChild(c.bodyLeaf(tsNode))
	}

	return decl
}

// declarationName extracts the declared identifier.
func (c *converter) declarationName(tsNode sitter.Node, kind syntax.Kind) string {
	if kind == syntax.KindField || kind == syntax.KindEvent {
		return c.declaratorName(tsNode)
	}

	if name := c.fieldText(tsNode, "name"); name != "" {
		return name
	}

	// Operators declare a symbol, not an identifier.
	if kind == syntax.KindOperator {
		return c.fieldText(tsNode, "operator")
	}

	return ""
}

// declaratorName digs the first variable declarator name out of a field or
// event-field declaration.
func (c *converter) declaratorName(tsNode sitter.Node) string {
	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if child.Type() != "variable_declaration" {
			continue
		}

		for declIdx := range child.NamedChildCount() {
			declarator := child.NamedChild(declIdx)
			if declarator.Type() == "variable_declarator" {
				return c.fieldText(declarator, "name")
			}
		}
	}

	return ""
}

// modifiersOf collects declared modifier tokens in source order.
func (c *converter) modifiersOf(tsNode sitter.Node) []string {
	var modifiers []string

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if child.Type() == "modifier" {
			modifiers = append(modifiers, syntax.CollapseWhitespace(c.textOf(child)))
		}
	}

	return modifiers
}

// signatureTokens renders the canonical signature: the declared type
// followed by the parameter type list, whitespace-collapsed, without
// parameter names or default values. Kinds without a declared surface
// return nil.
func (c *converter) signatureTokens(tsNode sitter.Node, kind syntax.Kind) []string {
	switch kind {
	case syntax.KindMethod, syntax.KindDelegate, syntax.KindOperator:
		tokens := []string{}
		if typeText := c.declaredType(tsNode); typeText != "" {
			tokens = append(tokens, typeText)
		}

		return append(tokens, c.parameterTypes(tsNode)...)
	case syntax.KindConstructor:
		return append([]string{}, c.parameterTypes(tsNode)...)
	case syntax.KindIndexer:
		tokens := []string{}
		if typeText := c.declaredType(tsNode); typeText != "" {
			tokens = append(tokens, typeText)
		}

		return append(tokens, c.parameterTypes(tsNode)...)
	case syntax.KindProperty, syntax.KindField, syntax.KindEvent:
		if typeText := c.declaredType(tsNode); typeText != "" {
			return []string{typeText}
		}

		return []string{}
	default:
		return nil
	}
}

// declaredType extracts the declared (return or value) type text.
func (c *converter) declaredType(tsNode sitter.Node) string {
	if typeText := c.fieldText(tsNode, "type"); typeText != "" {
		return typeText
	}

	// Method declarations carry their return type in the "returns" field.
	if typeText := c.fieldText(tsNode, "returns"); typeText != "" {
		return typeText
	}

	// Field declarations nest the type inside a variable_declaration.
	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if child.Type() == "variable_declaration" {
			return c.fieldText(child, "type")
		}
	}

	return ""
}

// parameterTypes lists the parameter type tokens of a declaration's
// parameter list in order.
func (c *converter) parameterTypes(tsNode sitter.Node) []string {
	paramList := tsNode.ChildByFieldName("parameters")
	if paramList.IsNull() {
		return nil
	}

	var types []string

	for idx := range paramList.NamedChildCount() {
		param := paramList.NamedChild(idx)
		if param.Type() != "parameter" {
			continue
		}

		types = append(types, c.fieldText(param, "type"))
	}

	return types
}

// appendParameters converts the parameter list into Parameter children.
func (c *converter) appendParameters(decl *syntax.Node, tsNode sitter.Node) {
	paramList := tsNode.ChildByFieldName("parameters")
	if paramList.IsNull() {
		return
	}

	for idx := range paramList.NamedChildCount() {
		param := paramList.NamedChild(idx)
		if param.Type() != "parameter" {
			continue
		}

		decl.AddChild(&syntax.Node{
			Kind:      syntax.KindParameter,
			Name:      c.fieldText(param, "name"),
			Signature: []string{c.fieldText(param, "type")},
			Pos:       positionsOf(param),
			Text:      c.textOf(param),
		})
	}
}

// headerLeaf captures a container's declaration header (everything before
// the body) so base-list and constraint edits are visible to the
// structural equality check.
func (c *converter) headerLeaf(tsNode sitter.Node) *syntax.Node {
	start := tsNode.StartByte()
	end := tsNode.EndByte()

	if body := tsNode.ChildByFieldName("body"); !body.IsNull() {
		end = body.StartByte()
	}

	return &syntax.Node{
		Kind: syntax.KindStatement,
		Pos:  positionsOf(tsNode),
		Text: string(c.source[start:end]),
	}
}

// bodyLeaf captures a member's full text as an opaque block; member bodies
// are diffed textually, never structurally.
func (c *converter) bodyLeaf(tsNode sitter.Node) *syntax.Node {
	return &syntax.Node{
		Kind: syntax.KindBlock,
		Pos:  positionsOf(tsNode),
		Text: c.textOf(tsNode),
	}
}

func (c *converter) fieldText(tsNode sitter.Node, field string) string {
	child := tsNode.ChildByFieldName(field)
	if child.IsNull() {
		return ""
	}

	return syntax.CollapseWhitespace(c.textOf(child))
}

func (c *converter) textOf(tsNode sitter.Node) string {
	start := tsNode.StartByte()
	end := tsNode.EndByte()

	if start > end || uint(end) > uint(len(c.source)) {
		return ""
	}

	return string(c.source[start:end])
}

func positionsOf(tsNode sitter.Node) *syntax.Positions {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()

	return &syntax.Positions{
		StartLine:   uint(start.Row) + 1,
		StartCol:    uint(start.Column) + 1,
		StartOffset: uint(tsNode.StartByte()),
		EndLine:     uint(end.Row) + 1,
		EndCol:      uint(end.Column) + 1,
		EndOffset:   uint(tsNode.EndByte()),
	}
}
