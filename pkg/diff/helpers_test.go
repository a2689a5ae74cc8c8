package diff

import (
	"strings"

	"github.com/randlee/structdiff/pkg/syntax"
)

// Test tree builders. Text is assembled bottom-up so a parent's text always
// contains its children's text, matching what a real parser produces.

func fileNode(children ...*syntax.Node) *syntax.Node {
	texts := make([]string, 0, len(children))
	for _, child := range children {
		texts = append(texts, child.Text)
	}

	endLine := uint(1)
	if len(children) > 0 {
		last := children[len(children)-1]
		if last.Pos != nil {
			endLine = last.Pos.EndLine
		}
	}

	return &syntax.Node{
		Kind:     syntax.KindFile,
		Pos:      &syntax.Positions{StartLine: 1, StartCol: 1, EndLine: endLine, EndCol: 1},
		Text:     strings.Join(texts, "\n"),
		Children: children,
	}
}

func nsNode(name string, line uint, children ...*syntax.Node) *syntax.Node {
	return containerNode(syntax.KindNamespace, name, nil, line, "namespace "+name+" {", children)
}

func classNode(name string, modifiers []string, line uint, children ...*syntax.Node) *syntax.Node {
	header := strings.TrimSpace(strings.Join(modifiers, " ") + " class " + name + " {")

	return containerNode(syntax.KindClass, name, modifiers, line, header, children)
}

func interfaceNode(name string, modifiers []string, line uint, children ...*syntax.Node) *syntax.Node {
	header := strings.TrimSpace(strings.Join(modifiers, " ") + " interface " + name + " {")

	return containerNode(syntax.KindInterface, name, modifiers, line, header, children)
}

func containerNode(kind syntax.Kind, name string, modifiers []string, line uint, header string, children []*syntax.Node) *syntax.Node {
	texts := []string{header}
	for _, child := range children {
		texts = append(texts, child.Text)
	}

	texts = append(texts, "}")

	endLine := line + 1
	if len(children) > 0 {
		last := children[len(children)-1]
		if last.Pos != nil {
			endLine = last.Pos.EndLine + 1
		}
	}

	node := &syntax.Node{
		Kind:      kind,
		Name:      name,
		Modifiers: modifiers,
		Pos:       &syntax.Positions{StartLine: line, StartCol: 1, EndLine: endLine, EndCol: 1},
		Text:      strings.Join(texts, "\n"),
	}

	node.AddChild(&syntax.Node{
		Kind: syntax.KindStatement,
		Pos:  &syntax.Positions{StartLine: line, StartCol: 1, EndLine: line, EndCol: 1},
		Text: header,
	})

	for _, child := range children {
		node.AddChild(child)
	}

	return node
}

// param is a (type, name) pair of one method parameter.
type param struct {
	typ  string
	name string
}

func methodNode(name, returnType string, modifiers []string, params []param, body string, line uint) *syntax.Node {
	sig := []string{}
	if returnType != "" {
		sig = append(sig, returnType)
	}

	paramTexts := make([]string, 0, len(params))
	for _, p := range params {
		sig = append(sig, p.typ)
		paramTexts = append(paramTexts, p.typ+" "+p.name)
	}

	text := strings.TrimSpace(strings.Join(modifiers, " ") + " " + returnType + " " + name +
		"(" + strings.Join(paramTexts, ", ") + ") " + body)

	node := &syntax.Node{
		Kind:      syntax.KindMethod,
		Name:      name,
		Modifiers: modifiers,
		Signature: sig,
		Pos:       &syntax.Positions{StartLine: line, StartCol: 1, EndLine: line, EndCol: 1},
		Text:      text,
	}

	for idx, p := range params {
		node.AddChild(&syntax.Node{
			Kind:      syntax.KindParameter,
			Name:      p.name,
			Signature: []string{p.typ},
			Pos:       &syntax.Positions{StartLine: line, StartCol: uint(10 + idx), EndLine: line, EndCol: uint(10 + idx)},
			Text:      p.typ + " " + p.name,
		})
	}

	node.AddChild(&syntax.Node{
		Kind: syntax.KindBlock,
		Pos:  &syntax.Positions{StartLine: line, StartCol: 1, EndLine: line, EndCol: 1},
		Text: text,
	})

	return node
}

func fieldNode(name, fieldType string, modifiers []string, line uint) *syntax.Node {
	text := strings.TrimSpace(strings.Join(modifiers, " ") + " " + fieldType + " " + name + ";")

	return &syntax.Node{
		Kind:      syntax.KindField,
		Name:      name,
		Modifiers: modifiers,
		Signature: []string{fieldType},
		Pos:       &syntax.Positions{StartLine: line, StartCol: 1, EndLine: line, EndCol: 1},
		Text:      text,
	}
}

// collectByType flattens a forest and selects changes of one type.
func collectByType(changes []Change, changeType ChangeType) []Change {
	var out []Change

	for _, change := range Flatten(changes) {
		if change.Type == changeType {
			out = append(out, change)
		}
	}

	return out
}
