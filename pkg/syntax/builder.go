package syntax

// initialChildCap is the starting capacity for a built node's child slice.
const initialChildCap = 4

// NodeBuilder provides a fluent interface for constructing Node values.
type NodeBuilder struct {
	node *Node
}

// NewBuilder creates a new NodeBuilder.
func NewBuilder(kind Kind) *NodeBuilder {
	return &NodeBuilder{node: &Node{Kind: kind}}
}

// WithName sets the declared identifier.
func (b *NodeBuilder) WithName(name string) *NodeBuilder {
	b.node.Name = name

	return b
}

// WithModifiers sets the declared modifier tokens.
func (b *NodeBuilder) WithModifiers(modifiers ...string) *NodeBuilder {
	b.node.Modifiers = modifiers

	return b
}

// WithSignature sets the canonical signature tokens.
func (b *NodeBuilder) WithSignature(tokens ...string) *NodeBuilder {
	b.node.Signature = tokens

	return b
}

// WithPosition sets the node position.
func (b *NodeBuilder) WithPosition(pos *Positions) *NodeBuilder {
	b.node.Pos = pos

	return b
}

// WithSpan sets a line-level position without byte offsets.
func (b *NodeBuilder) WithSpan(startLine, startCol, endLine, endCol uint) *NodeBuilder {
	b.node.Pos = &Positions{
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   endLine,
		EndCol:    endCol,
	}

	return b
}

// WithText sets the raw source text of the subtree.
func (b *NodeBuilder) WithText(text string) *NodeBuilder {
	b.node.Text = text

	return b
}

// WithChildren appends child nodes in order.
func (b *NodeBuilder) WithChildren(children ...*Node) *NodeBuilder {
	b.node.Children = append(b.node.Children, children...)

	return b
}

// Build returns the constructed node.
func (b *NodeBuilder) Build() *Node {
	if b.node.Children == nil {
		b.node.Children = make([]*Node, 0, initialChildCap)
	}

	return b.node
}
