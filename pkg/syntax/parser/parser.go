// Package parser adapts tree-sitter's C# grammar to the canonical syntax
// tree consumed by the diff engine. Parsing is deterministic: two parses of
// identical input produce structurally equal trees.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	c_sharp "github.com/alexaandru/go-sitter-forest/c_sharp"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/randlee/structdiff/pkg/syntax"
)

// Sentinel errors for parser operations.
var (
	errNoRootNode = errors.New("parse produced no root node")
	errPoolType   = errors.New("parser pool returned unexpected type")

	// ErrParseFailed indicates tree-sitter could not produce a tree.
	ErrParseFailed = errors.New("parse failed")
)

// Parser converts C# source into syntax trees. It is safe for concurrent
// use; tree-sitter parsers are pooled per instance.
type Parser struct {
	language *sitter.Language
	pool     sync.Pool
}

// New creates a Parser backed by the tree-sitter C# grammar.
func New() *Parser {
	lang := sitter.NewLanguage(c_sharp.GetLanguage())

	p := &Parser{language: lang}

	p.pool = sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	return p
}

// Parse parses source content into a syntax tree rooted at a File node.
// Inputs that tree-sitter cannot recover a tree from return an error; the
// caller decides whether to fall back to a textual diff.
func (p *Parser) Parse(ctx context.Context, content []byte) (*syntax.Node, error) {
	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	conv := &converter{source: content}

	fileNode := conv.convertFile(root)

	return fileNode, nil
}
