package diff

import (
	"strings"

	"github.com/randlee/structdiff/pkg/syntax"
)

// areEquivalent reports whether two subtrees can be pruned without emitting
// a change. The structural fast path ignores source spans; when it fails and
// the whitespace mode is lenient, a normalized text comparison gets a second
// chance. Used only as a pruning check.
func areEquivalent(oldNode, newNode *syntax.Node, opts Options) bool {
	if oldNode == nil || newNode == nil {
		return oldNode == newNode
	}

	if oldNode.StructuralEqual(newNode) {
		return true
	}

	switch opts.Whitespace {
	case IgnoreLeadingTrailing, IgnoreAll:
		return normalizeText(oldNode.Text, opts) == normalizeText(newNode.Text, opts)
	case Exact, LanguageAware:
		return false
	default:
		return false
	}
}

// normalizeText canonicalizes text for comparison according to the
// whitespace mode and the comment handling option.
func normalizeText(text string, opts Options) string {
	if opts.IgnoreComments {
		text = stripComments(text)
	}

	switch opts.Whitespace {
	case Exact:
		return text
	case IgnoreLeadingTrailing:
		return trimLines(text)
	case IgnoreAll:
		return syntax.StripWhitespace(text)
	case LanguageAware:
		return syntax.CollapseWhitespace(text)
	default:
		return text
	}
}

// trimLines removes leading and trailing whitespace from every line.
func trimLines(text string) string {
	lines := strings.Split(text, "\n")

	for idx, line := range lines {
		lines[idx] = strings.TrimSpace(line)
	}

	return strings.Join(lines, "\n")
}

// stripComments removes // line comments and /* */ block comments. String
// literals are respected so comment markers inside them survive.
func stripComments(text string) string {
	var buf strings.Builder

	buf.Grow(len(text))

	const (
		stateCode = iota
		stateLineComment
		stateBlockComment
		stateString
		stateChar
	)

	state := stateCode

	for idx := 0; idx < len(text); idx++ {
		ch := text[idx]

		switch state {
		case stateCode:
			if ch == '/' && idx+1 < len(text) && text[idx+1] == '/' {
				state = stateLineComment
				idx++

				continue
			}

			if ch == '/' && idx+1 < len(text) && text[idx+1] == '*' {
				state = stateBlockComment
				idx++

				continue
			}

			if ch == '"' {
				state = stateString
			}

			if ch == '\'' {
				state = stateChar
			}

			buf.WriteByte(ch)
		case stateLineComment:
			if ch == '\n' {
				state = stateCode

				buf.WriteByte(ch)
			}
		case stateBlockComment:
			if ch == '*' && idx+1 < len(text) && text[idx+1] == '/' {
				state = stateCode
				idx++
			}
		case stateString:
			if ch == '\\' && idx+1 < len(text) {
				buf.WriteByte(ch)
				buf.WriteByte(text[idx+1])
				idx++

				continue
			}

			if ch == '"' {
				state = stateCode
			}

			buf.WriteByte(ch)
		case stateChar:
			if ch == '\\' && idx+1 < len(text) {
				buf.WriteByte(ch)
				buf.WriteByte(text[idx+1])
				idx++

				continue
			}

			if ch == '\'' {
				state = stateCode
			}

			buf.WriteByte(ch)
		}
	}

	return buf.String()
}
