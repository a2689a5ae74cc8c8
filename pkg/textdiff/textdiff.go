// Package textdiff provides the line-based textual diff used as a fallback
// when semantic parsing of an input fails.
package textdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of one diff line.
type Op int

// Diff line operations.
const (
	Equal Op = iota
	Insert
	Delete
)

func (op Op) String() string {
	switch op {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Line is one line of a textual diff.
type Line struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Compare produces a line-level diff of two texts.
func Compare(oldText, newText string) []Line {
	dmp := diffmatchpatch.New()

	oldRunes, newRunes, lineIndex := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(oldRunes, newRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineIndex)

	var out []Line

	for _, d := range diffs {
		op := opOf(d.Type)

		for _, line := range splitLines(d.Text) {
			out = append(out, Line{Op: op, Text: line})
		}
	}

	return out
}

func opOf(t diffmatchpatch.Operation) Op {
	switch t {
	case diffmatchpatch.DiffInsert:
		return Insert
	case diffmatchpatch.DiffDelete:
		return Delete
	case diffmatchpatch.DiffEqual:
		return Equal
	default:
		return Equal
	}
}

// splitLines splits diff text into lines, dropping the trailing empty
// fragment a final newline produces.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// Unified renders a diff in a minimal unified format.
func Unified(oldPath, newPath string, lines []Line) string {
	var buf strings.Builder

	buf.WriteString("--- " + oldPath + "\n")
	buf.WriteString("+++ " + newPath + "\n")

	for _, line := range lines {
		switch line.Op {
		case Insert:
			buf.WriteString("+")
		case Delete:
			buf.WriteString("-")
		case Equal:
			buf.WriteString(" ")
		}

		buf.WriteString(line.Text)
		buf.WriteString("\n")
	}

	return buf.String()
}

// HasChanges reports whether the diff contains any non-equal line.
func HasChanges(lines []Line) bool {
	for _, line := range lines {
		if line.Op != Equal {
			return true
		}
	}

	return false
}
