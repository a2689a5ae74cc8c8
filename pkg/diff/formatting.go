package diff

import (
	"github.com/randlee/structdiff/pkg/syntax"
)

// IsFormattingOnly reports whether two renderings differ only in
// whitespace. Absent content on either side is never formatting-only.
func IsFormattingOnly(oldText, newText string) bool {
	if oldText == "" || newText == "" {
		return false
	}

	return syntax.StripWhitespace(oldText) == syntax.StripWhitespace(newText)
}
