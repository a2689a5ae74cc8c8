// Package render turns a change forest into consumer-facing output: JSON
// with stable field names, a colored terminal summary, or an HTML report
// with an impact-breakdown chart.
package render

import (
	"github.com/randlee/structdiff/pkg/diff"
	"github.com/randlee/structdiff/pkg/textdiff"
)

// Report is the renderable result of one comparison.
type Report struct {
	OldPath string        `json:"oldPath"`
	NewPath string        `json:"newPath"`
	Changes []diff.Change `json:"changes"`

	// Fallback holds the textual diff when semantic parsing failed; Changes
	// is empty in that case.
	Fallback []textdiff.Line `json:"fallback,omitempty"`
}

// Summary aggregates the forest for the terminal header and the HTML chart.
type Summary struct {
	Total    int
	ByImpact map[diff.ImpactLevel]int
	ByType   map[diff.ChangeType]int
}

// Summarize counts every change in the forest by impact and change type.
func Summarize(changes []diff.Change) Summary {
	summary := Summary{
		ByImpact: make(map[diff.ImpactLevel]int),
		ByType:   make(map[diff.ChangeType]int),
	}

	for _, change := range diff.Flatten(changes) {
		summary.Total++
		summary.ByImpact[change.Impact]++
		summary.ByType[change.Type]++
	}

	return summary
}

// impactOrder lists impact levels from most to least severe for display.
//
//nolint:gochecknoglobals // Fixed display order.
var impactOrder = []diff.ImpactLevel{
	diff.BreakingPublicAPI,
	diff.BreakingInternalAPI,
	diff.NonBreaking,
	diff.FormattingOnly,
}
