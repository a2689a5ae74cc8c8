package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/randlee/structdiff/pkg/diff"
	"github.com/randlee/structdiff/pkg/textdiff"
)

// indentStep is the per-level indent of the change tree.
const indentStep = "  "

// TerminalRenderer writes human-readable output.
type TerminalRenderer struct {
	// NoColor disables ANSI coloring.
	NoColor bool
}

// Render writes the summary table followed by the change tree.
func (tr *TerminalRenderer) Render(w io.Writer, report *Report) error {
	if len(report.Fallback) > 0 {
		return tr.renderFallback(w, report)
	}

	summary := Summarize(report.Changes)

	if summary.Total == 0 {
		_, err := fmt.Fprintf(w, "no changes between %s and %s\n", report.OldPath, report.NewPath)

		return err //nolint:wrapcheck // io error surfaces unchanged.
	}

	tr.renderSummary(w, report, summary)

	fmt.Fprintln(w)

	for idx := range report.Changes {
		tr.renderChange(w, &report.Changes[idx], 0)
	}

	return nil
}

func (tr *TerminalRenderer) renderSummary(w io.Writer, report *Report, summary Summary) {
	fmt.Fprintf(w, "%s -> %s: %s\n\n",
		report.OldPath, report.NewPath,
		humanize.Comma(int64(summary.Total))+" change(s)")

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendHeader(table.Row{"impact", "count"})

	for _, level := range impactOrder {
		count := summary.ByImpact[level]
		if count == 0 {
			continue
		}

		tbl.AppendRow(table.Row{tr.colorImpact(level), count})
	}

	tbl.Render()
}

func (tr *TerminalRenderer) renderChange(w io.Writer, change *diff.Change, depth int) {
	indent := strings.Repeat(indentStep, depth)

	line := fmt.Sprintf("%s%s %s %s", indent, tr.marker(change.Type), change.Kind, changeLabel(change))
	if change.Impact != diff.NonBreaking || len(change.Children) == 0 {
		line += " [" + tr.colorImpact(change.Impact) + "]"
	}

	fmt.Fprintln(w, line)

	for _, caveat := range change.Caveats {
		fmt.Fprintf(w, "%s%s! %s\n", indent, indentStep, caveat)
	}

	for idx := range change.Children {
		tr.renderChange(w, &change.Children[idx], depth+1)
	}
}

func (tr *TerminalRenderer) renderFallback(w io.Writer, report *Report) error {
	fmt.Fprintf(w, "semantic parse unavailable; line diff of %s -> %s\n", report.OldPath, report.NewPath)

	for _, line := range report.Fallback {
		switch line.Op {
		case textdiff.Insert:
			fmt.Fprintln(w, tr.paint(color.FgGreen, "+"+line.Text))
		case textdiff.Delete:
			fmt.Fprintln(w, tr.paint(color.FgRed, "-"+line.Text))
		case textdiff.Equal:
			fmt.Fprintln(w, " "+line.Text)
		}
	}

	return nil
}

// changeLabel names a change; a rename is labelled "-> NEW" with the new name
// only, and the old name is not shown.
func changeLabel(change *diff.Change) string {
	name := change.Name
	if name == "" {
		name = "(anonymous)"
	}

	if change.Type == diff.Renamed && change.OldContent != "" {
		return fmt.Sprintf("-> %s", name)
	}

	loc := change.NewLocation
	if loc == nil {
		loc = change.OldLocation
	}

	if loc != nil && loc.StartLine > 0 {
		return fmt.Sprintf("%s (line %d)", name, loc.StartLine)
	}

	return name
}

func (tr *TerminalRenderer) marker(changeType diff.ChangeType) string {
	switch changeType {
	case diff.Added:
		return tr.paint(color.FgGreen, "+")
	case diff.Removed:
		return tr.paint(color.FgRed, "-")
	case diff.Renamed:
		return tr.paint(color.FgYellow, "~")
	case diff.Moved:
		return tr.paint(color.FgCyan, ">")
	case diff.Modified, diff.Unchanged:
		return tr.paint(color.FgYellow, "*")
	default:
		return "?"
	}
}

func (tr *TerminalRenderer) colorImpact(level diff.ImpactLevel) string {
	switch level {
	case diff.BreakingPublicAPI:
		return tr.paint(color.FgRed, level.String())
	case diff.BreakingInternalAPI:
		return tr.paint(color.FgYellow, level.String())
	case diff.NonBreaking, diff.FormattingOnly:
		return tr.paint(color.FgHiBlack, level.String())
	default:
		return level.String()
	}
}

func (tr *TerminalRenderer) paint(attr color.Attribute, text string) string {
	if tr.NoColor {
		return text
	}

	return color.New(attr).Sprint(text)
}
