package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/randlee/structdiff/pkg/diff"
	"github.com/randlee/structdiff/pkg/textdiff"
)

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
               margin: 0; padding: 20px; background: #f5f5f5; }
        .sd-page { max-width: 1250px; margin: 0 auto; }
        .sd-page h1 { text-align: center; color: #333; margin-bottom: 10px; }
        .sd-card { background: white; border-radius: 8px; padding: 20px;
                   margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .sd-changes ul { list-style: none; padding-left: 20px; }
        .sd-changes li { margin: 4px 0; font-family: monospace; font-size: 13px; }
        .sd-impact { border-radius: 4px; padding: 1px 6px; font-size: 11px; color: white; }
        .sd-impact-breaking-public { background: #c62828; }
        .sd-impact-breaking-internal { background: #ef6c00; }
        .sd-impact-non-breaking { background: #607d8b; }
        .sd-impact-formatting-only { background: #9e9e9e; }
        .sd-caveat { color: #795548; font-style: italic; }
        .sd-line-insert { color: #2e7d32; }
        .sd-line-delete { color: #c62828; }
    </style>
</head>
<body>
<div class="sd-page">
<h1>%s</h1>
`

const htmlFooter = `</div>
</body>
</html>
`

// HTML writes the report as a standalone HTML page with an impact-breakdown
// bar chart followed by the change tree.
func HTML(w io.Writer, report *Report) error {
	title := fmt.Sprintf("structdiff: %s → %s", html.EscapeString(report.OldPath), html.EscapeString(report.NewPath))

	_, err := fmt.Fprintf(w, htmlHeader, title, title)
	if err != nil {
		return fmt.Errorf("write html header: %w", err)
	}

	if len(report.Fallback) > 0 {
		writeFallbackSection(w, report.Fallback)
	} else {
		summary := Summarize(report.Changes)

		writeChartSection(w, summary)
		writeChangesSection(w, report.Changes)
	}

	_, err = fmt.Fprint(w, htmlFooter)
	if err != nil {
		return fmt.Errorf("write html footer: %w", err)
	}

	return nil
}

// writeChartSection embeds the impact-breakdown bar chart.
func writeChartSection(w io.Writer, summary Summary) {
	labels := make([]string, 0, len(impactOrder))
	data := make([]opts.BarData, 0, len(impactOrder))

	for _, level := range impactOrder {
		labels = append(labels, level.String())
		data = append(data, opts.BarData{Value: summary.ByImpact[level]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Changes by impact"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("changes", data)

	fmt.Fprint(w, `<div class="sd-card">`)
	fmt.Fprint(w, chartContent(bar))
	fmt.Fprintln(w, `</div>`)
}

// chartContent renders a chart and extracts the embeddable fragment from
// the standalone page go-echarts produces.
func chartContent(chart interface{ Render(io.Writer) error }) string {
	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return ""
	}

	rendered := buf.String()

	start := strings.Index(rendered, `<div class="container">`)
	end := strings.Index(rendered, `</body>`)

	if start == -1 || end == -1 || start >= end {
		return rendered
	}

	return rendered[start:end]
}

func writeChangesSection(w io.Writer, changes []diff.Change) {
	fmt.Fprint(w, `<div class="sd-card sd-changes"><h2>Changes</h2>`)
	writeChangeList(w, changes)
	fmt.Fprintln(w, `</div>`)
}

func writeChangeList(w io.Writer, changes []diff.Change) {
	if len(changes) == 0 {
		return
	}

	fmt.Fprint(w, "<ul>")

	for idx := range changes {
		change := &changes[idx]

		name := change.Name
		if name == "" {
			name = "(anonymous)"
		}

		fmt.Fprintf(w, `<li>%s %s <strong>%s</strong> <span class="sd-impact sd-impact-%s">%s</span>`,
			html.EscapeString(change.Type.String()),
			html.EscapeString(change.Kind.String()),
			html.EscapeString(name),
			change.Impact, change.Impact)

		for _, caveat := range change.Caveats {
			fmt.Fprintf(w, `<div class="sd-caveat">%s</div>`, html.EscapeString(caveat))
		}

		writeChangeList(w, change.Children)

		fmt.Fprint(w, "</li>")
	}

	fmt.Fprint(w, "</ul>")
}

func writeFallbackSection(w io.Writer, lines []textdiff.Line) {
	fmt.Fprint(w, `<div class="sd-card sd-changes"><h2>Line diff (semantic parse unavailable)</h2><ul>`)

	for _, line := range lines {
		class := ""

		switch line.Op {
		case textdiff.Insert:
			class = "sd-line-insert"
		case textdiff.Delete:
			class = "sd-line-delete"
		case textdiff.Equal:
		}

		fmt.Fprintf(w, `<li class="%s">%s</li>`, class, html.EscapeString(line.Text))
	}

	fmt.Fprintln(w, `</ul></div>`)
}
