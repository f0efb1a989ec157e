package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Write.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatXLSX  = "xlsx"
)

// DefaultChartWidth is the widest text bar, in characters.
const DefaultChartWidth = 40

// Formats lists every supported output format.
func Formats() []string {
	return []string{FormatTable, FormatCSV, FormatJSON, FormatYAML, FormatXLSX}
}

// Write renders rep to w in the given stream format. XLSX is file-only; use
// WriteXLSX for it.
func Write(w io.Writer, rep Report, format string, chartWidth int) error {
	switch format {
	case FormatTable:
		return WriteTable(w, rep, chartWidth)
	case FormatCSV:
		return WriteCSV(w, rep)
	case FormatJSON:
		return WriteJSON(w, rep)
	case FormatYAML:
		return WriteYAML(w, rep)
	case FormatXLSX:
		return eris.New("report: xlsx output needs a file path")
	default:
		return eris.Errorf("report: unsupported format %q", format)
	}
}

// WriteTable prints the stage table, a text bar chart, the benchmark legend
// and the cost panel.
func WriteTable(w io.Writer, rep Report, chartWidth int) error {
	if chartWidth <= 0 {
		chartWidth = DefaultChartWidth
	}
	var b strings.Builder

	b.WriteString(rep.Title + "\n\n")
	fmt.Fprintf(&b, "%-10s %12s %9s %10s  %s\n", "Etapa", "Total", "Tasa", "Benchmark", "Desempeño")
	b.WriteString(strings.Repeat("-", 75) + "\n")
	for _, bar := range rep.Bars {
		rate, bench := "-", "-"
		if bar.HasRate() {
			rate = bar.RateLabel
		}
		if bar.Benchmark != nil {
			bench = strconv.FormatFloat(*bar.Benchmark, 'f', -1, 64) + "%"
		}
		fmt.Fprintf(&b, "%-10s %12s %9s %10s  %s\n", bar.Name, bar.TotalDisplay, rate, bench, bar.Label)
	}

	b.WriteString("\n")
	for _, line := range chartLines(rep.Bars, chartWidth) {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	for _, l := range rep.Legend {
		b.WriteString(l.Text + "\n")
	}

	c := rep.Cost
	b.WriteString("\n" + c.Title + "\n")
	fmt.Fprintf(&b, "  %-25s %s\n", c.ActualTitle+":", c.Actual)
	fmt.Fprintf(&b, "  %-25s %s\n", c.TargetTitle+":", c.Target)
	fmt.Fprintf(&b, "  %s (%s)\n", c.Status, c.Trend)
	fmt.Fprintf(&b, "  %s\n", c.Message)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "report: write table")
	}
	return nil
}

// chartLines draws one horizontal bar per stage, scaled to the largest total.
func chartLines(bars []Bar, width int) []string {
	var peak int64
	for _, bar := range bars {
		if bar.Total > peak {
			peak = bar.Total
		}
	}

	lines := make([]string, 0, len(bars))
	for _, bar := range bars {
		n := BarLength(bar.Total, peak, width)
		line := fmt.Sprintf("%-10s %s%s %s", bar.Name, strings.Repeat("█", n), strings.Repeat(" ", width-n), bar.TotalDisplay)
		if bar.HasRate() {
			line += "  " + bar.RateLabel
		}
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return lines
}

// BarLength scales total against peak onto [0, width]. Any non-zero total
// gets at least one unit so it stays visible.
func BarLength(total, peak int64, width int) int {
	if peak <= 0 || total <= 0 || width <= 0 {
		return 0
	}
	n := int(float64(total) / float64(peak) * float64(width))
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return n
}

// WriteCSV writes one row per stage followed by the cost rows.
func WriteCSV(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)

	header := []string{"stage", "total", "rate", "benchmark", "band", "color", "label"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "report: write CSV header")
	}
	for _, bar := range rep.Bars {
		bench := ""
		if bar.Benchmark != nil {
			bench = strconv.FormatFloat(*bar.Benchmark, 'f', -1, 64)
		}
		row := []string{
			bar.Name,
			strconv.FormatInt(bar.Total, 10),
			bar.Rate,
			bench,
			bar.Band.String(),
			bar.Color,
			bar.Label,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write CSV row")
		}
	}

	c := rep.Cost
	costRows := [][]string{
		{"cost_per_sale", strconv.FormatFloat(c.ActualValue, 'f', 2, 64), "", "", "", "", c.Status},
		{"target_cost_per_sale", strconv.FormatFloat(c.TargetValue, 'f', 2, 64), "", "", "", "", ""},
		{"cost_delta", strconv.FormatFloat(c.DeltaValue, 'f', 2, 64), "", "", "", "", c.Message},
	}
	for _, row := range costRows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write CSV cost row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush CSV")
}

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(rep), "report: encode JSON")
}

// WriteYAML writes rep as YAML.
func WriteYAML(w io.Writer, rep Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return eris.Wrap(err, "report: encode YAML")
	}
	return eris.Wrap(enc.Close(), "report: close YAML encoder")
}
