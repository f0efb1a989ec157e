// Package report turns a funnel result into the chart, legend and cost panel
// shown to the user, and writes it in several output formats.
package report

import (
	"strconv"

	"github.com/sells-group/funnel-cli/internal/funnel"
)

// Panel titles and status texts.
const (
	TitleChart      = "Embudo de Ventas"
	TitleCost       = "Análisis de Costos"
	TitleActualCost = "Costo por Venta Actual"
	TitleTargetCost = "Costo por Venta Objetivo"

	StatusBelowTarget = "Por debajo del objetivo"
	StatusAboveTarget = "Por encima del objetivo"

	TrendDown = "down"
	TrendUp   = "up"
)

// Bar is one chart bar with its tooltip.
type Bar struct {
	Name         string      `json:"name" yaml:"name"`
	Total        int64       `json:"total" yaml:"total"`
	TotalDisplay string      `json:"total_display" yaml:"total_display"`
	Rate         string      `json:"rate,omitempty" yaml:"rate,omitempty"`
	RateLabel    string      `json:"rate_label,omitempty" yaml:"rate_label,omitempty"`
	Benchmark    *float64    `json:"benchmark" yaml:"benchmark"`
	Band         funnel.Band `json:"band" yaml:"band"`
	Color        string      `json:"color" yaml:"color"`
	Label        string      `json:"label,omitempty" yaml:"label,omitempty"`
	Tooltip      []string    `json:"tooltip" yaml:"tooltip"`
}

// HasRate reports whether the bar carries a conversion rate.
func (b Bar) HasRate() bool { return b.Rate != "" }

// LegendEntry is one benchmark line under the chart.
type LegendEntry struct {
	Stage string `json:"stage" yaml:"stage"`
	Text  string `json:"text" yaml:"text"`
}

// CostPanel is the cost-per-sale comparison block.
type CostPanel struct {
	Title        string  `json:"title" yaml:"title"`
	ActualTitle  string  `json:"actual_title" yaml:"actual_title"`
	Actual       string  `json:"actual" yaml:"actual"`
	ActualValue  float64 `json:"actual_value" yaml:"actual_value"`
	TargetTitle  string  `json:"target_title" yaml:"target_title"`
	Target       string  `json:"target" yaml:"target"`
	TargetValue  float64 `json:"target_value" yaml:"target_value"`
	WithinTarget bool    `json:"within_target" yaml:"within_target"`
	Status       string  `json:"status" yaml:"status"`
	Trend        string  `json:"trend" yaml:"trend"`
	Delta        string  `json:"delta" yaml:"delta"`
	DeltaValue   float64 `json:"delta_value" yaml:"delta_value"`
	Message      string  `json:"message" yaml:"message"`
}

// Report is everything the presentation layer needs for one calculation.
type Report struct {
	Title   string        `json:"title" yaml:"title"`
	Locale  string        `json:"locale" yaml:"locale"`
	Input   funnel.Input  `json:"input" yaml:"input"`
	BarFill string        `json:"bar_fill" yaml:"bar_fill"`
	Bars    []Bar         `json:"bars" yaml:"bars"`
	Legend  []LegendEntry `json:"legend" yaml:"legend"`
	Cost    CostPanel     `json:"cost" yaml:"cost"`
}

// Build computes the funnel for in and lays out its report with f.
func Build(in funnel.Input, f *funnel.Formatter) Report {
	if f == nil {
		f = funnel.DefaultFormatter()
	}
	return FromResult(in, funnel.Compute(in), f)
}

// FromResult lays out an already computed result.
func FromResult(in funnel.Input, res funnel.Result, f *funnel.Formatter) Report {
	rep := Report{
		Title:   TitleChart,
		Locale:  f.Locale(),
		Input:   in,
		BarFill: funnel.ColorBarFill,
		Bars:    make([]Bar, 0, len(res.Stages)),
		Legend:  Legend(f),
		Cost:    costPanel(res.Cost, f),
	}
	for _, s := range res.Stages {
		rep.Bars = append(rep.Bars, bar(s, f))
	}
	return rep
}

func bar(s funnel.Stage, f *funnel.Formatter) Bar {
	b := Bar{
		Name:         s.Name,
		Total:        s.Total,
		TotalDisplay: f.Number(s.Total),
		Benchmark:    s.Benchmark,
		Band:         s.Band,
		Color:        s.Color(),
		Label:        s.Label(),
		Tooltip:      []string{s.Name, "Total: " + f.Number(s.Total)},
	}
	rate, ok := s.DisplayRate()
	if !ok || s.Benchmark == nil {
		return b
	}
	b.Rate = rate
	b.RateLabel = b.Rate + "%"
	b.Tooltip = append(b.Tooltip,
		"Tasa de conversión: "+b.RateLabel,
		"Benchmark: "+strconv.FormatFloat(*s.Benchmark, 'f', -1, 64)+"%",
		b.Label,
	)
	return b
}

// Legend lists the benchmark of every rated stage.
func Legend(f *funnel.Formatter) []LegendEntry {
	bs := funnel.Benchmarks()
	out := make([]LegendEntry, 0, len(bs))
	for _, b := range bs {
		out = append(out, LegendEntry{
			Stage: b.Stage,
			Text:  "Benchmark " + b.Stage + ": " + f.Percent(b.Rate),
		})
	}
	return out
}

func costPanel(c funnel.CostAnalysis, f *funnel.Formatter) CostPanel {
	p := CostPanel{
		Title:        TitleCost,
		ActualTitle:  TitleActualCost,
		Actual:       f.Currency(c.Actual),
		ActualValue:  c.Actual,
		TargetTitle:  TitleTargetCost,
		Target:       f.Currency(c.Target),
		TargetValue:  c.Target,
		WithinTarget: c.WithinTarget,
		Delta:        f.Currency(c.Delta),
		DeltaValue:   c.Delta,
	}
	if c.WithinTarget {
		p.Status = StatusBelowTarget
		p.Trend = TrendDown
		p.Message = "El costo por venta está " + p.Delta + " por debajo del objetivo."
	} else {
		p.Status = StatusAboveTarget
		p.Trend = TrendUp
		p.Message = "El costo por venta está " + p.Delta + " por encima del objetivo."
	}
	return p
}
