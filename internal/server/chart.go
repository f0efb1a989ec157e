package server

import (
	"html/template"
	"strings"

	"github.com/sells-group/funnel-cli/internal/funnel"
	"github.com/sells-group/funnel-cli/internal/report"
)

// SVG canvas geometry for the page chart.
const (
	chartWidth   = 600
	chartHeight  = 320
	chartTop     = 30
	chartBottom  = 40
	chartLeft    = 90
	chartGap     = 24
	chartPadding = 20
	chartTicks   = 4
)

type svgBar struct {
	Name                string
	X, Y, Width, Height int
	CenterX             int
	LabelY              int
	NameY               int
	Fill                string
	RateLabel           string
	RateColor           string
	Tooltip             string
}

// svgTick is one Y-axis value with its grid line.
type svgTick struct {
	Y      int
	LabelX int
	Label  string
}

type svgChart struct {
	Width, Height int
	Left          int
	Baseline      int
	Ticks         []svgTick
	Bars          []svgBar
}

// layoutChart places one vertical bar per stage, scaled to the tallest total,
// with an evenly spaced Y axis labelled by f.
func layoutChart(rep report.Report, f *funnel.Formatter) svgChart {
	c := svgChart{
		Width:    chartWidth,
		Height:   chartHeight,
		Left:     chartLeft,
		Baseline: chartHeight - chartBottom,
	}
	if len(rep.Bars) == 0 {
		return c
	}

	var peak int64
	for _, b := range rep.Bars {
		if b.Total > peak {
			peak = b.Total
		}
	}

	plot := c.Baseline - chartTop
	c.Ticks = axisTicks(peak, c.Baseline, plot, f)

	slot := (chartWidth - chartLeft - chartPadding) / len(rep.Bars)
	barWidth := slot - chartGap

	for i, b := range rep.Bars {
		h := 0
		if peak > 0 {
			h = int(float64(b.Total) / float64(peak) * float64(plot))
		}
		x := chartLeft + i*slot + chartGap/2
		sb := svgBar{
			Name:      b.Name,
			X:         x,
			Y:         c.Baseline - h,
			Width:     barWidth,
			Height:    h,
			CenterX:   x + barWidth/2,
			LabelY:    c.Baseline - h - 8,
			NameY:     c.Baseline + 18,
			Fill:      rep.BarFill,
			RateLabel: b.RateLabel,
			RateColor: b.Color,
			Tooltip:   strings.Join(b.Tooltip, "\n"),
		}
		c.Bars = append(c.Bars, sb)
	}
	return c
}

// axisTicks splits [0, peak] into chartTicks steps. An all-zero chart gets
// the zero tick only.
func axisTicks(peak int64, baseline, plot int, f *funnel.Formatter) []svgTick {
	n := chartTicks
	if peak <= 0 {
		n = 0
	}
	// Split peak as q*chartTicks + r so large totals never overflow.
	q, r := peak/chartTicks, peak%chartTicks

	ticks := make([]svgTick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := q*int64(i) + r*int64(i)/chartTicks
		ticks = append(ticks, svgTick{
			Y:      baseline - plot*i/chartTicks,
			LabelX: chartLeft - 8,
			Label:  f.Number(v),
		})
	}
	return ticks
}

var templateFuncs = template.FuncMap{
	"trendArrow": trendArrow,
}

func trendArrow(trend string) string {
	if trend == report.TrendDown {
		return "↘"
	}
	return "↗"
}
