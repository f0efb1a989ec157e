package funnel

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Benchmark targets. Rates are percentages of the previous stage.
const (
	BenchmarkScheduled = 10.5
	BenchmarkAttended  = 47.0
	BenchmarkSold      = 41.0
	TargetCostPerSale  = 80000.0
)

// Color tokens for chart rendering.
const (
	ColorStrongGreen = "#22C55E"
	ColorGreen       = "#10B981"
	ColorNeutral     = "#6B7280"
	ColorRed         = "#EF4444"
	ColorStrongRed   = "#DC2626"
	ColorBarFill     = "#374151"
)

// Band is a performance classification relative to a benchmark. The zero
// value, Unrated, marks a stage without a benchmark.
type Band int

const (
	Unrated Band = iota
	StronglyAbove
	Above
	Near
	Below
	StronglyBelow
)

type bandInfo struct {
	name  string
	color string
	label string
}

var bands = map[Band]bandInfo{
	Unrated:       {"unrated", ColorNeutral, ""},
	StronglyAbove: {"strongly_above", ColorStrongGreen, "Muy por encima del benchmark"},
	Above:         {"above", ColorGreen, "Por encima del benchmark"},
	Near:          {"near", ColorNeutral, "Cerca del benchmark"},
	Below:         {"below", ColorRed, "Por debajo del benchmark"},
	StronglyBelow: {"strongly_below", ColorStrongRed, "Muy por debajo del benchmark"},
}

func (b Band) String() string { return bands[b].name }

// Color returns the chart color token for the band.
func (b Band) Color() string {
	if info, ok := bands[b]; ok {
		return info.color
	}
	return ColorNeutral
}

// Label returns the human-readable performance text. Unrated has none.
func (b Band) Label() string { return bands[b].label }

// MarshalText encodes the band by name.
func (b Band) MarshalText() ([]byte, error) {
	info, ok := bands[b]
	if !ok {
		return nil, eris.Errorf("funnel: unknown band %d", int(b))
	}
	return []byte(info.name), nil
}

// UnmarshalText decodes a band name.
func (b *Band) UnmarshalText(text []byte) error {
	for band, info := range bands {
		if info.name == string(text) {
			*b = band
			return nil
		}
	}
	return eris.Errorf("funnel: unknown band %q", string(text))
}

// threshold is a lower bound on the relative deviation from a benchmark.
type threshold struct {
	bound     float64
	inclusive bool
	band      Band
}

// Ordered from the highest bound down; the first match wins.
var thresholds = []threshold{
	{bound: 0.30, inclusive: true, band: StronglyAbove},
	{bound: 0.10, inclusive: true, band: Above},
	{bound: -0.10, inclusive: false, band: Near},
	{bound: -0.30, inclusive: false, band: Below},
}

func (t threshold) matches(diff float64) bool {
	return diff > t.bound || (t.inclusive && diff == t.bound)
}

// Classification is the outcome of comparing a rate against its benchmark.
type Classification struct {
	Band  Band   `json:"band" yaml:"band"`
	Color string `json:"color" yaml:"color"`
	Label string `json:"label" yaml:"label"`
}

// Classify buckets actual by its relative deviation from benchmark.
// benchmark must be positive; Classify panics otherwise.
func Classify(actual, benchmark float64) Classification {
	if !(benchmark > 0) {
		panic(fmt.Sprintf("funnel: benchmark must be positive, got %v", benchmark))
	}
	diff := (actual - benchmark) / benchmark

	band := StronglyBelow
	for _, t := range thresholds {
		if t.matches(diff) {
			band = t.band
			break
		}
	}
	return Classification{Band: band, Color: band.Color(), Label: band.Label()}
}

// StageBenchmark pairs a stage with its target conversion rate.
type StageBenchmark struct {
	Stage string  `json:"stage" yaml:"stage"`
	Rate  float64 `json:"rate" yaml:"rate"`
}

// Benchmarks lists the rated stages in funnel order.
func Benchmarks() []StageBenchmark {
	return []StageBenchmark{
		{Stage: StageScheduled, Rate: BenchmarkScheduled},
		{Stage: StageAttended, Rate: BenchmarkAttended},
		{Stage: StageSold, Rate: BenchmarkSold},
	}
}
