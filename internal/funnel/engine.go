// Package funnel computes sales-funnel conversion rates and compares them
// against fixed benchmarks.
package funnel

import "math"

// Stage names in funnel order.
const (
	StageContacts  = "Contactos"
	StageScheduled = "Agendadas"
	StageAttended  = "Asistidas"
	StageSold      = "Vendidas"
)

// Input holds the five raw funnel counts.
type Input struct {
	Investment int64 `json:"investment" yaml:"investment"`
	Contacts   int64 `json:"contacts" yaml:"contacts"`
	Scheduled  int64 `json:"scheduled" yaml:"scheduled"`
	Attended   int64 `json:"attended" yaml:"attended"`
	Sold       int64 `json:"sold" yaml:"sold"`
}

// ParseInput builds an Input from free-text fields.
func ParseInput(investment, contacts, scheduled, attended, sold string) Input {
	return Input{
		Investment: Parse(investment),
		Contacts:   Parse(contacts),
		Scheduled:  Parse(scheduled),
		Attended:   Parse(attended),
		Sold:       Parse(sold),
	}
}

func (in Input) clamped() Input {
	return Input{
		Investment: max0(in.Investment),
		Contacts:   max0(in.Contacts),
		Scheduled:  max0(in.Scheduled),
		Attended:   max0(in.Attended),
		Sold:       max0(in.Sold),
	}
}

// Stage is one bar of the funnel. Rate and Benchmark are nil for the first
// stage, which has no upstream base.
type Stage struct {
	Name      string   `json:"name" yaml:"name"`
	Total     int64    `json:"total" yaml:"total"`
	Rate      *float64 `json:"rate" yaml:"rate"`
	Benchmark *float64 `json:"benchmark" yaml:"benchmark"`
	Band      Band     `json:"band" yaml:"band"`
}

// Color returns the stage's chart color token.
func (s Stage) Color() string { return s.Band.Color() }

// Label returns the stage's performance text.
func (s Stage) Label() string { return s.Band.Label() }

// DisplayRate returns the rate rounded to two decimals, or false when the
// stage has no rate.
func (s Stage) DisplayRate() (string, bool) {
	if s.Rate == nil {
		return "", false
	}
	return defaultFormatter.Rate(*s.Rate), true
}

// CostAnalysis compares the actual cost per sale against the target.
type CostAnalysis struct {
	Actual       float64 `json:"actual" yaml:"actual"`
	Target       float64 `json:"target" yaml:"target"`
	WithinTarget bool    `json:"within_target" yaml:"within_target"`
	Delta        float64 `json:"delta" yaml:"delta"`
}

// Result is the full output of one calculation.
type Result struct {
	Stages []Stage      `json:"stages" yaml:"stages"`
	Cost   CostAnalysis `json:"cost" yaml:"cost"`
}

// Stage returns the stage with the given name.
func (r Result) Stage(name string) (Stage, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return Stage{}, false
}

// Compute derives the four funnel stages and the cost analysis from in.
// Negative counts are treated as zero.
func Compute(in Input) Result {
	in = in.clamped()

	stages := make([]Stage, 0, 4)
	stages = append(stages, Stage{Name: StageContacts, Total: in.Contacts})

	steps := []struct {
		name      string
		total     int64
		base      int64
		benchmark float64
	}{
		{StageScheduled, in.Scheduled, in.Contacts, BenchmarkScheduled},
		{StageAttended, in.Attended, in.Scheduled, BenchmarkAttended},
		{StageSold, in.Sold, in.Attended, BenchmarkSold},
	}
	for _, st := range steps {
		rate := Rate(st.total, st.base)
		bench := st.benchmark
		stages = append(stages, Stage{
			Name:      st.name,
			Total:     st.total,
			Rate:      &rate,
			Benchmark: &bench,
			Band:      Classify(rate, bench).Band,
		})
	}

	return Result{Stages: stages, Cost: AnalyzeCost(in.Investment, in.Sold)}
}

// Rate returns num as a percentage of den, or 0 when den is not positive.
func Rate(num, den int64) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

// CostPerSale returns investment divided by sold, or 0 when nothing sold.
func CostPerSale(investment, sold int64) float64 {
	if sold <= 0 {
		return 0
	}
	return float64(investment) / float64(sold)
}

// AnalyzeCost compares the cost per sale against TargetCostPerSale.
func AnalyzeCost(investment, sold int64) CostAnalysis {
	actual := CostPerSale(investment, sold)
	return CostAnalysis{
		Actual:       actual,
		Target:       TargetCostPerSale,
		WithinTarget: actual <= TargetCostPerSale,
		Delta:        math.Abs(TargetCostPerSale - actual),
	}
}

// Round2 rounds v to two decimals for display.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

func max0(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
