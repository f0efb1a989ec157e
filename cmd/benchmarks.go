package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/funnel-cli/internal/funnel"
	"github.com/sells-group/funnel-cli/internal/report"
)

var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "Show the stage benchmarks and the target cost per sale",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		f, err := formatter()
		if err != nil {
			return err
		}
		return writeBenchmarks(cmd.OutOrStdout(), f, format)
	},
}

func init() {
	benchmarksCmd.Flags().String("format", report.FormatTable, "output format: table or yaml")
	rootCmd.AddCommand(benchmarksCmd)
}

type benchmarkDoc struct {
	Benchmarks        []funnel.StageBenchmark `yaml:"benchmarks"`
	TargetCostPerSale float64                 `yaml:"target_cost_per_sale"`
	Legend            []report.LegendEntry    `yaml:"legend"`
}

func writeBenchmarks(w io.Writer, f *funnel.Formatter, format string) error {
	switch format {
	case report.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		doc := benchmarkDoc{
			Benchmarks:        funnel.Benchmarks(),
			TargetCostPerSale: funnel.TargetCostPerSale,
			Legend:            report.Legend(f),
		}
		if err := enc.Encode(doc); err != nil {
			return eris.Wrap(err, "benchmarks: encode yaml")
		}
		return eris.Wrap(enc.Close(), "benchmarks: close yaml encoder")
	case report.FormatTable:
		if _, err := fmt.Fprintf(w, "%-10s %10s\n", "Etapa", "Benchmark"); err != nil {
			return eris.Wrap(err, "benchmarks: write header")
		}
		for _, b := range funnel.Benchmarks() {
			if _, err := fmt.Fprintf(w, "%-10s %10s\n", b.Stage, strconv.FormatFloat(b.Rate, 'f', -1, 64)+"%"); err != nil {
				return eris.Wrap(err, "benchmarks: write row")
			}
		}
		_, err := fmt.Fprintf(w, "\n%s: %s\n", report.TitleTargetCost, f.Currency(funnel.TargetCostPerSale))
		return eris.Wrap(err, "benchmarks: write target")
	default:
		return eris.Errorf("benchmarks: --format must be table or yaml (got %q)", format)
	}
}
