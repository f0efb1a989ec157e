package main

import (
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/funnel-cli/internal/funnel"
	"github.com/sells-group/funnel-cli/internal/report"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute conversion rates and cost per sale",
	Long: `Computes the funnel for one set of figures.

Values are free text: anything that is not a digit is ignored, so
"1.000.000", "1,000,000" and "$ 1000000" all read as one million.

Examples:
  # Table with a text bar chart
  calc --investment 1.000.000 --contacts 1000 --scheduled 120 --attended 60 --sold 50

  # JSON report
  calc --contacts 1000 --scheduled 120 --format json

  # Spreadsheet export
  calc --investment 1000000 --sold 50 --format xlsx --output embudo.xlsx`,
	RunE: runCalc,
}

func init() {
	f := calcCmd.Flags()
	f.String("investment", "", "total investment (Inversión)")
	f.String("contacts", "", "number of contacts (Contactos)")
	f.String("scheduled", "", "number of scheduled appointments (Agendadas)")
	f.String("attended", "", "number of attended appointments (Asistidas)")
	f.String("sold", "", "number of sales (Vendidas)")
	f.String("format", report.FormatTable, "output format: "+strings.Join(report.Formats(), ", "))
	f.String("output", "", "output file path (default: stdout; required for xlsx)")

	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, _ []string) error {
	log := zap.L().With(zap.String("command", "calc"))

	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	if !slices.Contains(report.Formats(), format) {
		return eris.Errorf("calc: --format must be one of %s (got %q)", strings.Join(report.Formats(), ", "), format)
	}
	if format == report.FormatXLSX && outputPath == "" {
		return eris.New("calc: --format xlsx requires --output")
	}

	in := calcInput(cmd)
	f, err := formatter()
	if err != nil {
		return err
	}
	res := funnel.Compute(in)
	rep := report.FromResult(in, res, f)

	fields := []zap.Field{
		zap.Int64("contacts", in.Contacts),
		zap.Int64("sold", in.Sold),
		zap.Float64("cost_per_sale", res.Cost.Actual),
		zap.Bool("within_target", res.Cost.WithinTarget),
	}
	if sold, ok := res.Stage(funnel.StageSold); ok {
		fields = append(fields, zap.Stringer("sold_band", sold.Band))
	}
	log.Debug("funnel computed", fields...)

	return writeCalcOutput(cmd.OutOrStdout(), rep, format, outputPath, chartWidth())
}

// calcInput reads the five free-text figures from the flags.
func calcInput(cmd *cobra.Command) funnel.Input {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return funnel.ParseInput(get("investment"), get("contacts"), get("scheduled"), get("attended"), get("sold"))
}

func chartWidth() int {
	if cfg == nil {
		return report.DefaultChartWidth
	}
	return cfg.Chart.Width
}

// writeCalcOutput writes rep to outputPath, or to stdout when no path is given.
func writeCalcOutput(stdout io.Writer, rep report.Report, format, outputPath string, width int) error {
	if format == report.FormatXLSX {
		if err := report.WriteXLSX(outputPath, rep); err != nil {
			return eris.Wrap(err, "calc: write xlsx")
		}
		zap.L().Info("report written", zap.String("path", outputPath))
		return nil
	}

	w := stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "calc: create output file %s", outputPath)
		}
		defer file.Close() //nolint:errcheck
		w = file
	}

	return eris.Wrap(report.Write(w, rep, format, width), "calc: write report")
}
