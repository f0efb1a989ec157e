package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet names used by WriteXLSX.
const (
	SheetStages = "Embudo"
	SheetCost   = "Costos"
)

// WriteXLSX saves rep as a workbook with a stage sheet and a cost sheet.
func WriteXLSX(path string, rep Report) error {
	f := xlsx.NewFile()

	stages, err := f.AddSheet(SheetStages)
	if err != nil {
		return eris.Wrap(err, "xlsx: add stage sheet")
	}
	addStringRow(stages, "Etapa", "Total", "Tasa", "Benchmark", "Desempeño", "Color")
	for _, bar := range rep.Bars {
		row := stages.AddRow()
		row.AddCell().SetString(bar.Name)
		row.AddCell().SetInt64(bar.Total)
		row.AddCell().SetString(bar.RateLabel)
		bench := row.AddCell()
		if bar.Benchmark != nil {
			bench.SetFloat(*bar.Benchmark)
		}
		row.AddCell().SetString(bar.Label)
		row.AddCell().SetString(bar.Color)
	}
	stages.AddRow()
	for _, l := range rep.Legend {
		addStringRow(stages, l.Text)
	}

	cost, err := f.AddSheet(SheetCost)
	if err != nil {
		return eris.Wrap(err, "xlsx: add cost sheet")
	}
	c := rep.Cost
	addStringRow(cost, c.Title)
	addValueRow(cost, c.ActualTitle, c.ActualValue, c.Actual)
	addValueRow(cost, c.TargetTitle, c.TargetValue, c.Target)
	addValueRow(cost, "Diferencia", c.DeltaValue, c.Delta)
	addStringRow(cost, c.Status)
	addStringRow(cost, c.Message)

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func addStringRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addValueRow(sheet *xlsx.Sheet, title string, value float64, display string) {
	row := sheet.AddRow()
	row.AddCell().SetString(title)
	row.AddCell().SetFloat(value)
	row.AddCell().SetString(display)
}
