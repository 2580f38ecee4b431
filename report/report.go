// Package report exports the datasets behind the scatter and construction
// panels to an xlsx workbook.
package report

import (
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/sfhousing/analysis"
	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"github.com/YuminosukeSato/sfhousing/pkg/log"
)

// Sheet names in workbook order.
const (
	SheetCorrelation  = "Correlation"
	SheetDensity      = "DensityPrice"
	SheetConstruction = "NewConstruction"
)

// Build creates the workbook from t. The caller closes the returned file.
func Build(t *dataset.Tables) (f *excelize.File, err error) {
	defer errors.Recover(&err, "report.Build")

	corr, err := analysis.CorrelationScatter(t, dataset.SanFrancisco, analysis.CorrelationThreshold)
	if err != nil {
		return nil, err
	}
	density, err := analysis.DensityPrice(t, dataset.SanFrancisco)
	if err != nil {
		return nil, err
	}
	units, pop, err := analysis.Construction(t)
	if err != nil {
		return nil, err
	}

	f = excelize.NewFile()
	w := &writer{f: f}
	w.style()
	if err := f.SetSheetName("Sheet1", SheetCorrelation); err != nil {
		return nil, errors.WithStack(err)
	}
	w.correlation(t, corr)
	w.sheet(SheetDensity)
	w.density(density)
	w.sheet(SheetConstruction)
	w.construction(units, pop)
	f.SetActiveSheet(0)

	if w.err != nil {
		_ = f.Close()
		return nil, errors.Wrap(w.err, "build workbook")
	}
	return f, nil
}

// Write builds the workbook and writes it to out.
func Write(out io.Writer, t *dataset.Tables) error {
	f, err := Build(t)
	if err != nil {
		return err
	}
	defer f.Close()
	return errors.Wrap(f.Write(out), "write workbook")
}

// Save builds the workbook and saves it at path.
func Save(path string, t *dataset.Tables) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	f, err := Build(t)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	log.GetLoggerWithName("report").Info("workbook saved",
		log.OperationKey, log.OperationExport,
		log.ArtifactKey, path,
	)
	return nil
}

// writer keeps the first error so sheet code can stay linear.
type writer struct {
	f      *excelize.File
	header int
	err    error
}

func (w *writer) style() {
	if w.err != nil {
		return
	}
	w.header, w.err = w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
}

func (w *writer) sheet(name string) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.NewSheet(name)
}

func (w *writer) row(sheet string, row int, values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *writer) headerRow(sheet string, row int, titles ...interface{}) {
	w.row(sheet, row, titles...)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(titles), row)
	if w.err = w.f.SetCellStyle(sheet, first, last, w.header); w.err != nil {
		return
	}
	col, _ := excelize.ColumnNumberToName(len(titles))
	w.err = w.f.SetColWidth(sheet, "A", col, 22)
}

func (w *writer) correlation(t *dataset.Tables, s *analysis.Scatter) {
	const sheet = SheetCorrelation
	w.headerRow(sheet, 1, "County", "State", dataset.ColIncreaseRate, dataset.ColCoefficient, "In fit", "Fitted")
	row := 2
	for _, rec := range t.Correlations.Records() {
		if !rec.Valid() {
			continue
		}
		inFit := rec.IncreaseRate < analysis.CorrelationThreshold
		w.row(sheet, row, rec.Region.County, rec.Region.State, rec.IncreaseRate, rec.Coefficient, inFit, s.Fit.At(rec.IncreaseRate))
		row++
	}
	row++
	w.summary(sheet, row, s)
}

func (w *writer) density(s *analysis.Scatter) {
	const sheet = SheetDensity
	w.headerRow(sheet, 1, "County", "State", "Density", "Price", "Fitted")
	row := 2
	for _, p := range s.Points {
		w.row(sheet, row, p.Region.County, p.Region.State, p.X, p.Y, s.Fit.At(p.X))
		row++
	}
	row++
	row = w.summary(sheet, row, s)
	w.row(sheet, row, "Skipped", len(s.Skipped))
}

// summary writes the fit statistics starting at row and returns the next
// free row.
func (w *writer) summary(sheet string, row int, s *analysis.Scatter) int {
	stats := []struct {
		name  string
		value float64
	}{
		{"Slope", s.Fit.Slope},
		{"Intercept", s.Fit.Intercept},
		{"R2", s.R2},
		{"RMSE", s.RMSE},
		{"MAE", s.MAE},
		{"Pearson", s.Pearson},
	}
	for _, st := range stats {
		w.row(sheet, row, st.name, cell(st.value))
		row++
	}
	return row
}

func (w *writer) construction(units, pop dataset.TimeSeries) {
	const sheet = SheetConstruction
	w.headerRow(sheet, 1, "Year", dataset.ColNewUnits, dataset.ColPopulationIncrease)
	for i, p := range units.Points {
		var inc interface{}
		if i < pop.Len() {
			inc = cell(pop.Points[i].Value)
		}
		w.row(sheet, i+2, p.Time.Year(), cell(p.Value), inc)
	}
}

// cell leaves non-finite values empty.
func cell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
