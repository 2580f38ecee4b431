package dataset

import (
	"math"
	"sort"
	"time"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Tables holds every dataset needed by one render pass.
type Tables struct {
	SalesSF      TimeSeries
	PopulationSF TimeSeries
	Prices       *PriceTable
	Populations  *PopulationTable
	Correlations *CorrelationTable
	Construction *ConstructionTable
}

// PriceTable is sale_all.csv: one row of monthly prices per region.
type PriceTable struct {
	regions []Region
	index   map[Region]int
	months  []time.Time
	values  *mat.Dense
}

// NewPriceTable builds a table from row-major values (len(regions) x len(months)).
func NewPriceTable(regions []Region, months []time.Time, values []float64) (*PriceTable, error) {
	if len(regions) == 0 || len(months) == 0 {
		return nil, errors.NewValueError("NewPriceTable", "price table needs at least one region and one month")
	}
	if len(values) != len(regions)*len(months) {
		return nil, errors.NewDimensionError("NewPriceTable", len(regions)*len(months), len(values), 0)
	}
	for i := 1; i < len(months); i++ {
		if !months[i].After(months[i-1]) {
			return nil, errors.NewValueError("NewPriceTable", "month columns are not strictly increasing")
		}
	}

	idx := make(map[Region]int, len(regions))
	for i, r := range regions {
		if _, dup := idx[r]; dup {
			return nil, errors.NewValueError("NewPriceTable", "duplicate region "+r.String())
		}
		idx[r] = i
	}

	return &PriceTable{
		regions: append([]Region(nil), regions...),
		index:   idx,
		months:  append([]time.Time(nil), months...),
		values:  mat.NewDense(len(regions), len(months), append([]float64(nil), values...)),
	}, nil
}

// Regions returns the regions in file order.
func (t *PriceTable) Regions() []Region {
	return append([]Region(nil), t.regions...)
}

// Months returns the month columns in order.
func (t *PriceTable) Months() []time.Time {
	return append([]time.Time(nil), t.months...)
}

// Values returns a read-only view of the price matrix (rows follow Regions).
func (t *PriceTable) Values() mat.Matrix {
	return t.values
}

// Has reports whether region has a price row.
func (t *PriceTable) Has(region Region) bool {
	_, ok := t.index[region]
	return ok
}

// Row returns the monthly price series of region.
func (t *PriceTable) Row(region Region) (TimeSeries, error) {
	i, ok := t.index[region]
	if !ok {
		return TimeSeries{}, errors.NewNoValidDataError("PriceTable.Row", region.String())
	}
	pts := make([]Observation, len(t.months))
	for j, m := range t.months {
		pts[j] = Observation{Time: m, Value: t.values.At(i, j)}
	}
	return TimeSeries{Name: region.String(), Points: pts}, nil
}

// PopulationRow is one line of pop_all.csv.
type PopulationRow struct {
	Year       int
	Population float64
	Density    float64
}

// PopulationTable is pop_all.csv: yearly population and density per region.
type PopulationTable struct {
	regions []Region
	rows    map[Region][]PopulationRow
}

// NewPopulationTable groups rows by region. Each region's rows are sorted by
// year; a repeated year is rejected.
func NewPopulationTable(regions []Region, rows map[Region][]PopulationRow) (*PopulationTable, error) {
	grouped := make(map[Region][]PopulationRow, len(rows))
	for _, r := range regions {
		rs := append([]PopulationRow(nil), rows[r]...)
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Year < rs[j].Year })
		for i := 1; i < len(rs); i++ {
			if rs[i].Year == rs[i-1].Year {
				return nil, errors.NewValueError("NewPopulationTable", "duplicate year for "+r.String())
			}
		}
		grouped[r] = rs
	}
	return &PopulationTable{regions: append([]Region(nil), regions...), rows: grouped}, nil
}

// Regions returns the regions in order of first appearance.
func (t *PopulationTable) Regions() []Region {
	return append([]Region(nil), t.regions...)
}

// Rows returns the yearly rows of region.
func (t *PopulationTable) Rows(region Region) []PopulationRow {
	return append([]PopulationRow(nil), t.rows[region]...)
}

// Population returns the yearly population series of region.
func (t *PopulationTable) Population(region Region) (TimeSeries, error) {
	return t.series(region, "population", func(r PopulationRow) float64 { return r.Population })
}

// Density returns the yearly density series of region.
func (t *PopulationTable) Density(region Region) (TimeSeries, error) {
	return t.series(region, "density", func(r PopulationRow) float64 { return r.Density })
}

func (t *PopulationTable) series(region Region, what string, pick func(PopulationRow) float64) (TimeSeries, error) {
	rows, ok := t.rows[region]
	if !ok || len(rows) == 0 {
		return TimeSeries{}, errors.NewNoValidDataError("PopulationTable."+what, region.String())
	}
	pts := make([]Observation, len(rows))
	for i, r := range rows {
		pts[i] = Observation{Time: YearStart(r.Year), Value: pick(r)}
	}
	return TimeSeries{Name: region.String() + " " + what, Points: pts}, nil
}

// States returns the distinct states, sorted.
func (t *PopulationTable) States() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.regions {
		if _, ok := seen[r.State]; ok {
			continue
		}
		seen[r.State] = struct{}{}
		out = append(out, r.State)
	}
	sort.Strings(out)
	return out
}

// Counties returns the distinct counties of state, sorted.
func (t *PopulationTable) Counties(state string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.regions {
		if r.State != state {
			continue
		}
		if _, ok := seen[r.County]; ok {
			continue
		}
		seen[r.County] = struct{}{}
		out = append(out, r.County)
	}
	sort.Strings(out)
	return out
}

// CorrelationTable is corr.csv.
type CorrelationTable struct {
	records []CorrelationRecord
	index   map[Region]int
}

// NewCorrelationTable validates coefficients. Missing values are kept; a
// finite coefficient outside [-1, 1] is rejected.
func NewCorrelationTable(records []CorrelationRecord) (*CorrelationTable, error) {
	idx := make(map[Region]int, len(records))
	for i, rec := range records {
		c := rec.Coefficient
		if !math.IsNaN(c) && (c < -1 || c > 1) {
			return nil, errors.NewValueError("NewCorrelationTable",
				"correlation coefficient out of [-1, 1] for "+rec.Region.String())
		}
		if _, dup := idx[rec.Region]; !dup {
			idx[rec.Region] = i
		}
	}
	return &CorrelationTable{records: append([]CorrelationRecord(nil), records...), index: idx}, nil
}

// Records returns all records in file order.
func (t *CorrelationTable) Records() []CorrelationRecord {
	return append([]CorrelationRecord(nil), t.records...)
}

// Lookup returns the record of region.
func (t *CorrelationTable) Lookup(region Region) (CorrelationRecord, bool) {
	i, ok := t.index[region]
	if !ok {
		return CorrelationRecord{}, false
	}
	return t.records[i], true
}

// ConstructionTable is newcon.csv: cumulated new units and population
// increase per year.
type ConstructionTable struct {
	Years              []int
	NewUnits           []float64
	PopulationIncrease []float64
}

// NewUnitsSeries returns the cumulated new residential units series.
func (t *ConstructionTable) NewUnitsSeries() (TimeSeries, error) {
	return t.series("New Residential Units Cumulated", t.NewUnits)
}

// PopulationIncreaseSeries returns the cumulated population increase series.
func (t *ConstructionTable) PopulationIncreaseSeries() (TimeSeries, error) {
	return t.series("Population Increase Cumulated", t.PopulationIncrease)
}

func (t *ConstructionTable) series(name string, values []float64) (TimeSeries, error) {
	if len(values) != len(t.Years) {
		return TimeSeries{}, errors.NewDimensionError("ConstructionTable."+name, len(t.Years), len(values), 0)
	}
	pts := make([]Observation, len(t.Years))
	for i, y := range t.Years {
		pts[i] = Observation{Time: YearStart(y), Value: values[i]}
	}
	return NewTimeSeries(name, pts)
}
