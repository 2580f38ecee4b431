package dataset

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"github.com/YuminosukeSato/sfhousing/pkg/log"
)

// Dataset names used in errors and logs.
const (
	NameSalesSF      = "sales_sf"
	NamePopulationSF = "population_sf"
	NamePrices       = "prices"
	NamePopulations  = "populations"
	NameCorrelations = "correlations"
	NameConstruction = "construction"
)

// Column names expected in the input files.
const (
	ColYear               = "YEAR"
	ColPopulation         = "POPULATION"
	ColPopYear            = "Year"
	ColPopPopulation      = "Population"
	ColPopDensity         = "Density"
	ColIncreaseRate       = "Population Increase Rate"
	ColCoefficient        = "Correlation Coefficient"
	ColConstructionYear   = "index"
	ColNewUnits           = "New Residential Units Cumulated"
	ColPopulationIncrease = "Population Increase Cumulated"
)

// Files names the six input CSVs relative to the loader directory.
type Files struct {
	SalesSF      string
	PopulationSF string
	Prices       string
	Populations  string
	Correlations string
	Construction string
}

// DefaultFiles returns the file names of the published datasets.
func DefaultFiles() Files {
	return Files{
		SalesSF:      "salesf.csv",
		PopulationSF: "population.csv",
		Prices:       "sale_all.csv",
		Populations:  "pop_all.csv",
		Correlations: "corr.csv",
		Construction: "newcon.csv",
	}
}

// Loader reads the datasets from a directory. It keeps no state between
// calls; every Load reads the files again.
type Loader struct {
	dir    string
	files  Files
	logger log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithFiles overrides the file names.
func WithFiles(files Files) Option {
	return func(l *Loader) {
		l.files = files
	}
}

// WithLogger sets the logger used for per-dataset debug lines.
func WithLogger(logger log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader for dir.
func NewLoader(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir:    dir,
		files:  DefaultFiles(),
		logger: log.GetLoggerWithName("dataset"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the data directory.
func (l *Loader) Dir() string {
	return l.dir
}

func (l *Loader) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.dir, name)
}

func (l *Loader) loaded(f *frame) {
	l.logger.Debug("dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.DatasetKey, f.name,
		log.PathKey, f.path,
		log.RowsKey, f.rows(),
		log.ColumnsKey, f.cols(),
	)
}

// Load reads all six datasets. The first failure aborts the load.
func (l *Loader) Load() (*Tables, error) {
	var (
		t   Tables
		err error
	)
	if t.SalesSF, err = l.LoadSalesSF(); err != nil {
		return nil, err
	}
	if t.PopulationSF, err = l.LoadPopulationSF(); err != nil {
		return nil, err
	}
	if t.Prices, err = l.LoadPrices(); err != nil {
		return nil, err
	}
	if t.Populations, err = l.LoadPopulations(); err != nil {
		return nil, err
	}
	if t.Correlations, err = l.LoadCorrelations(); err != nil {
		return nil, err
	}
	if t.Construction, err = l.LoadConstruction(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadSalesSF reads salesf.csv: a date index column followed by one price column.
func (l *Loader) LoadSalesSF() (TimeSeries, error) {
	f, err := readFrame(NameSalesSF, l.path(l.files.SalesSF))
	if err != nil {
		return TimeSeries{}, err
	}
	dateCol, err := f.columnAt(0)
	if err != nil {
		return TimeSeries{}, err
	}
	priceCol, err := f.columnAt(1)
	if err != nil {
		return TimeSeries{}, err
	}

	dates, prices := strs(dateCol), floats(priceCol)
	pts := make([]Observation, len(dates))
	for i, d := range dates {
		t, ok := parseDate(d)
		if !ok {
			return TimeSeries{}, f.unavailable("unparsable date "+strconv.Quote(d), nil)
		}
		pts[i] = Observation{Time: t, Value: prices[i]}
	}

	ts, err := NewTimeSeries("San Francisco house price", pts)
	if err != nil {
		return TimeSeries{}, f.unavailable("unordered dates", err)
	}
	l.loaded(f)
	return ts, nil
}

// LoadPopulationSF reads population.csv (YEAR, POPULATION).
func (l *Loader) LoadPopulationSF() (TimeSeries, error) {
	f, err := readFrame(NamePopulationSF, l.path(l.files.PopulationSF))
	if err != nil {
		return TimeSeries{}, err
	}
	yearCol, err := f.column(ColYear)
	if err != nil {
		return TimeSeries{}, err
	}
	popCol, err := f.column(ColPopulation)
	if err != nil {
		return TimeSeries{}, err
	}

	years, pops := strs(yearCol), floats(popCol)
	pts := make([]Observation, len(years))
	for i, y := range years {
		year, ok := parseYear(y)
		if !ok {
			return TimeSeries{}, f.unavailable("unparsable year "+strconv.Quote(y), nil)
		}
		pts[i] = Observation{Time: YearStart(year), Value: pops[i]}
	}

	ts, err := NewTimeSeries("San Francisco population", pts)
	if err != nil {
		return TimeSeries{}, f.unavailable("unordered years", err)
	}
	l.loaded(f)
	return ts, nil
}

// LoadPrices reads sale_all.csv. The first two columns are the region key;
// every following column whose header is a date is a month column. Other
// columns are ignored.
func (l *Loader) LoadPrices() (*PriceTable, error) {
	f, err := readFrame(NamePrices, l.path(l.files.Prices))
	if err != nil {
		return nil, err
	}
	keys, err := f.regionKeys()
	if err != nil {
		return nil, err
	}

	names := f.names()
	var (
		months  []time.Time
		columns [][]float64
	)
	for _, name := range names[2:] {
		t, ok := parseDate(name)
		if !ok {
			continue
		}
		col, err := f.column(name)
		if err != nil {
			return nil, err
		}
		months = append(months, t)
		columns = append(columns, floats(col))
	}
	if len(months) == 0 {
		return nil, f.unavailable("no month columns", nil)
	}

	var (
		regions []Region
		values  []float64
	)
	seen := make(map[Region]bool, len(keys))
	for i, r := range keys {
		if r == (Region{}) || seen[r] {
			continue
		}
		seen[r] = true
		regions = append(regions, r)
		for j := range months {
			values = append(values, columns[j][i])
		}
	}
	if len(regions) == 0 {
		return nil, f.unavailable("no region rows", nil)
	}

	table, err := NewPriceTable(regions, months, values)
	if err != nil {
		return nil, f.unavailable("invalid price table", err)
	}
	l.loaded(f)
	return table, nil
}

// LoadPopulations reads pop_all.csv in long format: region key, Year,
// Population, Density.
func (l *Loader) LoadPopulations() (*PopulationTable, error) {
	f, err := readFrame(NamePopulations, l.path(l.files.Populations))
	if err != nil {
		return nil, err
	}
	keys, err := f.regionKeys()
	if err != nil {
		return nil, err
	}
	yearCol, err := f.column(ColPopYear)
	if err != nil {
		return nil, err
	}
	popCol, err := f.column(ColPopPopulation)
	if err != nil {
		return nil, err
	}
	denCol, err := f.column(ColPopDensity)
	if err != nil {
		return nil, err
	}

	years, pops, dens := strs(yearCol), floats(popCol), floats(denCol)
	var regions []Region
	rows := make(map[Region][]PopulationRow)
	for i, r := range keys {
		if r == (Region{}) {
			continue
		}
		year, ok := parseYear(years[i])
		if !ok {
			return nil, f.unavailable("unparsable year "+strconv.Quote(years[i]), nil)
		}
		if _, ok := rows[r]; !ok {
			regions = append(regions, r)
		}
		rows[r] = append(rows[r], PopulationRow{Year: year, Population: pops[i], Density: dens[i]})
	}
	if len(regions) == 0 {
		return nil, f.unavailable("no region rows", nil)
	}

	table, err := NewPopulationTable(regions, rows)
	if err != nil {
		return nil, f.unavailable("invalid population table", err)
	}
	l.loaded(f)
	return table, nil
}

// LoadCorrelations reads corr.csv.
func (l *Loader) LoadCorrelations() (*CorrelationTable, error) {
	f, err := readFrame(NameCorrelations, l.path(l.files.Correlations))
	if err != nil {
		return nil, err
	}
	keys, err := f.regionKeys()
	if err != nil {
		return nil, err
	}
	rateCol, err := f.column(ColIncreaseRate)
	if err != nil {
		return nil, err
	}
	coefCol, err := f.column(ColCoefficient)
	if err != nil {
		return nil, err
	}

	rates, coefs := floats(rateCol), floats(coefCol)
	records := make([]CorrelationRecord, 0, len(keys))
	for i, r := range keys {
		if r == (Region{}) {
			continue
		}
		records = append(records, CorrelationRecord{Region: r, IncreaseRate: rates[i], Coefficient: coefs[i]})
	}

	table, err := NewCorrelationTable(records)
	if err != nil {
		return nil, f.unavailable("invalid correlation table", err)
	}
	l.loaded(f)
	return table, nil
}

// LoadConstruction reads newcon.csv. The year column is named either
// "index" or "Year".
func (l *Loader) LoadConstruction() (*ConstructionTable, error) {
	f, err := readFrame(NameConstruction, l.path(l.files.Construction))
	if err != nil {
		return nil, err
	}
	yearCol, err := f.column(ColConstructionYear, ColPopYear)
	if err != nil {
		return nil, err
	}
	unitsCol, err := f.column(ColNewUnits)
	if err != nil {
		return nil, err
	}
	popCol, err := f.column(ColPopulationIncrease)
	if err != nil {
		return nil, err
	}

	yearText := strs(yearCol)
	years := make([]int, len(yearText))
	for i, y := range yearText {
		year, ok := parseYear(y)
		if !ok {
			return nil, f.unavailable("unparsable year "+strconv.Quote(y), nil)
		}
		years[i] = year
	}

	table := &ConstructionTable{Years: years, NewUnits: floats(unitsCol), PopulationIncrease: floats(popCol)}
	if _, err := table.NewUnitsSeries(); err != nil {
		return nil, f.unavailable("unordered years", err)
	}
	l.loaded(f)
	return table, nil
}

// IsDataUnavailable reports whether err is a loader failure.
func IsDataUnavailable(err error) bool {
	return errors.Is(err, errors.ErrDataUnavailable)
}
