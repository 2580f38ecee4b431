package dataset

import (
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// missingTokens are cell values read as missing.
var missingTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "<nil>"}

// frame wraps a gota DataFrame read as all-string columns, together with the
// dataset name and path for error reporting.
type frame struct {
	name string
	path string
	df   dataframe.DataFrame
}

func readFrame(name, path string) (*frame, error) {
	f, err := os.Open(path)
	if err != nil {
		reason := "unreadable file"
		if errors.Is(err, os.ErrNotExist) {
			reason = "file not found"
		}
		return nil, errors.NewDataUnavailableError(name, path, reason, err)
	}
	defer f.Close()
	return parseFrame(name, path, f)
}

func parseFrame(name, path string, r io.Reader) (*frame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingTokens),
	)
	if df.Err != nil {
		return nil, errors.NewDataUnavailableError(name, path, "malformed CSV", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, errors.NewDataUnavailableError(name, path, "no data rows", nil)
	}
	return &frame{name: name, path: path, df: df}, nil
}

func (f *frame) names() []string {
	return f.df.Names()
}

func (f *frame) rows() int {
	return f.df.Nrow()
}

func (f *frame) cols() int {
	return f.df.Ncol()
}

func (f *frame) unavailable(reason string, err error) error {
	return errors.NewDataUnavailableError(f.name, f.path, reason, err)
}

// column returns the named column, or the first of several accepted names.
func (f *frame) column(names ...string) (series.Series, error) {
	for _, n := range names {
		s := f.df.Col(n)
		if s.Err == nil {
			return s, nil
		}
	}
	return series.Series{}, f.unavailable("missing column "+strings.Join(names, "/"), nil)
}

// columnAt returns the i-th column.
func (f *frame) columnAt(i int) (series.Series, error) {
	names := f.names()
	if i >= len(names) {
		return series.Series{}, f.unavailable("expected at least "+strconv.Itoa(i+1)+" columns", nil)
	}
	return f.df.Col(names[i]), nil
}

// floats returns the numeric values of s; unparseable cells are NaN.
func floats(s series.Series) []float64 {
	return s.Float()
}

// strs returns the cell texts of s with missing cells as "".
func strs(s series.Series) []string {
	out := s.Records()
	for i := 0; i < s.Len(); i++ {
		if s.Elem(i).IsNA() {
			out[i] = ""
		} else {
			out[i] = strings.TrimSpace(out[i])
		}
	}
	return out
}

// regionKeys reads the first two columns as (county, state). Rows with a
// missing key come back as the zero Region.
func (f *frame) regionKeys() ([]Region, error) {
	countyCol, err := f.columnAt(0)
	if err != nil {
		return nil, err
	}
	stateCol, err := f.columnAt(1)
	if err != nil {
		return nil, err
	}
	counties, states := strs(countyCol), strs(stateCol)
	out := make([]Region, len(counties))
	for i := range counties {
		if counties[i] == "" || states[i] == "" {
			continue
		}
		out[i] = Region{County: counties[i], State: states[i]}
	}
	return out, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"1/2/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate accepts the date forms found in Zillow-style exports.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseYear accepts "2010", "2010.0" or a full date.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v != math.Trunc(v) || v < 1 || v > 9999 {
			return 0, false
		}
		return int(v), true
	}
	if t, ok := parseDate(s); ok {
		return t.Year(), true
	}
	return 0, false
}
