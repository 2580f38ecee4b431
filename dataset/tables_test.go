package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

func months(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2010, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
	}
	return out
}

func TestNewTimeSeries(t *testing.T) {
	t0 := YearStart(2010)
	tests := []struct {
		name    string
		points  []Observation
		wantErr bool
	}{
		{name: "empty", points: nil},
		{name: "increasing", points: []Observation{{t0, 1}, {t0.AddDate(1, 0, 0), math.NaN()}}},
		{name: "repeated timestamp", points: []Observation{{t0, 1}, {t0, 2}}, wantErr: true},
		{name: "decreasing", points: []Observation{{t0.AddDate(1, 0, 0), 1}, {t0, 2}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeSeries("x", tt.points)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewTimeSeries() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && ts.Len() != len(tt.points) {
				t.Errorf("Len() = %d, want %d", ts.Len(), len(tt.points))
			}
		})
	}
}

func TestTimeSeries_CopiesPoints(t *testing.T) {
	pts := []Observation{{YearStart(2010), 1}}
	ts, err := NewTimeSeries("x", pts)
	if err != nil {
		t.Fatal(err)
	}
	pts[0].Value = 99
	if ts.Points[0].Value != 1 {
		t.Error("series shares its backing array with the caller")
	}

	// WithValues は元の系列を変更しない
	ts2 := ts.WithValues([]float64{5})
	if ts.Points[0].Value != 1 || ts2.Points[0].Value != 5 {
		t.Errorf("WithValues mutated the receiver: %v / %v", ts.Values(), ts2.Values())
	}
}

func TestNewPriceTable(t *testing.T) {
	a := Region{County: "A", State: "CA"}
	b := Region{County: "B", State: "CA"}

	tests := []struct {
		name    string
		regions []Region
		months  []time.Time
		values  []float64
		wantErr bool
	}{
		{name: "valid", regions: []Region{a, b}, months: months(2), values: []float64{1, 2, 3, 4}},
		{name: "wrong size", regions: []Region{a, b}, months: months(2), values: []float64{1, 2, 3}, wantErr: true},
		{name: "duplicate region", regions: []Region{a, a}, months: months(1), values: []float64{1, 2}, wantErr: true},
		{name: "unordered months", regions: []Region{a}, months: []time.Time{YearStart(2011), YearStart(2010)}, values: []float64{1, 2}, wantErr: true},
		{name: "empty", regions: nil, months: months(1), values: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewPriceTable(tt.regions, tt.months, tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPriceTable() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			row, err := table.Row(b)
			if err != nil {
				t.Fatal(err)
			}
			if got := row.Values(); got[0] != 3 || got[1] != 4 {
				t.Errorf("Row(b) = %v, want [3 4]", got)
			}
			if r, c := table.Values().Dims(); r != 2 || c != 2 {
				t.Errorf("Values().Dims() = %d x %d", r, c)
			}
		})
	}
}

func TestPriceTable_RowUnknownRegion(t *testing.T) {
	table, err := NewPriceTable([]Region{SanFrancisco}, months(1), []float64{1})
	if err != nil {
		t.Fatal(err)
	}
	unknown := Region{County: "Nowhere", State: "ZZ"}
	if table.Has(unknown) {
		t.Error("Has() = true for unknown region")
	}
	_, err = table.Row(unknown)
	if !errors.Is(err, errors.ErrNoValidData) {
		t.Errorf("Row() error = %v, want ErrNoValidData", err)
	}
}

func TestNewPopulationTable(t *testing.T) {
	a := Region{County: "Harris County", State: "TX"}
	b := Region{County: "Bexar County", State: "TX"}
	c := Region{County: "Cook County", State: "IL"}

	table, err := NewPopulationTable([]Region{a, b, c}, map[Region][]PopulationRow{
		a: {{Year: 2011, Population: 2, Density: 20}, {Year: 2010, Population: 1, Density: 10}},
		b: {{Year: 2010, Population: 5, Density: 50}},
		c: {{Year: 2010, Population: 7, Density: math.NaN()}},
	})
	if err != nil {
		t.Fatal(err)
	}

	den, err := table.Density(a)
	if err != nil {
		t.Fatal(err)
	}
	if got := den.Values(); got[0] != 10 || got[1] != 20 {
		t.Errorf("rows not sorted by year: %v", got)
	}
	if got := table.Counties("TX"); len(got) != 2 || got[0] != "Bexar County" || got[1] != "Harris County" {
		t.Errorf("Counties(TX) = %v", got)
	}
	if got := table.Counties("ZZ"); len(got) != 0 {
		t.Errorf("Counties(ZZ) = %v, want empty", got)
	}
	if got := table.States(); len(got) != 2 || got[0] != "IL" || got[1] != "TX" {
		t.Errorf("States() = %v", got)
	}

	_, err = table.Population(Region{County: "Nowhere", State: "ZZ"})
	if !errors.Is(err, errors.ErrNoValidData) {
		t.Errorf("Population() error = %v, want ErrNoValidData", err)
	}

	_, err = NewPopulationTable([]Region{a}, map[Region][]PopulationRow{
		a: {{Year: 2010}, {Year: 2010}},
	})
	if err == nil {
		t.Error("duplicate year should be rejected")
	}
}

func TestNewCorrelationTable(t *testing.T) {
	tests := []struct {
		name    string
		coef    float64
		wantErr bool
	}{
		{name: "inside", coef: 0.5},
		{name: "bound", coef: -1},
		{name: "missing", coef: math.NaN()},
		{name: "above", coef: 1.01, wantErr: true},
		{name: "below", coef: -2, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCorrelationTable([]CorrelationRecord{{Region: SanFrancisco, IncreaseRate: 0.1, Coefficient: tt.coef}})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCorrelationTable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConstructionTable_Series(t *testing.T) {
	table := &ConstructionTable{
		Years:              []int{2000, 2001},
		NewUnits:           []float64{1, 2},
		PopulationIncrease: []float64{3},
	}
	if _, err := table.NewUnitsSeries(); err != nil {
		t.Errorf("NewUnitsSeries() error = %v", err)
	}
	if _, err := table.PopulationIncreaseSeries(); err == nil {
		t.Error("length mismatch should fail")
	}
}

func TestParseHelpers(t *testing.T) {
	dates := map[string]bool{
		"2010-01-31": true,
		"2010-01":    true,
		"1/31/2010":  true,
		"SizeRank":   false,
		"":           false,
	}
	for in, want := range dates {
		if _, ok := parseDate(in); ok != want {
			t.Errorf("parseDate(%q) ok = %v, want %v", in, ok, want)
		}
	}

	years := map[string]int{"2010": 2010, "2010.0": 2010, "2010-06-30": 2010}
	for in, want := range years {
		got, ok := parseYear(in)
		if !ok || got != want {
			t.Errorf("parseYear(%q) = %d, %v", in, got, ok)
		}
	}
	for _, in := range []string{"2010.5", "abc", ""} {
		if _, ok := parseYear(in); ok {
			t.Errorf("parseYear(%q) should fail", in)
		}
	}
}
