// Package dataset loads the housing-price and population CSV files into
// immutable, typed tables keyed by Region or by time.
package dataset

import (
	"math"
	"time"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// Region identifies one row across the multi-county tables.
type Region struct {
	County string
	State  string
}

// String returns "County, ST".
func (r Region) String() string {
	return r.County + ", " + r.State
}

// SanFrancisco is the region every static panel highlights.
var SanFrancisco = Region{County: "San Francisco County", State: "CA"}

// Observation is one (timestamp, value) pair. A NaN value is missing.
type Observation struct {
	Time  time.Time
	Value float64
}

// Missing reports whether the observation has no value.
func (o Observation) Missing() bool {
	return math.IsNaN(o.Value)
}

// TimeSeries is an ordered sequence of observations with strictly
// increasing timestamps.
type TimeSeries struct {
	Name   string
	Points []Observation
}

// NewTimeSeries validates ordering and returns a series owning a copy of points.
func NewTimeSeries(name string, points []Observation) (TimeSeries, error) {
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return TimeSeries{}, errors.NewValueError("NewTimeSeries",
				"timestamps of "+name+" are not strictly increasing at "+points[i].Time.Format("2006-01-02"))
		}
	}
	cp := make([]Observation, len(points))
	copy(cp, points)
	return TimeSeries{Name: name, Points: cp}, nil
}

// Len returns the number of observations, missing ones included.
func (s TimeSeries) Len() int {
	return len(s.Points)
}

// Values returns the observation values in order.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Times returns the observation timestamps in order.
func (s TimeSeries) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// WithValues returns a series with the same timestamps and new values.
// values must have the same length as the series.
func (s TimeSeries) WithValues(values []float64) TimeSeries {
	pts := make([]Observation, len(s.Points))
	for i, p := range s.Points {
		pts[i] = Observation{Time: p.Time, Value: values[i]}
	}
	return TimeSeries{Name: s.Name, Points: pts}
}

// CountValid returns the number of non-missing observations.
func (s TimeSeries) CountValid() int {
	n := 0
	for _, p := range s.Points {
		if !p.Missing() {
			n++
		}
	}
	return n
}

// CorrelationRecord is one precomputed row of corr.csv.
type CorrelationRecord struct {
	Region       Region
	IncreaseRate float64
	Coefficient  float64
}

// Valid reports whether both fields are finite.
func (c CorrelationRecord) Valid() bool {
	return !math.IsNaN(c.IncreaseRate) && !math.IsInf(c.IncreaseRate, 0) &&
		!math.IsNaN(c.Coefficient) && !math.IsInf(c.Coefficient, 0)
}

// YearStart returns January 1st of year in UTC.
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}
