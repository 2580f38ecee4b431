// Package chart describes dashboard charts independently of how they are
// drawn, and draws them as ECharts HTML or as PNG images.
package chart

import (
	"math"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// Kind is the shape of a chart.
type Kind int

const (
	// KindDualAxis is a time series chart with a left and a right y axis.
	KindDualAxis Kind = iota
	// KindScatter is a point cloud with overlays on a numeric x axis.
	KindScatter
	// KindLines is a single-axis multi-line time series chart.
	KindLines
)

func (k Kind) String() string {
	switch k {
	case KindDualAxis:
		return "dual-axis"
	case KindScatter:
		return "scatter"
	case KindLines:
		return "lines"
	default:
		return "unknown"
	}
}

// Style is how a series is drawn.
type Style int

const (
	StyleLine Style = iota
	StyleLineMarkers
	StyleScatter
	StyleFitLine
	StyleHighlight
)

// AxisFormat selects the tick label format of a y axis.
type AxisFormat int

const (
	AxisNumber AxisFormat = iota
	AxisCurrency
)

// Colors used by the dashboard.
const (
	ColorBlue    = "#1f77b4"
	ColorRed     = "#d62728"
	ColorDefault = ColorBlue
)

// Axis is a y axis.
type Axis struct {
	Label  string
	Format AxisFormat
}

// XY is one data point. A NaN Y is a gap.
type XY struct {
	X, Y float64
}

// Series is one drawn dataset.
type Series struct {
	Name   string
	Axis   int // index into Chart.Axes
	Style  Style
	Color  string
	Points []XY
}

// Chart is a backend-neutral chart description.
type Chart struct {
	ID     string
	Title  string
	Kind   Kind
	XLabel string
	// XDomain is the shared x values of line charts, ascending.
	XDomain []float64
	// TickEvery labels every n-th domain value. 0 and 1 label all of them.
	TickEvery int
	// XTicks are explicit x tick positions. They take precedence over TickEvery.
	XTicks []float64
	XRange *[2]float64
	Axes   []Axis
	Series []Series
	GridY  bool
}

// Validate checks the structural invariants every backend relies on.
func (c *Chart) Validate() error {
	if c == nil {
		return errors.NewValueError("Chart.Validate", "nil chart")
	}
	if c.ID == "" {
		return errors.NewValidationError("ID", "chart id is required", c.ID)
	}
	if len(c.Axes) == 0 {
		return errors.NewValidationError("Axes", "at least one y axis is required", len(c.Axes))
	}
	if c.Kind == KindDualAxis && len(c.Axes) != 2 {
		return errors.NewValidationError("Axes", "dual-axis chart needs exactly two axes", len(c.Axes))
	}
	if len(c.Series) == 0 {
		return errors.NewNoValidDataError("Chart.Validate", c.ID)
	}
	for i := 1; i < len(c.XDomain); i++ {
		if !(c.XDomain[i] > c.XDomain[i-1]) {
			return errors.NewValueError("Chart.Validate", "x domain is not strictly increasing")
		}
	}
	if c.XRange != nil && !(c.XRange[0] < c.XRange[1]) {
		return errors.NewValidationError("XRange", "min must be below max", *c.XRange)
	}
	for _, s := range c.Series {
		if s.Axis < 0 || s.Axis >= len(c.Axes) {
			return errors.NewValidationError("Series.Axis", "axis index out of range", s.Axis)
		}
		if c.Kind != KindScatter && len(s.Points) != len(c.XDomain) {
			return errors.NewDimensionError("Chart.Validate", len(c.XDomain), len(s.Points), 0)
		}
	}
	return nil
}

// SeriesOn returns the series drawn against axis.
func (c *Chart) SeriesOn(axis int) []Series {
	var out []Series
	for _, s := range c.Series {
		if s.Axis == axis {
			out = append(out, s)
		}
	}
	return out
}

// Labeled reports whether the i-th domain value gets a tick label.
func (c *Chart) Labeled(i int) bool {
	if c.TickEvery <= 1 {
		return true
	}
	return i%c.TickEvery == 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
