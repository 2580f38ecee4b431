package chart

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// DualAxisConfig is the cosmetic configuration of a dual-axis chart.
type DualAxisConfig struct {
	ID        string
	Title     string
	XLabel    string
	Left      Axis
	Right     Axis
	LeftName  string
	RightName string
	// Colors default to red on the left and blue on the right.
	LeftColor  string
	RightColor string
	LeftStyle  Style
	RightStyle Style
	TickEvery  int
	GridY      bool
}

// DualAxis builds a two-axis time series chart. Both series are placed on a
// shared annual domain, the sorted union of their years; a year a series has
// no value for is a gap. When a series has several observations in one year
// the last non-missing one is used.
func DualAxis(cfg DualAxisConfig, left, right dataset.TimeSeries) (*Chart, error) {
	domain := yearDomain(left, right)
	if len(domain) == 0 {
		return nil, errors.NewNoValidDataError("chart.DualAxis", cfg.ID)
	}

	c := &Chart{
		ID:        cfg.ID,
		Title:     cfg.Title,
		Kind:      KindDualAxis,
		XLabel:    cfg.XLabel,
		XDomain:   domain,
		TickEvery: cfg.TickEvery,
		Axes:      []Axis{cfg.Left, cfg.Right},
		GridY:     cfg.GridY,
		Series: []Series{
			{Name: nameOr(cfg.LeftName, left.Name), Axis: 0, Style: cfg.LeftStyle, Color: colorOr(cfg.LeftColor, ColorRed), Points: annual(left, domain)},
			{Name: nameOr(cfg.RightName, right.Name), Axis: 1, Style: cfg.RightStyle, Color: colorOr(cfg.RightColor, ColorBlue), Points: annual(right, domain)},
		},
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ScatterConfig is the cosmetic configuration of a scatter chart.
type ScatterConfig struct {
	ID            string
	Title         string
	XLabel        string
	Y             Axis
	XRange        *[2]float64
	PointsName    string
	FitName       string
	HighlightName string
}

// ScatterFit builds a point cloud with a fitted line overlay and one
// highlighted point. Non-finite points are dropped; a non-finite highlight
// is not drawn.
func ScatterFit(cfg ScatterConfig, points, fit []XY, highlight XY) (*Chart, error) {
	cloud := finitePoints(points)
	if len(cloud) == 0 {
		return nil, errors.NewNoValidDataError("chart.ScatterFit", cfg.ID)
	}

	c := &Chart{
		ID:     cfg.ID,
		Title:  cfg.Title,
		Kind:   KindScatter,
		XLabel: cfg.XLabel,
		XRange: cfg.XRange,
		Axes:   []Axis{cfg.Y},
		Series: []Series{
			{Name: nameOr(cfg.PointsName, "Counties"), Style: StyleScatter, Color: ColorBlue, Points: cloud},
		},
	}
	if line := finitePoints(fit); len(line) > 0 {
		c.Series = append(c.Series, Series{Name: nameOr(cfg.FitName, "Fit"), Style: StyleFitLine, Color: ColorRed, Points: line})
	}
	if finite(highlight.X) && finite(highlight.Y) {
		c.Series = append(c.Series, Series{Name: nameOr(cfg.HighlightName, "Highlight"), Style: StyleHighlight, Color: ColorRed, Points: []XY{highlight}})
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LinesConfig is the cosmetic configuration of a single-axis line chart.
type LinesConfig struct {
	ID     string
	Title  string
	XLabel string
	Y      Axis
	XTicks []float64
	GridY  bool
	// Colors are applied to the series in order; missing entries use the default.
	Colors []string
}

// Lines builds a single-axis chart of one or more annual series.
func Lines(cfg LinesConfig, series ...dataset.TimeSeries) (*Chart, error) {
	domain := yearDomain(series...)
	if len(domain) == 0 {
		return nil, errors.NewNoValidDataError("chart.Lines", cfg.ID)
	}

	c := &Chart{
		ID:      cfg.ID,
		Title:   cfg.Title,
		Kind:    KindLines,
		XLabel:  cfg.XLabel,
		XDomain: domain,
		XTicks:  cfg.XTicks,
		Axes:    []Axis{cfg.Y},
		GridY:   cfg.GridY,
	}
	for i, s := range series {
		color := ColorDefault
		if i < len(cfg.Colors) && cfg.Colors[i] != "" {
			color = cfg.Colors[i]
		}
		c.Series = append(c.Series, Series{Name: s.Name, Style: StyleLine, Color: color, Points: annual(s, domain)})
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func yearDomain(series ...dataset.TimeSeries) []float64 {
	seen := make(map[int]struct{})
	for _, s := range series {
		for _, p := range s.Points {
			seen[p.Time.Year()] = struct{}{}
		}
	}
	domain := make([]float64, 0, len(seen))
	for y := range seen {
		domain = append(domain, float64(y))
	}
	sort.Float64s(domain)
	return domain
}

func annual(s dataset.TimeSeries, domain []float64) []XY {
	byYear := make(map[int]float64, len(s.Points))
	for _, p := range s.Points {
		if p.Missing() {
			continue
		}
		byYear[p.Time.Year()] = p.Value
	}
	out := make([]XY, len(domain))
	for i, x := range domain {
		v, ok := byYear[int(x)]
		if !ok {
			v = math.NaN()
		}
		out[i] = XY{X: x, Y: v}
	}
	return out
}

func finitePoints(pts []XY) []XY {
	out := make([]XY, 0, len(pts))
	for _, p := range pts {
		if finite(p.X) && finite(p.Y) {
			out = append(out, p)
		}
	}
	return out
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func colorOr(color, fallback string) string {
	if color != "" {
		return color
	}
	return fallback
}
