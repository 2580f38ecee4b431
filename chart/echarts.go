package chart

import (
	"html/template"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// currencyFormatter renders axis labels as "$1,234,567".
const currencyFormatter = `function (v) { return '$' + Math.round(v).toLocaleString('en-US'); }`

// missing is how ECharts encodes a gap in a line.
const missing = "-"

// DefaultAssetsHost is where go-echarts loads echarts.min.js from.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// EChartsRenderer draws charts as interactive ECharts HTML.
type EChartsRenderer struct {
	// AssetsHost overrides the URL prefix of echarts.min.js.
	AssetsHost string
	Width      string
	Height     string
}

// Snippet is the embeddable HTML of one chart.
type Snippet struct {
	ID      string
	Element template.HTML
	Script  template.HTML
}

// ScriptURL returns the echarts.min.js URL a page embedding snippets must load.
func (r EChartsRenderer) ScriptURL() string {
	host := r.AssetsHost
	if host == "" {
		host = DefaultAssetsHost
	}
	return host + opts.EchartsJS
}

type echart interface {
	components.Charter
	RenderSnippet() render.ChartSnippet
}

// Snippet renders c as a div and its init script.
func (r EChartsRenderer) Snippet(c *Chart) (s Snippet, err error) {
	defer errors.Recover(&err, "chart.EChartsRenderer.Snippet")

	if err := c.Validate(); err != nil {
		return Snippet{}, err
	}
	cs := r.build(c).RenderSnippet()
	return Snippet{
		ID:      c.ID,
		Element: template.HTML(cs.Element), //nolint:gosec // generated by go-echarts
		Script:  template.HTML(cs.Script),  //nolint:gosec // generated by go-echarts
	}, nil
}

// RenderPage writes a standalone HTML page holding every chart.
func (r EChartsRenderer) RenderPage(w io.Writer, title string, cs ...*Chart) (err error) {
	defer errors.Recover(&err, "chart.EChartsRenderer.RenderPage")

	page := components.NewPage()
	page.SetPageTitle(title)
	if r.AssetsHost != "" {
		page.SetAssetsHost(r.AssetsHost)
	}
	for _, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		page.AddCharts(r.build(c))
	}
	return page.Render(w)
}

func (r EChartsRenderer) init(c *Chart) opts.Initialization {
	init := opts.Initialization{
		PageTitle:  c.Title,
		ChartID:    c.ID,
		Width:      r.Width,
		Height:     r.Height,
		AssetsHost: r.AssetsHost,
	}
	if init.Width == "" {
		init.Width = "900px"
	}
	if init.Height == "" {
		init.Height = "540px"
	}
	return init
}

func (r EChartsRenderer) build(c *Chart) echart {
	if c.Kind == KindScatter {
		return r.scatter(c)
	}
	return r.line(c)
}

func yAxis(a Axis, grid bool, position string) opts.YAxis {
	y := opts.YAxis{
		Name:         a.Label,
		Type:         "value",
		Position:     position,
		NameLocation: "middle",
		NameGap:      70,
		Scale:        opts.Bool(true),
		AxisLabel:    &opts.AxisLabel{Show: opts.Bool(true)},
		SplitLine:    &opts.SplitLine{Show: opts.Bool(grid)},
	}
	if a.Format == AxisCurrency {
		y.AxisLabel.Formatter = types.FuncStr(opts.FuncOpts(currencyFormatter))
	}
	return y
}

// line draws dual-axis and multi-line charts on a category axis of years.
func (r EChartsRenderer) line(c *Chart) *charts.Line {
	labels := make([]string, len(c.XDomain))
	for i, x := range c.XDomain {
		labels[i] = strconv.FormatFloat(x, 'f', -1, 64)
	}

	interval := "auto"
	if c.TickEvery > 1 {
		interval = strconv.Itoa(c.TickEvery - 1)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(r.init(c)),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         c.XLabel,
			Type:         "category",
			NameLocation: "middle",
			NameGap:      30,
			AxisLabel:    &opts.AxisLabel{Show: opts.Bool(true), Interval: interval, Rotate: 30},
		}),
		charts.WithYAxisOpts(yAxis(c.Axes[0], c.GridY, "left")),
	)
	if len(c.Axes) > 1 {
		line.ExtendYAxis(yAxis(c.Axes[1], c.GridY, "right"))
	}

	line.SetXAxis(labels)
	for _, s := range c.Series {
		data := make([]opts.LineData, len(s.Points))
		for i, p := range s.Points {
			if finite(p.Y) {
				data[i] = opts.LineData{Value: p.Y}
			} else {
				data[i] = opts.LineData{Value: missing}
			}
		}
		line.AddSeries(s.Name, data,
			charts.WithLineChartOpts(opts.LineChart{
				YAxisIndex: s.Axis,
				ShowSymbol: opts.Bool(s.Style == StyleLineMarkers),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color, Width: 2}),
		)
	}
	return line
}

// scatter draws a point cloud with line overlays on a value x axis.
func (r EChartsRenderer) scatter(c *Chart) *charts.Scatter {
	xAxis := opts.XAxis{
		Name:         c.XLabel,
		Type:         "value",
		NameLocation: "middle",
		NameGap:      30,
		Scale:        opts.Bool(true),
	}
	if c.XRange != nil {
		xAxis.Min = c.XRange[0]
		xAxis.Max = c.XRange[1]
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(r.init(c)),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis(c.Axes[0], c.GridY, "left")),
	)

	var overlays []charts.Overlaper
	for _, s := range c.Series {
		switch s.Style {
		case StyleFitLine, StyleLine, StyleLineMarkers:
			data := make([]opts.LineData, 0, len(s.Points))
			for _, p := range s.Points {
				data = append(data, opts.LineData{Value: []float64{p.X, p.Y}})
			}
			fit := charts.NewLine()
			fit.AddSeries(s.Name, data,
				charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color, Width: 2}),
			)
			overlays = append(overlays, fit)
		default:
			size := 8
			if s.Style == StyleHighlight {
				size = 14
			}
			data := make([]opts.ScatterData, 0, len(s.Points))
			for _, p := range s.Points {
				data = append(data, opts.ScatterData{Value: []float64{p.X, p.Y}})
			}
			scatter.AddSeries(s.Name, data,
				charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: size}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			)
		}
	}
	if len(overlays) > 0 {
		scatter.Overlap(overlays...)
	}
	return scatter
}
