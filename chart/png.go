package chart

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// PNGRenderer draws charts as static PNG images with gonum/plot.
//
// gonum/plot has no twin axes, so a dual-axis chart is drawn as two plots
// stacked vertically with aligned data areas and a shared x range.
type PNGRenderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewPNGRenderer returns a renderer producing 10x6 inch images.
func NewPNGRenderer() PNGRenderer {
	return PNGRenderer{Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

// WritePNG encodes c as PNG into w.
func (r PNGRenderer) WritePNG(w io.Writer, c *Chart) (err error) {
	defer errors.Recover(&err, "chart.PNGRenderer.WritePNG")

	plots, err := r.Plots(c)
	if err != nil {
		return err
	}
	width, height := r.size()

	if len(plots) == 1 {
		wt, err := plots[0].WriterTo(width, height, "png")
		if err != nil {
			return errors.Wrap(err, "encode png")
		}
		_, err = wt.WriteTo(w)
		return errors.Wrap(err, "write png")
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)
	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	tiles := draw.Tiles{Rows: len(plots), Cols: 1, PadTop: vg.Points(4), PadBottom: vg.Points(4), PadX: vg.Points(4), PadY: vg.Points(8)}
	canvases := plot.Align(grid, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}
	_, err = vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return errors.Wrap(err, "write png")
}

// SavePNG writes c to path, creating the directory if needed. The image is
// written to a temporary file next to path and renamed over it, so
// concurrent writers never leave a truncated file behind.
func (r PNGRenderer) SavePNG(path string, c *Chart) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temporary file for %s", path)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err := r.WritePNG(f, c); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", f.Name())
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return errors.Wrapf(err, "chmod %s", f.Name())
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return errors.Wrapf(err, "rename %s to %s", f.Name(), path)
	}
	return nil
}

// Plots builds the gonum plots of c: one per axis for a dual-axis chart,
// one otherwise.
func (r PNGRenderer) Plots(c *Chart) ([]*plot.Plot, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var plots []*plot.Plot
	for axis := range c.Axes {
		if c.Kind != KindDualAxis && axis > 0 {
			break
		}
		p := plot.New()
		p.Y.Label.Text = c.Axes[axis].Label
		p.Y.Tick.Marker = yTicker(c.Axes[axis].Format)
		p.Legend.Top = true

		series := c.Series
		if c.Kind == KindDualAxis {
			series = c.SeriesOn(axis)
		}
		for _, s := range series {
			if err := addSeries(p, s); err != nil {
				return nil, err
			}
		}
		if c.GridY {
			g := plotter.NewGrid()
			g.Vertical.Color = nil
			p.Add(g)
		}
		r.xAxis(p, c)
		plots = append(plots, p)
	}

	plots[0].Title.Text = c.Title
	// only the bottom plot of a stack carries the x label
	plots[len(plots)-1].X.Label.Text = c.XLabel
	return plots, nil
}

func (r PNGRenderer) size() (vg.Length, vg.Length) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = 10 * vg.Inch
	}
	if h <= 0 {
		h = 6 * vg.Inch
	}
	return w, h
}

func (r PNGRenderer) xAxis(p *plot.Plot, c *Chart) {
	switch {
	case c.XRange != nil:
		p.X.Min, p.X.Max = c.XRange[0], c.XRange[1]
	case len(c.XDomain) > 0:
		p.X.Min, p.X.Max = c.XDomain[0], c.XDomain[len(c.XDomain)-1]
	}

	switch {
	case len(c.XTicks) > 0:
		ticks := make(plot.ConstantTicks, len(c.XTicks))
		for i, x := range c.XTicks {
			ticks[i] = plot.Tick{Value: x, Label: strconv.FormatFloat(x, 'f', -1, 64)}
		}
		p.X.Tick.Marker = ticks
	case len(c.XDomain) > 0:
		ticks := make(plot.ConstantTicks, len(c.XDomain))
		for i, x := range c.XDomain {
			ticks[i] = plot.Tick{Value: x}
			if c.Labeled(i) {
				ticks[i].Label = strconv.FormatFloat(x, 'f', -1, 64)
			}
		}
		p.X.Tick.Marker = ticks
	}
}

func yTicker(f AxisFormat) plot.Ticker {
	if f != AxisCurrency {
		return plot.DefaultTicks{}
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		ticks := plot.DefaultTicks{}.Ticks(min, max)
		for i := range ticks {
			if !ticks[i].IsMinor() {
				ticks[i].Label = FormatCurrency(ticks[i].Value)
			}
		}
		return ticks
	})
}

// addSeries draws s on p. Gaps split a line into separate runs.
func addSeries(p *plot.Plot, s Series) error {
	col := parseColor(s.Color)

	if s.Style == StyleScatter || s.Style == StyleHighlight {
		xys := toXYs(finitePoints(s.Points))
		if len(xys) == 0 {
			return nil
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrap(err, "scatter "+s.Name)
		}
		sc.GlyphStyle.Color = col
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		if s.Style == StyleHighlight {
			sc.GlyphStyle.Radius = vg.Points(6)
		}
		p.Add(sc)
		p.Legend.Add(s.Name, sc)
		return nil
	}

	var legend plot.Thumbnailer
	for _, run := range runs(s.Points) {
		xys := toXYs(run)
		if len(xys) == 1 {
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return errors.Wrap(err, "point "+s.Name)
			}
			sc.GlyphStyle.Color = col
			p.Add(sc)
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return errors.Wrap(err, "line "+s.Name)
		}
		line.LineStyle.Color = col
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		legend = line

		if s.Style == StyleLineMarkers {
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return errors.Wrap(err, "markers "+s.Name)
			}
			sc.GlyphStyle.Color = col
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(sc)
		}
	}
	if legend != nil {
		p.Legend.Add(s.Name, legend)
	}
	return nil
}

// runs splits points at non-finite values.
func runs(pts []XY) [][]XY {
	var (
		out [][]XY
		cur []XY
	)
	for _, pt := range pts {
		if finite(pt.X) && finite(pt.Y) {
			cur = append(cur, pt)
			continue
		}
		if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func toXYs(pts []XY) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return xys
}
