package chart

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

func series(t *testing.T, name string, values map[int]float64, years ...int) dataset.TimeSeries {
	t.Helper()
	points := make([]dataset.Observation, len(years))
	for i, y := range years {
		v, ok := values[y]
		if !ok {
			v = math.NaN()
		}
		points[i] = dataset.Observation{Time: dataset.YearStart(y), Value: v}
	}
	s, err := dataset.NewTimeSeries(name, points)
	if err != nil {
		t.Fatalf("NewTimeSeries() error = %v", err)
	}
	return s
}

func sfConfig() DualAxisConfig {
	return DualAxisConfig{
		ID:        "sf",
		Title:     "San Francisco",
		XLabel:    "Year",
		Left:      Axis{Label: "Population"},
		Right:     Axis{Label: "Median price", Format: AxisCurrency},
		TickEvery: 2,
	}
}

func TestDualAxis_ThreeRows(t *testing.T) {
	pop := series(t, "Population", map[int]float64{2000: 776000, 2001: 780000, 2002: 784000}, 2000, 2001, 2002)

	// monthly price points within the same three years
	price := dataset.TimeSeries{Name: "Price"}
	for i, y := range []int{2000, 2001, 2002} {
		price.Points = append(price.Points, dataset.Observation{
			Time:  time.Date(y, time.March, 31, 0, 0, 0, 0, time.UTC),
			Value: 902000 + 12000*float64(i),
		})
	}

	c, err := DualAxis(sfConfig(), pop, price)
	if err != nil {
		t.Fatalf("DualAxis() error = %v", err)
	}
	if len(c.XDomain) != 3 {
		t.Fatalf("len(XDomain) = %d, want 3", len(c.XDomain))
	}
	for axis := 0; axis < 2; axis++ {
		on := c.SeriesOn(axis)
		if len(on) != 1 {
			t.Fatalf("SeriesOn(%d) = %d series, want 1", axis, len(on))
		}
		if len(on[0].Points) != 3 {
			t.Errorf("axis %d has %d points, want 3", axis, len(on[0].Points))
		}
	}
	if c.Series[0].Color != ColorRed || c.Series[1].Color != ColorBlue {
		t.Errorf("colors = %s, %s", c.Series[0].Color, c.Series[1].Color)
	}
	if got := c.Series[1].Points[2].Y; got != 926000 {
		t.Errorf("price 2002 = %v, want 926000", got)
	}
}

func TestDualAxis_UnionDomain(t *testing.T) {
	left := series(t, "left", map[int]float64{2000: 1, 2002: 3}, 2000, 2002)
	right := series(t, "right", map[int]float64{2001: 20, 2003: 40}, 2001, 2003)

	c, err := DualAxis(sfConfig(), left, right)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{2000, 2001, 2002, 2003}
	if len(c.XDomain) != len(want) {
		t.Fatalf("XDomain = %v, want %v", c.XDomain, want)
	}
	for i := range want {
		if c.XDomain[i] != want[i] {
			t.Errorf("XDomain[%d] = %v, want %v", i, c.XDomain[i], want[i])
		}
	}
	if !math.IsNaN(c.Series[0].Points[1].Y) || !math.IsNaN(c.Series[1].Points[0].Y) {
		t.Error("years without a value should be gaps")
	}
}

func TestDualAxis_Empty(t *testing.T) {
	_, err := DualAxis(sfConfig(), dataset.TimeSeries{}, dataset.TimeSeries{})
	if !errors.Is(err, errors.ErrNoValidData) {
		t.Errorf("error = %v, want ErrNoValidData", err)
	}
}

func TestScatterFit(t *testing.T) {
	points := []XY{{0.1, 0.5}, {0.2, math.NaN()}, {0.3, 0.7}}
	fit := []XY{{-0.25, 0.4}, {0.25, 0.8}}

	tests := []struct {
		name       string
		highlight  XY
		wantSeries int
	}{
		{"with highlight", XY{0.08, 0.79}, 3},
		{"missing highlight", XY{math.NaN(), math.NaN()}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ScatterFit(ScatterConfig{ID: "corr", Y: Axis{Label: "r"}}, points, fit, tt.highlight)
			if err != nil {
				t.Fatal(err)
			}
			if len(c.Series) != tt.wantSeries {
				t.Errorf("len(Series) = %d, want %d", len(c.Series), tt.wantSeries)
			}
			if got := len(c.Series[0].Points); got != 2 {
				t.Errorf("cloud has %d points, want 2", got)
			}
		})
	}

	if _, err := ScatterFit(ScatterConfig{ID: "corr"}, nil, fit, XY{}); !errors.Is(err, errors.ErrNoValidData) {
		t.Errorf("empty cloud error = %v, want ErrNoValidData", err)
	}
}

func TestLines(t *testing.T) {
	a := series(t, "units", map[int]float64{2000: 1500, 2001: 3000}, 2000, 2001)
	b := series(t, "pop", map[int]float64{2000: 4000, 2001: 8000}, 2000, 2001)

	c, err := Lines(LinesConfig{ID: "newcon", Y: Axis{Label: "Cumulated"}, Colors: []string{ColorRed}}, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind != KindLines || len(c.Series) != 2 {
		t.Fatalf("Kind = %v, series = %d", c.Kind, len(c.Series))
	}
	if c.Series[0].Color != ColorRed || c.Series[1].Color != ColorDefault {
		t.Errorf("colors = %s, %s", c.Series[0].Color, c.Series[1].Color)
	}
}

func TestValidate(t *testing.T) {
	ok := func() *Chart {
		return &Chart{
			ID:      "c",
			Kind:    KindLines,
			XDomain: []float64{1, 2},
			Axes:    []Axis{{}},
			Series:  []Series{{Points: []XY{{1, 1}, {2, 2}}}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Chart)
		wantErr bool
	}{
		{"valid", func(*Chart) {}, false},
		{"no id", func(c *Chart) { c.ID = "" }, true},
		{"no axes", func(c *Chart) { c.Axes = nil }, true},
		{"dual with one axis", func(c *Chart) { c.Kind = KindDualAxis }, true},
		{"no series", func(c *Chart) { c.Series = nil }, true},
		{"unsorted domain", func(c *Chart) { c.XDomain = []float64{2, 1} }, true},
		{"bad range", func(c *Chart) { c.XRange = &[2]float64{1, 0} }, true},
		{"axis out of range", func(c *Chart) { c.Series[0].Axis = 1 }, true},
		{"length mismatch", func(c *Chart) { c.Series[0].Points = c.Series[0].Points[:1] }, true},
		{"scatter ignores domain", func(c *Chart) { c.Kind = KindScatter; c.XDomain = nil }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ok()
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	var nilChart *Chart
	if err := nilChart.Validate(); err == nil {
		t.Error("nil chart should not validate")
	}
}

func TestLabeled(t *testing.T) {
	c := &Chart{TickEvery: 3}
	var got []int
	for i := 0; i < 7; i++ {
		if c.Labeled(i) {
			got = append(got, i)
		}
	}
	if len(got) != 3 || got[0] != 0 || got[1] != 3 || got[2] != 6 {
		t.Errorf("labeled = %v, want [0 3 6]", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1234567, "$1,234,567"},
		{902000.4, "$902,000"},
		{-5, "-$5"},
		{math.NaN(), ""},
		{math.Inf(1), ""},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := FormatAxis(AxisNumber, 18002); got != "18,002" {
		t.Errorf("FormatAxis(number) = %q", got)
	}
}

func TestParseColor(t *testing.T) {
	c := parseColor("#d62728")
	if c.R != 0xd6 || c.G != 0x27 || c.B != 0x28 || c.A != 0xff {
		t.Errorf("parseColor = %+v", c)
	}
	if parseColor("red") != parseColor(ColorDefault) {
		t.Error("invalid color should fall back to the default")
	}
}

func gappedChart(t *testing.T) *Chart {
	t.Helper()
	left := series(t, "Population", map[int]float64{2000: 1, 2001: 2, 2002: 3}, 2000, 2001, 2002)
	right := series(t, "Price", map[int]float64{2000: 10, 2002: 30}, 2000, 2002)
	c, err := DualAxis(sfConfig(), left, right)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestEChartsRenderer_Snippet(t *testing.T) {
	c := gappedChart(t)

	s, err := EChartsRenderer{}.Snippet(c)
	if err != nil {
		t.Fatalf("Snippet() error = %v", err)
	}
	if s.ID != "sf" {
		t.Errorf("ID = %q", s.ID)
	}
	if !strings.Contains(string(s.Element), `id="sf"`) {
		t.Errorf("element does not carry the chart id: %s", s.Element)
	}
	if strings.Contains(string(s.Script), "NaN") {
		t.Error("script must not contain NaN")
	}
	if !strings.Contains(string(s.Script), `"-"`) {
		t.Error("gap should be encoded as \"-\"")
	}
}

func TestEChartsRenderer_RenderPage(t *testing.T) {
	scatter, err := ScatterFit(ScatterConfig{ID: "corr", Y: Axis{Label: "r"}, XRange: &[2]float64{-0.5, 1.5}},
		[]XY{{0.1, 0.5}, {0.3, 0.7}}, []XY{{-0.25, 0.4}, {0.25, 0.8}}, XY{0.1, 0.5})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := (EChartsRenderer{}).RenderPage(&buf, "Housing", gappedChart(t), scatter); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<title>Housing</title>", "sf", "corr"} {
		if !strings.Contains(out, want) {
			t.Errorf("page does not contain %q", want)
		}
	}
}

func TestEChartsRenderer_Invalid(t *testing.T) {
	if _, err := (EChartsRenderer{}).Snippet(&Chart{}); err == nil {
		t.Error("invalid chart should fail")
	}
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestPNGRenderer_WritePNG(t *testing.T) {
	lines, err := Lines(LinesConfig{ID: "newcon", Y: Axis{Label: "Cumulated"}, XTicks: []float64{2000, 2002}, GridY: true},
		series(t, "units", map[int]float64{2000: 1, 2001: 2, 2002: 3}, 2000, 2001, 2002))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		chart *Chart
		plots int
	}{
		{"dual axis with gap", gappedChart(t), 2},
		{"lines", lines, 1},
	}
	r := NewPNGRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plots, err := r.Plots(tt.chart)
			if err != nil {
				t.Fatal(err)
			}
			if len(plots) != tt.plots {
				t.Errorf("len(Plots) = %d, want %d", len(plots), tt.plots)
			}

			var buf bytes.Buffer
			if err := r.WritePNG(&buf, tt.chart); err != nil {
				t.Fatalf("WritePNG() error = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
				t.Error("output is not a PNG")
			}
		})
	}
}

func TestPNGRenderer_SavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "pop_newcon_cumulated.png")
	if err := NewPNGRenderer().SavePNG(path, gappedChart(t)); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty file")
	}
}

func TestPNGRenderer_SavePNG_Concurrent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pop_newcon_cumulated.png")
	c := gappedChart(t)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- NewPNGRenderer().SavePNG(path, c)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("SavePNG() error = %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("saved file is not a complete PNG: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the image", len(entries))
	}
}

func TestPNGRenderer_SavePNG_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	if err := NewPNGRenderer().SavePNG(path, &Chart{}); err == nil {
		t.Fatal("SavePNG() of an invalid chart should fail")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory holds %d entries after a failed save", len(entries))
	}
}

func TestRuns(t *testing.T) {
	nan := math.NaN()
	got := runs([]XY{{0, nan}, {1, 1}, {2, 2}, {3, nan}, {4, 4}})
	if len(got) != 2 || len(got[0]) != 2 || len(got[1]) != 1 {
		t.Errorf("runs = %v", got)
	}
}
