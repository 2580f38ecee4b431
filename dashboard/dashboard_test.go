package dashboard

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/sfhousing/chart"
	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/dataset/datasettest"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

func loadFixtures(t *testing.T) *dataset.Tables {
	t.Helper()
	tables, err := dataset.NewLoader(datasettest.Dir(t)).Load()
	require.NoError(t, err)
	return tables
}

func TestSelector_Counties(t *testing.T) {
	sel := NewSelector(loadFixtures(t).Populations)

	assert.Equal(t, []string{"AZ", "CA", "IL", "NY", "TX", "WA"}, sel.States())

	for _, state := range sel.States() {
		var want []string
		seen := map[string]bool{}
		for _, r := range datasettest.Regions {
			if r.State == state && !seen[r.County] {
				seen[r.County] = true
				want = append(want, r.County)
			}
		}
		sort.Strings(want)

		got := sel.Counties(state)
		assert.Equal(t, want, got, "counties of %s", state)
		assert.True(t, sort.StringsAreSorted(got))
	}

	assert.Nil(t, sel.Counties("ZZ"))
}

func TestSelector_DefaultAndResolve(t *testing.T) {
	sel := NewSelector(loadFixtures(t).Populations)

	def := sel.Default()
	assert.Equal(t, Selection{State: "TX", County: "Harris County"}, def)

	tests := []struct {
		name          string
		state, county string
		want          Selection
	}{
		{"valid", "CA", "Los Angeles County", Selection{"CA", "Los Angeles County"}},
		{"county of another state", "CA", "Harris County", Selection{"CA", "Alameda County"}},
		{"empty county", "NY", "", Selection{"NY", "Kings County"}},
		{"unknown state", "ZZ", "Nowhere", def},
		{"empty", "", "", def},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sel.Resolve(tt.state, tt.county))
		})
	}
}

func TestSelector_DefaultClamped(t *testing.T) {
	pop, err := dataset.NewPopulationTable(
		[]dataset.Region{{County: "A", State: "CA"}, {County: "B", State: "NY"}},
		map[dataset.Region][]dataset.PopulationRow{
			{County: "A", State: "CA"}: {{Year: 2000, Population: 1, Density: 1}},
			{County: "B", State: "NY"}: {{Year: 2000, Population: 2, Density: 2}},
		})
	require.NoError(t, err)

	assert.Equal(t, Selection{State: "NY", County: "B"}, NewSelector(pop).Default())
}

func TestRecompute(t *testing.T) {
	tables := loadFixtures(t)

	page, err := Recompute(tables, Selection{State: "CA", County: "Alameda County"})
	require.NoError(t, err)

	assert.Equal(t, HousingTitle, page.Title)
	ids := make([]string, len(page.Panels))
	for i, p := range page.Panels {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{PanelSF, PanelCounties, PanelCorrelation, PanelDensity, PanelConstruction}, ids)
	assert.Len(t, page.Charts(), 5)

	sf, ok := page.Panel(PanelSF)
	require.True(t, ok)
	assert.Equal(t, chart.KindDualAxis, sf.Chart.Kind)
	assert.Len(t, sf.Chart.XDomain, 3)
	assert.Contains(t, strings.Join(sf.Epilogue, " "), "is 1.00")

	counties, ok := page.Panel(PanelCounties)
	require.True(t, ok)
	require.Len(t, counties.Controls, 2)
	assert.Equal(t, "CA", counties.Controls[0].Value)
	assert.Equal(t, "Alameda County", counties.Controls[1].Value)
	assert.Len(t, counties.Controls[1].Options, 3)
	assert.Equal(t, "Alameda County, CA", counties.Chart.Title)

	corr, ok := page.Panel(PanelCorrelation)
	require.True(t, ok)
	assert.Contains(t, strings.Join(corr.Epilogue, " "), "relatively high 0.79")

	density, ok := page.Panel(PanelDensity)
	require.True(t, ok)
	text := strings.Join(density.Epilogue, " ")
	assert.Contains(t, text, "Pearson coefficient:")
	assert.NotContains(t, text, "NaN")

	construction, ok := page.Panel(PanelConstruction)
	require.True(t, ok)
	assert.Equal(t, chart.KindLines, construction.Chart.Kind)
	assert.Len(t, construction.Chart.XTicks, 10)

	_, ok = page.Panel("missing")
	assert.False(t, ok)
}

func TestRecompute_SelectionOnlyChangesCounties(t *testing.T) {
	tables := loadFixtures(t)

	a, err := Recompute(tables, Selection{State: "CA", County: "San Francisco County"})
	require.NoError(t, err)
	b, err := Recompute(tables, Selection{State: "NY", County: "Kings County"})
	require.NoError(t, err)

	for i := range a.Panels {
		if a.Panels[i].ID == PanelCounties {
			assert.NotEqual(t, a.Panels[i].Chart.Series, b.Panels[i].Chart.Series)
			continue
		}
		assert.Equal(t, a.Panels[i], b.Panels[i], "panel %s", a.Panels[i].ID)
	}
}

func TestRecompute_Errors(t *testing.T) {
	tables := loadFixtures(t)

	_, err := Recompute(tables, Selection{State: "TX", County: "Loving County"})
	assert.True(t, errors.Is(err, errors.ErrNoValidData), "got %v", err)

	_, err = Recompute(nil, Selection{})
	assert.Error(t, err)
}

func TestHyperparameters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		h       Hyperparameters
		wantErr bool
	}{
		{"defaults", DefaultHyperparameters(), false},
		{"max depth bounds", Hyperparameters{MaxDepth: 100, Trees: 300, InputFeature: "x"}, false},
		{"no tree limit", Hyperparameters{MaxDepth: 10, Trees: NoTreeLimit, InputFeature: "x"}, false},
		{"depth below min", Hyperparameters{MaxDepth: 0, Trees: 100, InputFeature: "x"}, true},
		{"depth off step", Hyperparameters{MaxDepth: 25, Trees: 100, InputFeature: "x"}, true},
		{"depth above max", Hyperparameters{MaxDepth: 110, Trees: 100, InputFeature: "x"}, true},
		{"trees not offered", Hyperparameters{MaxDepth: 20, Trees: 150, InputFeature: "x"}, true},
		{"empty feature", Hyperparameters{MaxDepth: 20, Trees: 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.h.Validate()
			if tt.wantErr {
				var verr *errors.ValidationError
				assert.True(t, errors.As(err, &verr), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseHyperparameters(t *testing.T) {
	h, err := ParseHyperparameters("", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultHyperparameters(), h)

	h, err = ParseHyperparameters("50", "No limit", "DOLocationID")
	require.NoError(t, err)
	assert.Equal(t, Hyperparameters{MaxDepth: 50, Trees: NoTreeLimit, InputFeature: "DOLocationID"}, h)

	_, err = ParseHyperparameters("deep", "", "")
	assert.Error(t, err)
	_, err = ParseHyperparameters("", "many", "")
	assert.Error(t, err)
	_, err = ParseHyperparameters("15", "", "")
	assert.Error(t, err)
}

func TestMLTemplate(t *testing.T) {
	page, err := MLTemplate(Hyperparameters{MaxDepth: 30, Trees: NoTreeLimit, InputFeature: "PULocationID"})
	require.NoError(t, err)

	assert.Equal(t, MLTitle, page.Title)
	assert.Empty(t, page.Charts())

	training, ok := page.Panel("training")
	require.True(t, ok)
	require.Len(t, training.Controls, 3)

	depth := training.Controls[0]
	assert.Equal(t, ControlSlider, depth.Kind)
	assert.Equal(t, "30", depth.Value)
	assert.Equal(t, [3]int{10, 100, 10}, [3]int{depth.Min, depth.Max, depth.Step})

	trees := training.Controls[1]
	require.Len(t, trees.Options, 4)
	assert.Equal(t, "No limit", trees.Options[3].Label)
	assert.True(t, trees.Selected(trees.Options[3]))

	assert.Equal(t, "PULocationID", training.Controls[2].Value)

	_, err = MLTemplate(Hyperparameters{})
	assert.Error(t, err)
}
