package dashboard

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/sfhousing/analysis"
	"github.com/YuminosukeSato/sfhousing/chart"
	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/linear"
	"github.com/YuminosukeSato/sfhousing/metrics"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// HousingTitle is the header of the housing page.
const HousingTitle = "Are high housing costs in San Francisco a result of population growth?"

var housingIntro = []string{
	"Before COVID hit, the population in San Francisco was on the rise. A lot of houses are jammed together to accommodate many people in the city. " +
		"Despite the high demand for housing, the cost of living in the city was extremely high. It is not surprising to say that the influx of people contributed to the rising housing prices. " +
		"In this project, we aim to establish a connection between population growth and housing costs by analyzing publicly available data from the city, the US Census, and a real estate company called Zillow.",
}

// constructionTicks are the labelled years of the construction panel.
var constructionTicks = linear.Linspace(2000, 2018, 10)

var (
	populationAxis = chart.Axis{Label: "Population"}
	priceAxis      = chart.Axis{Label: "House sale price", Format: chart.AxisCurrency}
)

// Recompute builds the housing page for sel. Only the counties panel
// depends on the selection. Any panel failure aborts the whole pass.
func Recompute(t *dataset.Tables, sel Selection) (*Page, error) {
	if t == nil {
		return nil, errors.NewValueError("dashboard.Recompute", "nil tables")
	}
	selector := NewSelector(t.Populations)

	page := &Page{Title: HousingTitle, Intro: housingIntro}
	builders := []func() (Panel, error){
		func() (Panel, error) { return sfPanel(t) },
		func() (Panel, error) { return countiesPanel(t, selector, sel) },
		func() (Panel, error) { return correlationPanel(t) },
		func() (Panel, error) { return densityPanel(t) },
		func() (Panel, error) { return constructionPanel(t) },
	}
	for _, build := range builders {
		panel, err := build()
		if err != nil {
			return nil, err
		}
		page.Panels = append(page.Panels, panel)
	}
	return page, nil
}

func sfPanel(t *dataset.Tables) (Panel, error) {
	s := analysis.SFSeries(t)
	c, err := chart.DualAxis(chart.DualAxisConfig{
		ID:        PanelSF,
		XLabel:    "Year",
		Left:      populationAxis,
		Right:     priceAxis,
		LeftName:  "Population",
		RightName: "House Price",
		LeftStyle: chart.StyleLineMarkers,
		TickEvery: 2,
		GridY:     true,
	}, s.Population, s.Price)
	if err != nil {
		return Panel{}, errors.Wrap(err, "sf panel")
	}

	epilogue := []string{
		"Since 2004, the population has been increasing, despite the financial market crash in 2008. " +
			"The house prices declined during the crash, they later rebounded with the financial recovery. " +
			"It may be useful to examine other counties to obtain a broader understanding of how population growth relates to house prices.",
	}
	if r, err := metrics.CorrelateSeries(s.Population, s.Price); err == nil {
		epilogue = append(epilogue, fmt.Sprintf("Over the years both series cover, the Pearson correlation between San Francisco population and house prices is %.2f.", r))
	}

	return Panel{
		ID:       PanelSF,
		Heading:  "Population and House sale price in San Francisco",
		Chart:    c,
		Epilogue: epilogue,
	}, nil
}

func countiesPanel(t *dataset.Tables, selector *Selector, sel Selection) (Panel, error) {
	sel = selector.Resolve(sel.State, sel.County)
	panel := Panel{
		ID:         PanelCounties,
		Paragraphs: []string{"Try your state and county!"},
		Controls:   selector.Controls(sel),
		Epilogue: []string{
			"Not all counties have complete data for the period. In some counties, house prices and population exhibit opposing trends. " +
				"It is not always accurate to assume that house prices increase with population growth or that population growth drives house prices up.",
		},
	}

	s, err := analysis.CountySeries(t, sel.Region())
	if err != nil {
		return Panel{}, errors.Wrapf(err, "counties panel for %s", sel.Region())
	}
	c, err := chart.DualAxis(chart.DualAxisConfig{
		ID:        PanelCounties,
		Title:     sel.Region().String(),
		XLabel:    "Year",
		Left:      populationAxis,
		Right:     priceAxis,
		LeftName:  "Population",
		RightName: "House Price",
		LeftStyle: chart.StyleLineMarkers,
		TickEvery: 2,
		GridY:     true,
	}, s.Population, s.Price)
	if err != nil {
		return Panel{}, errors.Wrapf(err, "counties panel for %s", sel.Region())
	}
	panel.Chart = c
	return panel, nil
}

func correlationPanel(t *dataset.Tables) (Panel, error) {
	s, err := analysis.CorrelationScatter(t, dataset.SanFrancisco, analysis.CorrelationThreshold)
	if err != nil {
		return Panel{}, errors.Wrap(err, "correlation panel")
	}
	c, err := chart.ScatterFit(chart.ScatterConfig{
		ID:            PanelCorrelation,
		Title:         "Correlation between population and house price",
		XLabel:        "Population Growth Rate",
		Y:             chart.Axis{Label: "Correlation"},
		XRange:        s.XRange,
		PointsName:    "Counties",
		FitName:       fmt.Sprintf("Fit (growth rate < %.2f)", analysis.CorrelationThreshold),
		HighlightName: "San Francisco",
	}, scatterPoints(s), fitPoints(s), highlight(s))
	if err != nil {
		return Panel{}, errors.Wrap(err, "correlation panel")
	}

	return Panel{
		ID:      PanelCorrelation,
		Heading: "Correlation between population and house prices",
		Paragraphs: []string{
			"We will utilize Pearson correlation coefficients to determine the degree of correlation between house prices and population growth. " +
				"To provide a basis for comparison, the scatter plot includes all other counties that possess sufficient data to calculate correlation.",
		},
		Chart: c,
		Epilogue: []string{
			"For some counties, the correlation between population growth and house prices is not particularly strong, indicating that population increase may not be the sole primary factor driving housing prices. " +
				"In some other counties, there is even a negative correlation. " +
				fmt.Sprintf("In San Francisco (depicted by the red dot), the correlation coefficient is %s %.2f. ", strength(s.Highlight.Y), s.Highlight.Y) +
				"Generally, counties with higher rates of population growth tend to display higher correlations, and San Francisco is among them.",
		},
	}, nil
}

func densityPanel(t *dataset.Tables) (Panel, error) {
	s, err := analysis.DensityPrice(t, dataset.SanFrancisco)
	if err != nil {
		return Panel{}, errors.Wrap(err, "density panel")
	}
	c, err := chart.ScatterFit(chart.ScatterConfig{
		ID:            PanelDensity,
		XLabel:        "Density",
		Y:             chart.Axis{Label: "House Price ($)", Format: chart.AxisCurrency},
		PointsName:    "Counties",
		FitName:       "Fit",
		HighlightName: "San Francisco",
	}, scatterPoints(s), fitPoints(s), highlight(s))
	if err != nil {
		return Panel{}, errors.Wrap(err, "density panel")
	}

	return Panel{
		ID:      PanelDensity,
		Heading: "Density and House price",
		Paragraphs: []string{
			"We will analyze how house prices are influenced by population density, since San Francisco is one of the cities with a high population density.",
		},
		Chart: c,
		Epilogue: []string{
			fmt.Sprintf("As a general trend, the correlation between population density and house prices is %s (Pearson coefficient: %.2f). ", direction(s.Pearson), s.Pearson) +
				"San Francisco (red dot) is far from the fitting line. Even when compared to counties in the New York Area (dots with a density greater than 30000), the housing prices in San Francisco appear significantly higher.",
			"While the combination of high population density and population growth may influence high housing prices, " +
				"it is not apparent that population density is one of primary factors contributing to San Francisco's elevated housing prices.",
		},
	}, nil
}

func constructionPanel(t *dataset.Tables) (Panel, error) {
	units, pop, err := analysis.Construction(t)
	if err != nil {
		return Panel{}, errors.Wrap(err, "construction panel")
	}
	c, err := chart.Lines(chart.LinesConfig{
		ID:     PanelConstruction,
		XLabel: "Year",
		Y:      chart.Axis{Label: "Cumulated"},
		XTicks: constructionTicks,
		GridY:  true,
		Colors: []string{chart.ColorBlue, chart.ColorRed},
	}, units, pop)
	if err != nil {
		return Panel{}, errors.Wrap(err, "construction panel")
	}

	return Panel{
		ID:      PanelConstruction,
		Heading: "Newly built residential units",
		Paragraphs: []string{
			"With the continuous population growth, the scarcity of available residential units may contribute to a rise in housing costs. " +
				"By examining city permit data, we can determine whether San Francisco has been providing new residential units to accommodate the influx of new residents.",
		},
		Chart: c,
		Epilogue: []string{
			"San Francisco County has been constructing new residential units. However, the housing prices in San Francisco have continued to rise. " +
				"This may indicate that either the new constructions are still insufficient or that the scarcity of houses is not a primary factor determining housing prices in San Francisco.",
			"While we can confirm that population growth may be a contributing factor to housing prices, it is important to recognize that other variables can also have a significant impact on the housing costs. " +
				"Factors such as economy or job opportunities may also play a significant role in driving the housing market.",
		},
	}, nil
}

func scatterPoints(s *analysis.Scatter) []chart.XY {
	out := make([]chart.XY, len(s.Points))
	for i, p := range s.Points {
		out[i] = chart.XY{X: p.X, Y: p.Y}
	}
	return out
}

func fitPoints(s *analysis.Scatter) []chart.XY {
	out := make([]chart.XY, len(s.FitX))
	for i := range s.FitX {
		out[i] = chart.XY{X: s.FitX[i], Y: s.FitY[i]}
	}
	return out
}

func highlight(s *analysis.Scatter) chart.XY {
	return chart.XY{X: s.Highlight.X, Y: s.Highlight.Y}
}

// strength describes the magnitude of a correlation coefficient.
func strength(r float64) string {
	switch a := math.Abs(r); {
	case math.IsNaN(r):
		return "undefined,"
	case a >= 0.7:
		return "a relatively high"
	case a >= 0.4:
		return "a moderate"
	default:
		return "a weak"
	}
}

// direction describes the sign and magnitude of a correlation coefficient.
func direction(r float64) string {
	switch {
	case math.IsNaN(r):
		return "undefined"
	case r >= 0.7:
		return "positive and strong"
	case r > 0:
		return "positive, but not strong"
	case r <= -0.7:
		return "negative and strong"
	case r < 0:
		return "negative, but not strong"
	default:
		return "absent"
	}
}
