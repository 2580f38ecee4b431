// Package analysis turns loaded tables into the datasets drawn by each
// dashboard panel.
package analysis

import (
	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/preprocessing"
)

// Price columns are monthly; the dual-axis panels plot one month per year.
const (
	PriceOffset = 2
	PriceStep   = 12
)

// DualSeries is the data of a population-vs-price panel.
type DualSeries struct {
	Region     dataset.Region
	Population dataset.TimeSeries
	Price      dataset.TimeSeries
}

// SFSeries returns San Francisco population and every 12th SF price starting
// at the third month.
func SFSeries(t *dataset.Tables) DualSeries {
	return DualSeries{
		Region:     dataset.SanFrancisco,
		Population: t.PopulationSF,
		Price:      preprocessing.Subsample(t.SalesSF, PriceOffset, PriceStep),
	}
}

// CountySeries returns the population and subsampled price series of region.
// A region without a price row or population rows is NoValidData.
func CountySeries(t *dataset.Tables, region dataset.Region) (DualSeries, error) {
	pop, err := t.Populations.Population(region)
	if err != nil {
		return DualSeries{}, err
	}
	price, err := t.Prices.Row(region)
	if err != nil {
		return DualSeries{}, err
	}
	return DualSeries{
		Region:     region,
		Population: pop,
		Price:      preprocessing.Subsample(price, PriceOffset, PriceStep),
	}, nil
}

// Construction returns the cumulated new residential units and the cumulated
// population increase.
func Construction(t *dataset.Tables) (units, population dataset.TimeSeries, err error) {
	if units, err = t.Construction.NewUnitsSeries(); err != nil {
		return
	}
	population, err = t.Construction.PopulationIncreaseSeries()
	return
}
