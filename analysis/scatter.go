package analysis

import (
	"math"

	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/linear"
	"github.com/YuminosukeSato/sfhousing/metrics"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"github.com/YuminosukeSato/sfhousing/pkg/log"
	"github.com/YuminosukeSato/sfhousing/preprocessing"
)

// Correlation panel constants.
const (
	// CorrelationThreshold excludes fast-growing outliers from the fit.
	CorrelationThreshold = 0.25
	CorrelationFitPoints = 20
)

// CorrelationXRange is the visible population growth rate range.
var CorrelationXRange = [2]float64{-0.5, 1.5}

// Density panel constants.
const (
	// DensityOffset and DensityStep pick one forward-filled month per year.
	DensityOffset = 5
	DensityStep   = 12

	DensityFitMax    = 70000
	DensityFitPoints = 200
)

// Point is one scatter sample.
type Point struct {
	Region dataset.Region
	X, Y   float64
}

// RegionMetric is the latest density and yearly price of one region. Either
// value may be NaN.
type RegionMetric struct {
	Region  dataset.Region
	Density float64
	Price   float64
}

// Scatter is the data of a scatter-with-fit panel.
type Scatter struct {
	Points []Point
	Fit    linear.FitLine
	// FitX and FitY sample the fit line for drawing.
	FitX, FitY []float64
	// R2, RMSE and MAE score the fit on the points it was fitted to. NaN
	// when undefined.
	R2        float64
	RMSE      float64
	MAE       float64
	Pearson   float64
	Highlight Point
	XRange    *[2]float64
	Skipped   []dataset.Region
}

// CorrelationScatter plots every finite correlation record against its
// population increase rate. The line is fitted to records with a rate below
// threshold only.
func CorrelationScatter(t *dataset.Tables, highlight dataset.Region, threshold float64) (*Scatter, error) {
	var (
		points []Point
		fx, fy []float64
	)
	for _, rec := range t.Correlations.Records() {
		if !rec.Valid() {
			continue
		}
		points = append(points, Point{Region: rec.Region, X: rec.IncreaseRate, Y: rec.Coefficient})
		if rec.IncreaseRate < threshold {
			fx = append(fx, rec.IncreaseRate)
			fy = append(fy, rec.Coefficient)
		}
	}

	s, err := fitted(fx, fy, linear.Linspace(-threshold, threshold, CorrelationFitPoints))
	if err != nil {
		return nil, errors.Wrap(err, "correlation fit")
	}

	rec, ok := t.Correlations.Lookup(highlight)
	if !ok || !rec.Valid() {
		return nil, errors.NewNoValidDataError("CorrelationScatter", highlight.String())
	}

	xr := CorrelationXRange
	s.Points = points
	s.Pearson = math.NaN()
	s.Highlight = Point{Region: highlight, X: rec.IncreaseRate, Y: rec.Coefficient}
	s.XRange = &xr
	if r, err := metrics.Pearson(fx, fy); err == nil {
		s.Pearson = r
	}
	return s, nil
}

// RegionMetrics collects, for every region of the price table, its latest
// density and the last yearly sample of its forward-filled price row.
func RegionMetrics(t *dataset.Tables) ([]RegionMetric, error) {
	filled, err := preprocessing.NewForwardFiller().FitTransform(t.Prices.Values())
	if err != nil {
		return nil, err
	}
	_, nMonths := filled.Dims()
	yearly := preprocessing.SubsampleIndex(nMonths, DensityOffset, DensityStep)

	regions := t.Prices.Regions()
	out := make([]RegionMetric, len(regions))
	row := make([]float64, len(yearly))
	for i, region := range regions {
		for k, j := range yearly {
			row[k] = filled.At(i, j)
		}
		price, _ := preprocessing.LatestValue(row)

		density := math.NaN()
		if den, err := t.Populations.Density(region); err == nil {
			if v, err := preprocessing.ExtractLatest(den); err == nil {
				density = v
			}
		}
		out[i] = RegionMetric{Region: region, Density: density, Price: price}
	}
	return out, nil
}

// AggregateDensityPrice keeps the metrics whose density and price are both
// present, as (density, price) points in input order.
func AggregateDensityPrice(ms []RegionMetric) []Point {
	var out []Point
	for _, m := range ms {
		if math.IsNaN(m.Density) || math.IsNaN(m.Price) {
			continue
		}
		out = append(out, Point{Region: m.Region, X: m.Density, Y: m.Price})
	}
	return out
}

// DensityPrice builds the density-vs-price scatter. Regions without a usable
// pair are skipped; skipping the highlighted region is reported as a warning.
func DensityPrice(t *dataset.Tables, highlight dataset.Region) (*Scatter, error) {
	logger := log.GetLoggerWithName("analysis")

	ms, err := RegionMetrics(t)
	if err != nil {
		return nil, err
	}
	points := AggregateDensityPrice(ms)

	var skipped []dataset.Region
	kept := make(map[dataset.Region]Point, len(points))
	for _, p := range points {
		kept[p.Region] = p
	}
	for _, m := range ms {
		if _, ok := kept[m.Region]; ok {
			continue
		}
		skipped = append(skipped, m.Region)
		logger.Debug("region skipped",
			log.OperationKey, log.OperationAggregate,
			log.ErrorCodeKey, log.ErrorNoValidData,
			"region", m.Region.String(),
			"error", errors.NewNoValidDataError("DensityPrice", m.Region.String()).Error(),
		)
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}

	r, err := metrics.Pearson(xs, ys)
	if err != nil {
		return nil, errors.Wrap(err, "density/price correlation")
	}
	s, err := fitted(xs, ys, linear.Linspace(0, DensityFitMax, DensityFitPoints))
	if err != nil {
		return nil, errors.Wrap(err, "density/price fit")
	}

	highlightPoint, ok := kept[highlight]
	if !ok {
		errors.Warn(errors.NewSkippedRegionWarning("DensityPrice", highlight.String(), "no density/price pair"))
		highlightPoint = Point{Region: highlight, X: math.NaN(), Y: math.NaN()}
	}

	logger.Debug("density/price aggregated",
		log.OperationKey, log.OperationAggregate,
		log.PointsKey, len(points),
		log.SkippedKey, len(skipped),
		log.PearsonKey, r,
		log.SlopeKey, s.Fit.Slope,
		log.InterceptKey, s.Fit.Intercept,
	)

	s.Points = points
	s.Pearson = r
	s.Highlight = highlightPoint
	s.Skipped = skipped
	return s, nil
}

// fitted fits a line to (xs, ys), samples it on fitX and scores it on the
// fitted points.
func fitted(xs, ys, fitX []float64) (*Scatter, error) {
	lr, err := linear.Fit1(xs, ys)
	if err != nil {
		return nil, err
	}
	line, err := lr.Line()
	if err != nil {
		return nil, err
	}
	fitY, err := lr.PredictValues(fitX)
	if err != nil {
		return nil, err
	}
	pred, err := lr.PredictValues(xs)
	if err != nil {
		return nil, err
	}

	s := &Scatter{
		Fit:  line,
		FitX: fitX,
		FitY: fitY,
		R2:   math.NaN(),
		RMSE: math.NaN(),
		MAE:  math.NaN(),
	}
	if v, err := lr.ScoreValues(xs, ys); err == nil {
		s.R2 = v
	}
	if v, err := metrics.RMSE(ys, pred); err == nil {
		s.RMSE = v
	}
	if v, err := metrics.MAE(ys, pred); err == nil {
		s.MAE = v
	}
	return s, nil
}
