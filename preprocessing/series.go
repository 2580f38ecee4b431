package preprocessing

import (
	"math"

	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// LatestValue は末尾から走査して最初に見つかった非欠損値を返す
func LatestValue(values []float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i], true
		}
	}
	return math.NaN(), false
}

// ExtractLatest は系列の最新の非欠損値を返す。
// 全て欠損している場合は NoValidDataError を返す。
func ExtractLatest(s dataset.TimeSeries) (float64, error) {
	v, ok := LatestValue(s.Values())
	if !ok {
		return 0, errors.NewNoValidDataError("ExtractLatest", s.Name)
	}
	return v, nil
}

// Subsample は s[offset::step] を返す
func Subsample(s dataset.TimeSeries, offset, step int) dataset.TimeSeries {
	idx := SubsampleIndex(len(s.Points), offset, step)
	pts := make([]dataset.Observation, len(idx))
	for k, i := range idx {
		pts[k] = s.Points[i]
	}
	return dataset.TimeSeries{Name: s.Name, Points: pts}
}

// SubsampleIndex は [offset::step] に含まれる添字を返す
func SubsampleIndex(n, offset, step int) []int {
	if step < 1 {
		step = 1
	}
	if offset < 0 {
		offset = 0
	}
	var idx []int
	for i := offset; i < n; i += step {
		idx = append(idx, i)
	}
	return idx
}
