package metrics

import (
	"math"

	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Pearson はピアソンの相関係数を計算する。
//
// 両方の値が欠損していない組（pairwise complete）だけを使う。
// 長さが異なる場合、有効な組が2未満の場合、どちらかの分散が0の場合は
// InsufficientDataError を返す。
// 結果は [-1, 1] に丸める。
func Pearson(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.NewLengthMismatchError("Pearson", len(a), len(b))
	}

	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if !finite(a[i]) || !finite(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return 0, errors.NewInsufficientDataError("Pearson", 2, len(x))
	}
	if constant(x) || constant(y) {
		return 0, errors.Wrap(errors.NewInsufficientDataError("Pearson", 2, 1), "zero variance")
	}

	r := stat.Correlation(x, y, nil)
	if err := errors.CheckScalar("Pearson", r); err != nil {
		return 0, err
	}
	return errors.ClipValue(r, -1, 1), nil
}

func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

// CorrelateSeries は2つの時系列を暦年で揃えて Pearson を計算する。
// 月次系列は年ごとに最後の非欠損値を代表値とする。
func CorrelateSeries(a, b dataset.TimeSeries) (float64, error) {
	ya := yearly(a)
	yb := yearly(b)

	var xs, ys []float64
	for _, p := range a.Points {
		year := p.Time.Year()
		va, okA := ya[year]
		vb, okB := yb[year]
		if !okA || !okB {
			continue
		}
		delete(ya, year)
		xs = append(xs, va)
		ys = append(ys, vb)
	}
	return Pearson(xs, ys)
}

func yearly(s dataset.TimeSeries) map[int]float64 {
	out := make(map[int]float64, len(s.Points))
	for _, p := range s.Points {
		if math.IsNaN(p.Value) {
			continue
		}
		out[p.Time.Year()] = p.Value
	}
	return out
}
