package linear

import (
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// FitLine は1次の最小二乗直線 y = Slope*x + Intercept
type FitLine struct {
	Slope     float64
	Intercept float64
}

// At は x における直線の値を返す
func (f FitLine) At(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// Sample は xs の各点における直線の値を返す
func (f FitLine) Sample(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = f.At(x)
	}
	return ys
}

// Polyfit1 は (xs, ys) に1次式を最小二乗でフィットする。
//
// 長さが異なる場合や2点未満なら InsufficientDataError、
// 欠損値を含む場合は ValueError、x が全て等しい場合は ErrSingularMatrix を包んだ ModelError を返す。
func Polyfit1(xs, ys []float64) (FitLine, error) {
	lr, err := Fit1(xs, ys)
	if err != nil {
		return FitLine{}, err
	}
	return lr.Line()
}

// Fit1 は Polyfit1 と同じ検証を行い、学習済みの1変数モデルを返す。
// フィット後に予測や評価を続ける場合に使う。
func Fit1(xs, ys []float64) (*LinearRegression, error) {
	if len(xs) != len(ys) {
		return nil, errors.NewLengthMismatchError("Polyfit1", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, errors.NewInsufficientDataError("Polyfit1", 2, len(xs))
	}

	allEqual := true
	for _, x := range xs[1:] {
		if x != xs[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return nil, errors.NewModelError("Polyfit1", "all x values are equal", errors.ErrSingularMatrix)
	}

	lr := NewLinearRegression()
	if err := lr.Fit(column(xs), column(ys)); err != nil {
		return nil, err
	}
	return lr, nil
}

// Line は1変数モデルの直線を返す。未学習、または2変数以上なら NotFittedError / DimensionError。
func (lr *LinearRegression) Line() (FitLine, error) {
	if err := lr.CheckFitted("LinearRegression", "Line"); err != nil {
		return FitLine{}, err
	}
	if lr.NFeatures != 1 {
		return FitLine{}, errors.NewDimensionError("LinearRegression.Line", 1, lr.NFeatures, 1)
	}
	return FitLine{Slope: lr.Weights.AtVec(0), Intercept: lr.Intercept}, nil
}

// PredictValues は1変数モデルで xs の各点を予測する
func (lr *LinearRegression) PredictValues(xs []float64) ([]float64, error) {
	if len(xs) == 0 {
		return []float64{}, nil
	}
	pred, err := lr.Predict(column(xs))
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, pred), nil
}

// ScoreValues は1変数モデルの (xs, ys) に対する決定係数を返す
func (lr *LinearRegression) ScoreValues(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, errors.NewLengthMismatchError("LinearRegression.ScoreValues", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return 0, errors.NewInsufficientDataError("LinearRegression.ScoreValues", 2, 0)
	}
	return lr.Score(column(xs), column(ys))
}

// column は値をコピーした n×1 行列を返す
func column(vs []float64) *mat.Dense {
	return mat.NewDense(len(vs), 1, append([]float64(nil), vs...))
}

// Linspace は [start, stop] を n 等分した点列を返す（両端を含む）。
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
