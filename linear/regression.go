package linear

import (
	"math"

	"github.com/YuminosukeSato/sfhousing/core/model"
	"github.com/YuminosukeSato/sfhousing/metrics"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LinearRegression は最小二乗法による線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator // BaseEstimatorを埋め込み
	Weights             *mat.VecDense // 重み（係数）
	Intercept           float64       // 切片
	NFeatures           int           // 特徴量の数
}

var _ model.Regressor = (*LinearRegression)(nil)

// NewLinearRegression は切片つきの線形回帰モデルを作成する
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit はモデルを訓練データで学習させる
// 正規方程式 w = (X^T * X)^(-1) * X^T * y を使用
// 失敗した場合、以前の学習結果は残らない
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	lr.Reset()
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	// 欠損値（NaN）はここでは受け付けない。呼び出し側で除外すること
	for i := 0; i < r; i++ {
		if math.IsNaN(y.At(i, 0)) {
			return errors.NewValueError("LinearRegression.Fit", "y contains missing values")
		}
		for j := 0; j < c; j++ {
			if math.IsNaN(X.At(i, j)) {
				return errors.NewValueError("LinearRegression.Fit", "X contains missing values")
			}
		}
	}

	lr.NFeatures = c

	// 切片項のために X の先頭に 1 の列を追加する
	design := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		design.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			design.Set(i, j+1, X.At(i, j))
		}
	}

	// (X^T * X)^(-1) * X^T * y
	var XTX mat.Dense
	XTX.Mul(design.T(), design)

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(design.T(), yVec)

	weights := mat.NewVecDense(c+1, nil)
	weights.MulVec(&XTXInv, &XTy)

	lr.Intercept = weights.AtVec(0)
	lr.Weights = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		lr.Weights.SetVec(i, weights.AtVec(i+1))
	}

	if err := errors.CheckNumericalStability("LinearRegression.Fit", append(lr.GetWeights(), lr.Intercept)); err != nil {
		return err
	}

	lr.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.CheckFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	// y = X * weights + intercept
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// GetWeights は学習された重み（係数）を返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}
	weights := make([]float64, lr.Weights.Len())
	for i := range weights {
		weights[i] = lr.Weights.AtVec(i)
	}
	return weights
}

// Score は y と予測値の決定係数（R²）を返す。y に分散が無い場合は InsufficientDataError。
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(mat.Col(nil, 0, y), mat.Col(nil, 0, yPred))
}
