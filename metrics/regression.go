package metrics

import (
	"math"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// pairs は yTrue と yPred の両方が有限値である組だけを返す
func pairs(op string, yTrue, yPred []float64) ([]float64, []float64, error) {
	if len(yTrue) != len(yPred) {
		return nil, nil, errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	t := make([]float64, 0, len(yTrue))
	p := make([]float64, 0, len(yPred))
	for i := range yTrue {
		if !finite(yTrue[i]) || !finite(yPred[i]) {
			continue
		}
		t = append(t, yTrue[i])
		p = append(p, yPred[i])
	}
	if len(t) == 0 {
		return nil, nil, errors.NewInsufficientDataError(op, 1, 0)
	}
	return t, p, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する。
// どちらかが欠損している組は無視する。
func MSE(yTrue, yPred []float64) (float64, error) {
	t, p, err := pairs("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := range t {
		diff := t[i] - p[i]
		sum += diff * diff
	}
	return sum / float64(len(t)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred []float64) (float64, error) {
	t, p, err := pairs("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := range t {
		sum += math.Abs(t[i] - p[i])
	}
	return sum / float64(len(t)), nil
}

// R2Score は決定係数（R²）を計算する。
// yTrue に分散がない場合は InsufficientDataError を返す。
func R2Score(yTrue, yPred []float64) (float64, error) {
	t, p, err := pairs("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var yMean float64
	for _, v := range t {
		yMean += v
	}
	yMean /= float64(len(t))

	// 全変動（TSS）と残差変動（RSS）
	var tss, rss float64
	for i := range t {
		tss += (t[i] - yMean) * (t[i] - yMean)
		rss += (t[i] - p[i]) * (t[i] - p[i])
	}

	if tss == 0 {
		return 0, errors.Wrap(errors.NewInsufficientDataError("R2Score", 2, 1), "no variance in yTrue")
	}
	return 1 - rss/tss, nil
}
