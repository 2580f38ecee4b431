// Package preprocessing は欠損値の補完と系列の切り出しを提供する
package preprocessing

import (
	"math"

	"github.com/YuminosukeSato/sfhousing/core/model"
	"github.com/YuminosukeSato/sfhousing/core/parallel"
	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ForwardFillValues は欠損値 (NaN) を直前の非欠損値で置き換えた新しいスライスを返す。
// 先頭の欠損は後方補完せずに欠損のまま残す。入力は変更しない。
func ForwardFillValues(values []float64) []float64 {
	out := make([]float64, len(values))
	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = last
			continue
		}
		out[i] = v
		last = v
	}
	return out
}

// ForwardFill は時系列の値を前方補完する。時刻はそのまま保たれる。
func ForwardFill(s dataset.TimeSeries) dataset.TimeSeries {
	return s.WithValues(ForwardFillValues(s.Values()))
}

// ForwardFiller は行列の各行を列方向に前方補完するトランスフォーマー。
// 価格表のように行が地域、列が月の行列に使う。
type ForwardFiller struct {
	model.BaseEstimator

	// NFeatures は学習時の列数
	NFeatures int
}

var _ model.Transformer = (*ForwardFiller)(nil)

// NewForwardFiller は新しいForwardFillerを作成する
func NewForwardFiller() *ForwardFiller {
	return &ForwardFiller{}
}

// Fit は列数を記録する
func (f *ForwardFiller) Fit(X mat.Matrix) error {
	f.Reset()
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("ForwardFiller.Fit", "empty data", errors.ErrEmptyData)
	}
	f.NFeatures = c
	f.SetFitted()
	return nil
}

// Transform は各行を前方補完した新しい行列を返す
func (f *ForwardFiller) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := f.CheckFitted("ForwardFiller", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != f.NFeatures {
		return nil, errors.NewDimensionError("ForwardFiller.Transform", f.NFeatures, c, 1)
	}

	// 行ごとに独立なので、行範囲に分けて並列に補完する
	result := mat.NewDense(r, c, nil)
	parallel.Rows(r, parallel.DefaultThreshold, func(start, end int) {
		row := make([]float64, c)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			result.SetRow(i, ForwardFillValues(row))
		}
	})
	return result, nil
}

// FitTransform は Fit と Transform を続けて実行する
func (f *ForwardFiller) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := f.Fit(X); err != nil {
		return nil, err
	}
	return f.Transform(X)
}
