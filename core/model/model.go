// Package model は回帰モデルと行列トランスフォーマーが共有する基底型を定義する
package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted は未学習
	NotFitted EstimatorState = iota
	// Fitted は学習済み
	Fitted
)

// BaseEstimator は学習状態を保持する埋め込み用の構造体
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを未学習に戻す。各 Fit の冒頭で呼ばれる
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// CheckFitted は未学習なら NotFittedError を返す。name はモデル名、method は呼び出し元。
func (e *BaseEstimator) CheckFitted(name, method string) error {
	if e.state != Fitted {
		return errors.NewNotFittedError(name, method)
	}
	return nil
}

// Fitter は目的変数つきで学習するモデル
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor は学習済みモデルで予測する
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Regressor は学習と予測、決定係数による評価を持つ回帰モデル
type Regressor interface {
	Fitter
	Predictor
	Score(X, y mat.Matrix) (float64, error)
}

// Transformer は行列を同じ形の行列へ変換する
type Transformer interface {
	// Fit は変換に必要な形状を記録する
	Fit(X mat.Matrix) error
	// Transform は入力を変更せずに新しい行列を返す
	Transform(X mat.Matrix) (mat.Matrix, error)
	// FitTransform は Fit と Transform を続けて実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
