// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// データセットの欠損、統計量の計算に必要なデータ不足、有効なデータ点が無い場合など、
// 描画パスを中断させる条件を構造化されたエラーとして表現します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("sfhousing-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// SkippedRegionWarning は集計時に有効なデータが無い地域を除外した場合の警告です。
type SkippedRegionWarning struct {
	Op     string
	Region string
	Reason string
}

func (w *SkippedRegionWarning) Error() string {
	return fmt.Sprintf("%s: skipped region %s: %s", w.Op, w.Region, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *SkippedRegionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Str("region", w.Region).
		Str("reason", w.Reason).
		Str("type", "SkippedRegionWarning")
}

// NewSkippedRegionWarning は新しいSkippedRegionWarningを作成します。
func NewSkippedRegionWarning(op, region, reason string) *SkippedRegionWarning {
	return &SkippedRegionWarning{Op: op, Region: region, Reason: reason}
}

// ===========================================================================
//
//	データ起因のエラー型
//
// ===========================================================================

// DataUnavailableError は入力ファイルが存在しない、または壊れている場合のエラーです。
// 描画パスにとって致命的で、リトライは行いません。
type DataUnavailableError struct {
	Dataset string
	Path    string
	Reason  string
	Err     error
}

func (e *DataUnavailableError) Error() string {
	msg := fmt.Sprintf("sfhousing: dataset %s unavailable (%s): %s", e.Dataset, e.Path, e.Reason)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// Is は ErrDataUnavailable との比較を可能にします。
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DataUnavailableError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("dataset", e.Dataset).
		Str("path", e.Path).
		Str("reason", e.Reason).
		Str("type", "DataUnavailableError")
}

// NewDataUnavailableError は新しいDataUnavailableErrorを作成し、スタックトレースを付与します。
func NewDataUnavailableError(dataset, path, reason string, err error) error {
	return errors.WithStack(&DataUnavailableError{Dataset: dataset, Path: path, Reason: reason, Err: err})
}

// InsufficientDataError は相関や回帰に必要なデータ点が不足している場合のエラーです。
type InsufficientDataError struct {
	Op   string
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("sfhousing: %s: insufficient data, need at least %d points, got %d", e.Op, e.Need, e.Got)
}

// Is は ErrInsufficientData との比較を可能にします。
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("need", e.Need).
		Int("got", e.Got).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError は新しいInsufficientDataErrorを作成し、スタックトレースを付与します。
func NewInsufficientDataError(op string, need, got int) error {
	return errors.WithStack(&InsufficientDataError{Op: op, Need: need, Got: got})
}

// NewLengthMismatchError は対になるべき2つの入力の長さが異なる場合のエラーです。
// 対にできる点が短い方の長さしか無いため、ErrInsufficientData として扱います。
func NewLengthMismatchError(op string, a, b int) error {
	return errors.Wrapf(NewInsufficientDataError(op, max(a, b), min(a, b)),
		"paired inputs differ in length (%d vs %d)", a, b)
}

// NoValidDataError は系列が全て欠損している、または選択された地域に使えるデータが無い場合のエラーです。
type NoValidDataError struct {
	Op      string
	Subject string
}

func (e *NoValidDataError) Error() string {
	return fmt.Sprintf("sfhousing: %s: no valid data for %s", e.Op, e.Subject)
}

// Is は ErrNoValidData との比較を可能にします。
func (e *NoValidDataError) Is(target error) bool {
	return target == ErrNoValidData
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NoValidDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("subject", e.Subject).
		Str("type", "NoValidDataError")
}

// NewNoValidDataError は新しいNoValidDataErrorを作成し、スタックトレースを付与します。
func NewNoValidDataError(op, subject string) error {
	return errors.WithStack(&NoValidDataError{Op: op, Subject: subject})
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はフィット前の回帰モデルで予測しようとした場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("sfhousing: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は入力データの長さが期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("sfhousing: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sfhousing: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、時刻が単調増加していない系列を作ろうとした場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("sfhousing: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError は回帰モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sfhousing: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("sfhousing: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// NumericalInstabilityError は計算結果にNaNやInfが現れた場合のエラーです。
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("sfhousing: numerical instability detected in %s. Values: [%s]", e.Operation, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Values: values})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrDataUnavailable は入力データセットが読めない場合のエラーです。
	ErrDataUnavailable = New("data unavailable")

	// ErrInsufficientData は計算に必要なデータ点が不足している場合のエラーです。
	ErrInsufficientData = New("insufficient data")

	// ErrNoValidData は有効な値が一つも無い場合のエラーです。
	ErrNoValidData = New("no valid data")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
