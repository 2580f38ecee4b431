package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// PanicError は描画パス中に回復したパニックを表します。
// 読み込み、集計、描画のどこで起きても同じ型になり、ホストは 500 として応答します。
type PanicError struct {
	// PanicValue は panic() に渡された値
	PanicValue interface{}
	// StackTrace は回復時点のスタック
	StackTrace string
	// Operation は回復した処理の名前
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap は常に nil を返します。パニック値はエラーとして連鎖させません。
func (e *PanicError) Unwrap() error {
	return nil
}

// String はスタックトレースを含む詳細を返します。
func (e *PanicError) String() string {
	return fmt.Sprintf("%s\nStack trace:\n%s", e.Error(), e.StackTrace)
}

// MarshalZerologObject はzerologのイベントにパニック情報を追加します。
func (e *PanicError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", "PanicError").
		Str("operation", e.Operation).
		Str("panic", fmt.Sprint(e.PanicValue)).
		Str("stacktrace", e.StackTrace)
}

// NewPanicError は現在のスタックを記録した PanicError を作成します。
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover は defer で呼び出し、パニックを *err に変換します。
// *err が既に設定されている場合はパニック情報でラップします。
//
//	func Build(t *dataset.Tables) (f *excelize.File, err error) {
//	    defer errors.Recover(&err, "report.Build")
//	    ...
//	}
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = errors.Wrapf(*err, "panic in %s: %v", operation, r)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute は fn を実行し、パニックを PanicError として返します。
// 描画パス全体やミドルウェアの呼び出しを包むのに使います。
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
