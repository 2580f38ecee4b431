package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	render := func() (err error) {
		defer Recover(&err, "RenderHousing")
		panic("nil chart description")
	}

	err := render()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Operation != "RenderHousing" {
		t.Errorf("Operation = %q, want RenderHousing", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}
	if got, want := panicErr.Error(), "panic in RenderHousing: nil chart description"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	render := func() (err error) {
		defer Recover(&err, "RenderHousing")
		return nil
	}
	if err := render(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

func TestRecover_WithExistingError(t *testing.T) {
	loadErr := fmt.Errorf("corr.csv: missing column")

	render := func() (err error) {
		defer Recover(&err, "RenderHousing")
		err = loadErr
		panic("draw after failed load")
	}

	err := render()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "panic in RenderHousing") {
		t.Errorf("message should contain panic info: %s", msg)
	}
	if !strings.Contains(msg, "missing column") {
		t.Errorf("message should contain original error: %s", msg)
	}
	// 元のエラーは errors.Is で辿れること
	if !errors.Is(err, loadErr) {
		t.Error("original error should be reachable with errors.Is")
	}
}

func TestSafeExecute(t *testing.T) {
	fnErr := fmt.Errorf("function error")

	tests := []struct {
		name      string
		fn        func() error
		wantErr   error
		wantPanic bool
	}{
		{name: "success", fn: func() error { return nil }},
		{name: "function error", fn: func() error { return fnErr }, wantErr: fnErr},
		{name: "panic", fn: func() error { panic("boom") }, wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SafeExecute("render pass", tt.fn)

			if tt.wantPanic {
				var panicErr *PanicError
				if !errors.As(err, &panicErr) {
					t.Fatalf("Expected PanicError, got %T", err)
				}
				if panicErr.PanicValue != "boom" {
					t.Errorf("PanicValue = %v, want boom", panicErr.PanicValue)
				}
				return
			}
			if err != tt.wantErr {
				t.Errorf("SafeExecute() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPanicError_String(t *testing.T) {
	panicErr := NewPanicError("Recompute", "index out of range")

	str := panicErr.String()
	if !strings.Contains(str, "Stack trace:") {
		t.Error("String() should include stack trace information")
	}
	if !strings.Contains(str, "panic in Recompute: index out of range") {
		t.Error("String() should include basic error information")
	}
	if panicErr.Unwrap() != nil {
		t.Error("PanicError.Unwrap() should return nil")
	}
}

func TestRecover_DifferentPanicTypes(t *testing.T) {
	testCases := []struct {
		name       string
		panicValue interface{}
		want       string
	}{
		{"string panic", "string panic", "string panic"},
		{"int panic", 42, "42"},
		{"error panic", fmt.Errorf("error as panic"), "error as panic"},
		{"struct panic", struct{ Msg string }{"struct message"}, "{struct message}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fn := func() (err error) {
				defer Recover(&err, "TypeTest")
				panic(tc.panicValue)
			}

			var panicErr *PanicError
			if !errors.As(fn(), &panicErr) {
				t.Fatal("Expected PanicError")
			}
			if got := fmt.Sprintf("%v", panicErr.PanicValue); got != tc.want {
				t.Errorf("PanicValue = %v, want %v", got, tc.want)
			}
		})
	}
}

func BenchmarkRecover_NoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		func() (err error) {
			defer Recover(&err, "BenchmarkOp")
			return nil
		}()
	}
}
