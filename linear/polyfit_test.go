package linear

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

func TestPolyfit1(t *testing.T) {
	tests := []struct {
		name          string
		xs, ys        []float64
		wantSlope     float64
		wantIntercept float64
	}{
		{
			name:          "y = 2x + 1",
			xs:            []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			ys:            []float64{1, 3, 5, 7, 9, 11, 13, 15, 17, 19},
			wantSlope:     2,
			wantIntercept: 1,
		},
		{
			name:          "two points",
			xs:            []float64{-0.1, 0.2},
			ys:            []float64{0.5, 0.8},
			wantSlope:     1,
			wantIntercept: 0.6,
		},
		{
			name:          "symmetric noise",
			xs:            []float64{0, 0, 1, 1},
			ys:            []float64{-1, 1, 1, 3},
			wantSlope:     2,
			wantIntercept: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, err := Polyfit1(tt.xs, tt.ys)
			if err != nil {
				t.Fatalf("Polyfit1() error = %v", err)
			}
			if math.Abs(fit.Slope-tt.wantSlope) > 1e-6 {
				t.Errorf("Slope = %v, want %v", fit.Slope, tt.wantSlope)
			}
			if math.Abs(fit.Intercept-tt.wantIntercept) > 1e-6 {
				t.Errorf("Intercept = %v, want %v", fit.Intercept, tt.wantIntercept)
			}
		})
	}
}

func TestPolyfit1_Errors(t *testing.T) {
	tests := []struct {
		name     string
		xs, ys   []float64
		sentinel error
		target   interface{}
	}{
		{
			name:     "single point",
			xs:       []float64{1},
			ys:       []float64{2},
			sentinel: errors.ErrInsufficientData,
		},
		{
			name:     "length mismatch",
			xs:       []float64{1, 2, 3},
			ys:       []float64{1, 2},
			sentinel: errors.ErrInsufficientData,
			target:   new(*errors.InsufficientDataError),
		},
		{
			name:     "all x equal",
			xs:       []float64{3, 3, 3},
			ys:       []float64{1, 2, 3},
			sentinel: errors.ErrSingularMatrix,
		},
		{
			name:   "missing value",
			xs:     []float64{1, 2, 3},
			ys:     []float64{1, math.NaN(), 3},
			target: new(*errors.ValueError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Polyfit1(tt.xs, tt.ys)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
			if tt.target != nil && !errors.As(err, tt.target) {
				t.Errorf("error %T does not match %T", err, tt.target)
			}
		})
	}
}

func TestFitLine_Sample(t *testing.T) {
	fit := FitLine{Slope: 0.5, Intercept: -1}
	got := fit.Sample([]float64{0, 2, 4})
	want := []float64{-1, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sample()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		name        string
		start, stop float64
		n           int
		want        []float64
	}{
		{"five points", 0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
		{"symmetric", -0.25, 0.25, 3, []float64{-0.25, 0, 0.25}},
		{"single", 2, 9, 1, []float64{2}},
		{"empty", 0, 1, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linspace(tt.start, tt.stop, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("Linspace()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}

	// 20点で両端が正確に一致すること
	pts := Linspace(-0.25, 0.25, 20)
	if pts[0] != -0.25 || pts[19] != 0.25 {
		t.Errorf("endpoints = %v, %v", pts[0], pts[19])
	}
}
