package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/sfhousing/pkg/errors"
)

func TestMSE(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name      string
		yTrue     []float64
		yPred     []float64
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     []float64{1.0, 2.0, 3.0, 4.0, 5.0},
			yPred:     []float64{1.0, 2.0, 3.0, 4.0, 5.0},
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:      "simple case",
			yTrue:     []float64{1.0, 2.0, 3.0, 4.0},
			yPred:     []float64{1.5, 2.5, 2.5, 3.5},
			want:      0.25,
			tolerance: 1e-10,
		},
		{
			name:      "missing pairs are skipped",
			yTrue:     []float64{10.0, nan, 30.0},
			yPred:     []float64{12.0, 18.0, 33.0},
			want:      13.0 / 2.0, // (4 + 9) / 2
			tolerance: 1e-10,
		},
		{
			name:    "dimension mismatch",
			yTrue:   []float64{1.0, 2.0, 3.0},
			yPred:   []float64{1.0, 2.0},
			wantErr: true,
		},
		{
			name:    "all missing",
			yTrue:   []float64{nan},
			yPred:   []float64{1},
			wantErr: true,
		},
		{
			name:    "empty",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("MSE() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSEAndMAE(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	yPred := []float64{2, 1, 5, 4}

	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if want := math.Sqrt(6.0 / 4.0); math.Abs(rmse-want) > 1e-12 {
		t.Errorf("RMSE() = %v, want %v", rmse, want)
	}

	mae, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mae-1.0) > 1e-12 {
		t.Errorf("MAE() = %v, want 1", mae)
	}

	if _, err := RMSE([]float64{1}, nil); err == nil {
		t.Error("RMSE() should fail on dimension mismatch")
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr error
	}{
		{
			name:  "perfect prediction",
			yTrue: []float64{1, 2, 3},
			yPred: []float64{1, 2, 3},
			want:  1.0,
		},
		{
			name:  "mean baseline",
			yTrue: []float64{1, 2, 3},
			yPred: []float64{2, 2, 2},
			want:  0.0,
		},
		{
			name:  "worse than mean baseline",
			yTrue: []float64{1, 2, 3},
			yPred: []float64{3, 2, 1},
			want:  -3.0,
		},
		{
			name:    "no variance in yTrue",
			yTrue:   []float64{2, 2, 2},
			yPred:   []float64{1, 2, 3},
			wantErr: errors.ErrInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(tt.yTrue, tt.yPred)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("R2Score() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("R2Score() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}
