package metrics_test

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/fasalmitra/agroadvisor/metrics"
	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
)

const epsilon = 1e-10 // Tolerance for floating-point comparisons

func TestMSE_BasicFunctionality(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{3.0, -0.5, 2.0, 7.0})
	yPred := mat.NewVecDense(4, []float64{2.5, 0.0, 2.0, 8.0})

	mse, err := metrics.MSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MSE failed: %v", err)
	}

	// (0.25 + 0.25 + 0 + 1) / 4 = 0.375
	if math.Abs(mse-0.375) > epsilon {
		t.Errorf("expected MSE 0.375, got %f", mse)
	}

	rmse, err := metrics.RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE failed: %v", err)
	}
	if math.Abs(rmse-math.Sqrt(0.375)) > epsilon {
		t.Errorf("expected RMSE %f, got %f", math.Sqrt(0.375), rmse)
	}
}

func TestMAE_BasicFunctionality(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{3.0, -0.5, 2.0, 7.0})
	yPred := mat.NewVecDense(4, []float64{2.5, 0.0, 2.0, 8.0})

	mae, err := metrics.MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE failed: %v", err)
	}

	// (0.5 + 0.5 + 0 + 1) / 4 = 0.5
	if math.Abs(mae-0.5) > epsilon {
		t.Errorf("expected MAE 0.5, got %f", mae)
	}
}

func TestR2Score_PerfectFit(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1.0, 2.0, 3.0})
	yPred := mat.NewVecDense(3, []float64{1.0, 2.0, 3.0})

	r2, err := metrics.R2Score(yTrue, yPred)
	if err != nil {
		t.Fatalf("R2Score failed: %v", err)
	}
	if math.Abs(r2-1.0) > epsilon {
		t.Errorf("expected R² 1.0, got %f", r2)
	}
}

func TestR2Score_MeanPrediction(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0})
	yPred := mat.NewVecDense(4, []float64{2.5, 2.5, 2.5, 2.5})

	r2, err := metrics.R2Score(yTrue, yPred)
	if err != nil {
		t.Fatalf("R2Score failed: %v", err)
	}
	if math.Abs(r2) > epsilon {
		t.Errorf("expected R² 0.0 for mean prediction, got %f", r2)
	}
}

func TestR2Score_ZeroVariance(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{5.0, 5.0, 5.0})
	yPred := mat.NewVecDense(3, []float64{4.0, 5.0, 6.0})

	_, err := metrics.R2Score(yTrue, yPred)
	if err == nil {
		t.Fatalf("expected error for zero-variance target")
	}
	if !errors.Is(err, agroErrors.ErrDegenerateData) {
		t.Errorf("expected ErrDegenerateData, got %v", err)
	}
}

func TestMetrics_DimensionMismatch(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1.0, 2.0, 3.0})
	yPred := mat.NewVecDense(2, []float64{1.0, 2.0})

	if _, err := metrics.MSE(yTrue, yPred); !errors.Is(err, agroErrors.ErrDimensionMismatch) {
		t.Errorf("MSE: expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := metrics.MAE(yTrue, yPred); !errors.Is(err, agroErrors.ErrDimensionMismatch) {
		t.Errorf("MAE: expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := metrics.R2Score(yTrue, yPred); !errors.Is(err, agroErrors.ErrDimensionMismatch) {
		t.Errorf("R2Score: expected ErrDimensionMismatch, got %v", err)
	}
}
