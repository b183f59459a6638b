// Package metrics provides the regression evaluation metrics used to score the
// yield model: MSE, RMSE, MAE and the R² coefficient of determination.
//
// All functions operate on gonum vectors and validate shapes up front. R² on a
// zero-variance target is a degenerate-data condition and is reported as an
// error matching ErrDegenerateData rather than a NaN or a crash.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
)

// MSE calculates the Mean Squared Error between true and predicted values.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, agroErrors.NewValueError("MSE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, agroErrors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE calculates the Root Mean Squared Error, in the same units as the
// target variable (quintal/hectare for yield).
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE calculates the Mean Absolute Error between true and predicted values.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, agroErrors.NewValueError("MAE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, agroErrors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2Score calculates the coefficient of determination (R²) score.
//
// R² ranges from negative infinity to 1, where 1 is a perfect fit, 0 matches
// predicting the mean, and negative values are worse than the mean.
//
// Errors:
//   - ErrEmptyData: if input vectors are empty
//   - ErrDimensionMismatch: if yTrue and yPred have different lengths
//   - ErrDegenerateData: if all yTrue values are identical (no variance)
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, agroErrors.NewModelError("R2Score", "empty vector", agroErrors.ErrEmptyData)
	}

	if yPred.Len() != n {
		return 0, agroErrors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// Total Sum of Squares (TSS) and Residual Sum of Squares (RSS)
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	if tss == 0 {
		return 0, agroErrors.NewModelError("R2Score",
			"total sum of squares is zero (no variance in yTrue)", agroErrors.ErrDegenerateData)
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}
