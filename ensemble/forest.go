package ensemble

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/fasalmitra/agroadvisor/core/model"
	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/pkg/log"
)

// RandomForestRegressor is an ensemble of bootstrap-sampled regression trees.
//
// The point prediction is the mean of the per-tree predictions; the standard
// deviation across trees is exposed as the uncertainty signal used by the
// scenario predictor's risk classification. Training is deterministic for a
// fixed random seed.
type RandomForestRegressor struct {
	state *model.StateManager

	// Hyperparameters
	nEstimators     int   // Number of trees
	maxDepth        int   // Maximum depth per tree (0 = unlimited)
	minSamplesSplit int   // Minimum samples to split a node
	minSamplesLeaf  int   // Minimum samples in a leaf
	maxFeatures     int   // Features considered per split (0 = all)
	randomState     int64 // Random seed

	trees              []*regressionTree
	featureImportances []float64

	logger log.Logger
}

// RandomForestOption is a functional option for RandomForestRegressor.
type RandomForestOption func(*RandomForestRegressor)

// NewRandomForestRegressor creates a random forest regressor.
// Defaults follow the yield model's published configuration: 100 trees,
// max depth 15, min samples split 5, seeded for reproducibility.
func NewRandomForestRegressor(opts ...RandomForestOption) *RandomForestRegressor {
	rf := &RandomForestRegressor{
		state:           model.NewStateManager(),
		nEstimators:     100,
		maxDepth:        15,
		minSamplesSplit: 5,
		minSamplesLeaf:  1,
		maxFeatures:     0,
		randomState:     42,
	}

	rf.logger = log.GetLoggerWithName("ensemble").With(
		log.ModelNameKey, "RandomForestRegressor",
		log.ComponentKey, "ensemble",
	)

	for _, opt := range opts {
		opt(rf)
	}

	return rf
}

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) RandomForestOption {
	return func(rf *RandomForestRegressor) {
		rf.nEstimators = n
	}
}

// WithMaxDepth sets the maximum tree depth.
func WithMaxDepth(depth int) RandomForestOption {
	return func(rf *RandomForestRegressor) {
		rf.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum samples to split a node.
func WithMinSamplesSplit(n int) RandomForestOption {
	return func(rf *RandomForestRegressor) {
		rf.minSamplesSplit = n
	}
}

// WithMaxFeatures sets the number of features considered per split.
func WithMaxFeatures(n int) RandomForestOption {
	return func(rf *RandomForestRegressor) {
		rf.maxFeatures = n
	}
}

// WithRandomState sets the random seed.
func WithRandomState(seed int64) RandomForestOption {
	return func(rf *RandomForestRegressor) {
		rf.randomState = seed
	}
}

// Fit trains the forest on feature matrix X against target vector y.
//
// Each tree is fitted on a bootstrap sample of the training rows drawn from a
// seeded generator, so two fits with the same seed and data produce identical
// forests.
//
// Errors:
//   - ErrEmptyData: if X has no rows or no columns
//   - ErrDimensionMismatch: if X and y row counts differ
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) (err error) {
	defer agroErrors.Recover(&err, "RandomForestRegressor.Fit")

	startTime := time.Now()
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return agroErrors.NewModelError("RandomForestRegressor.Fit", "empty data", agroErrors.ErrEmptyData)
	}
	if yRows != nSamples {
		return agroErrors.NewDimensionError("RandomForestRegressor.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return agroErrors.NewValueError("RandomForestRegressor.Fit", "y must be a column vector")
	}

	rf.logger.Info("training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
	)

	targets := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		targets[i] = y.At(i, 0)
	}

	rng := rand.New(rand.NewPCG(uint64(rf.randomState), uint64(rf.randomState)))

	rf.trees = make([]*regressionTree, 0, rf.nEstimators)
	rf.featureImportances = make([]float64, nFeatures)

	for t := 0; t < rf.nEstimators; t++ {
		bootX, bootY := rf.bootstrapSample(X, targets, rng)

		tree := &regressionTree{
			maxDepth:        rf.maxDepth,
			minSamplesSplit: rf.minSamplesSplit,
			minSamplesLeaf:  rf.minSamplesLeaf,
			maxFeatures:     rf.maxFeatures,
			rng:             rng,
		}
		tree.fit(bootX, bootY)
		rf.trees = append(rf.trees, tree)

		for j, imp := range tree.featureImportances {
			rf.featureImportances[j] += imp
		}
	}

	// Average importances over trees
	for j := range rf.featureImportances {
		rf.featureImportances[j] /= float64(rf.nEstimators)
	}

	rf.state.SetFitted()
	rf.state.SetDimensions(nFeatures, nSamples)

	rf.logger.Info("training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
	)

	return nil
}

// bootstrapSample draws nSamples rows with replacement.
func (rf *RandomForestRegressor) bootstrapSample(X mat.Matrix, y []float64, rng *rand.Rand) (mat.Matrix, []float64) {
	nSamples, nFeatures := X.Dims()

	bootX := mat.NewDense(nSamples, nFeatures, nil)
	bootY := make([]float64, nSamples)

	for i := 0; i < nSamples; i++ {
		idx := rng.IntN(nSamples)
		for j := 0; j < nFeatures; j++ {
			bootX.Set(i, j, X.At(idx, j))
		}
		bootY[i] = y[idx]
	}

	return bootX, bootY
}

// Predict returns the ensemble-mean prediction for each row of X as an n×1
// matrix.
//
// Errors:
//   - ErrNotFitted: if the model hasn't been trained yet
//   - ErrDimensionMismatch: if X has a different feature count than training
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer agroErrors.Recover(&err, "RandomForestRegressor.Predict")
	if !rf.state.IsFitted() {
		return nil, agroErrors.NewNotFittedError("RandomForestRegressor", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != rf.state.NFeatures {
		return nil, agroErrors.NewDimensionError("RandomForestRegressor.Predict", rf.state.NFeatures, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	row := make([]float64, nFeatures)

	for i := 0; i < nSamples; i++ {
		for j := 0; j < nFeatures; j++ {
			row[j] = X.At(i, j)
		}
		mean, _, predErr := rf.PredictWithStd(row)
		if predErr != nil {
			return nil, predErr
		}
		predictions.Set(i, 0, mean)
	}

	return predictions, nil
}

// PredictWithStd predicts a single sample and returns the ensemble mean
// together with the standard deviation of the per-tree predictions. The
// deviation is the spread across the fitted ensemble, not across repeated
// global fits.
func (rf *RandomForestRegressor) PredictWithStd(x []float64) (mean, std float64, err error) {
	if !rf.state.IsFitted() {
		return 0, 0, agroErrors.NewNotFittedError("RandomForestRegressor", "PredictWithStd")
	}
	if len(x) != rf.state.NFeatures {
		return 0, 0, agroErrors.NewDimensionError("RandomForestRegressor.PredictWithStd", rf.state.NFeatures, len(x), 1)
	}

	treePreds := make([]float64, len(rf.trees))
	for i, tree := range rf.trees {
		treePreds[i] = tree.predictRow(x)
		mean += treePreds[i]
	}
	mean /= float64(len(rf.trees))

	var sumSq float64
	for _, p := range treePreds {
		d := p - mean
		sumSq += d * d
	}
	std = math.Sqrt(sumSq / float64(len(rf.trees)))

	return mean, std, nil
}

// FeatureImportances returns a copy of the averaged per-feature importance
// scores. Returns nil before fitting.
func (rf *RandomForestRegressor) FeatureImportances() []float64 {
	if rf.featureImportances == nil {
		return nil
	}
	importances := make([]float64, len(rf.featureImportances))
	copy(importances, rf.featureImportances)
	return importances
}

// NTrees returns the number of fitted trees.
func (rf *RandomForestRegressor) NTrees() int {
	return len(rf.trees)
}

// IsFitted returns whether the forest has been trained.
func (rf *RandomForestRegressor) IsFitted() bool {
	return rf.state.IsFitted()
}
