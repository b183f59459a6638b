// Package ensemble implements the regression tree and random-forest regressor
// behind the yield model. The forest exposes per-tree predictions so callers
// can derive an uncertainty estimate from the spread of the ensemble.
package ensemble

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// treeNode represents a node in a regression tree.
type treeNode struct {
	IsLeaf    bool      // Whether this is a leaf node
	Feature   int       // Feature index for split (internal nodes)
	Threshold float64   // Threshold value for split (internal nodes)
	Left      *treeNode // Left child (values <= threshold)
	Right     *treeNode // Right child (values > threshold)
	Value     float64   // Predicted value (leaf nodes)
	Impurity  float64   // Node impurity (variance)
	NSamples  int       // Number of samples at this node
	Depth     int       // Depth of this node in the tree
}

// regressionTree is a CART regression tree using variance reduction splits.
// It is the building block of RandomForestRegressor and is not exported; the
// forest owns tree construction and randomness.
type regressionTree struct {
	maxDepth        int // Maximum depth (0 = unlimited)
	minSamplesSplit int // Minimum samples to split a node
	minSamplesLeaf  int // Minimum samples in a leaf
	maxFeatures     int // Features considered per split (0 = all)

	rng *rand.Rand

	root               *treeNode
	nFeatures          int
	featureImportances []float64
}

// fit builds the tree on X, y.
func (t *regressionTree) fit(X mat.Matrix, y []float64) {
	_, nFeatures := X.Dims()
	t.nFeatures = nFeatures
	t.featureImportances = make([]float64, nFeatures)
	t.root = t.buildTree(X, y, 0)
	t.normalizeFeatureImportances()
}

// buildTree recursively builds the regression tree.
func (t *regressionTree) buildTree(X mat.Matrix, y []float64, depth int) *treeNode {
	nSamples, _ := X.Dims()

	mean := meanOf(y)
	impurity := varianceOf(y, mean)

	node := &treeNode{
		Value:    mean,
		Impurity: impurity,
		NSamples: nSamples,
		Depth:    depth,
	}

	if t.shouldStop(nSamples, impurity, depth) {
		node.IsLeaf = true
		return node
	}

	bestFeature, bestThreshold, bestImpurityDecrease := t.findBestSplit(X, y, impurity)

	if bestFeature == -1 {
		node.IsLeaf = true
		return node
	}

	leftIndices, rightIndices := t.splitData(X, bestFeature, bestThreshold)

	if len(leftIndices) < t.minSamplesLeaf || len(rightIndices) < t.minSamplesLeaf {
		node.IsLeaf = true
		return node
	}

	node.Feature = bestFeature
	node.Threshold = bestThreshold

	t.featureImportances[bestFeature] += bestImpurityDecrease * float64(nSamples)

	leftX, leftY := t.getSubset(X, y, leftIndices)
	rightX, rightY := t.getSubset(X, y, rightIndices)

	node.Left = t.buildTree(leftX, leftY, depth+1)
	node.Right = t.buildTree(rightX, rightY, depth+1)

	return node
}

// shouldStop checks the stopping criteria.
func (t *regressionTree) shouldStop(nSamples int, impurity float64, depth int) bool {
	if t.maxDepth > 0 && depth >= t.maxDepth {
		return true
	}
	if nSamples < t.minSamplesSplit {
		return true
	}
	// Pure node: all targets identical
	if impurity == 0.0 {
		return true
	}
	return false
}

// findBestSplit finds the feature and threshold with the largest variance
// reduction, searching a random feature subset when maxFeatures is set.
func (t *regressionTree) findBestSplit(X mat.Matrix, y []float64, parentImpurity float64) (int, float64, float64) {
	nSamples, nFeatures := X.Dims()
	bestFeature := -1
	bestThreshold := 0.0
	bestImpurityDecrease := 0.0

	features := t.candidateFeatures(nFeatures)

	for _, feature := range features {
		values := make([]float64, nSamples)
		for i := 0; i < nSamples; i++ {
			values[i] = X.At(i, feature)
		}

		sortedIndices := make([]int, nSamples)
		for i := range sortedIndices {
			sortedIndices[i] = i
		}
		sort.Slice(sortedIndices, func(i, j int) bool {
			return values[sortedIndices[i]] < values[sortedIndices[j]]
		})

		for i := 0; i < nSamples-1; i++ {
			idx1 := sortedIndices[i]
			idx2 := sortedIndices[i+1]

			if values[idx1] == values[idx2] {
				continue
			}

			// Threshold is the midpoint between adjacent distinct values
			threshold := (values[idx1] + values[idx2]) / 2.0

			var leftY, rightY []float64
			for j := 0; j < nSamples; j++ {
				if X.At(j, feature) <= threshold {
					leftY = append(leftY, y[j])
				} else {
					rightY = append(rightY, y[j])
				}
			}

			if len(leftY) < t.minSamplesLeaf || len(rightY) < t.minSamplesLeaf {
				continue
			}

			leftImpurity := varianceOf(leftY, meanOf(leftY))
			rightImpurity := varianceOf(rightY, meanOf(rightY))

			weightedImpurity := (float64(len(leftY))*leftImpurity + float64(len(rightY))*rightImpurity) / float64(nSamples)
			impurityDecrease := parentImpurity - weightedImpurity

			if impurityDecrease > bestImpurityDecrease {
				bestImpurityDecrease = impurityDecrease
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestImpurityDecrease
}

// candidateFeatures returns the feature indices to search at a split.
func (t *regressionTree) candidateFeatures(nFeatures int) []int {
	features := make([]int, nFeatures)
	for i := range features {
		features[i] = i
	}
	if t.maxFeatures <= 0 || t.maxFeatures >= nFeatures || t.rng == nil {
		return features
	}
	t.rng.Shuffle(nFeatures, func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})
	return features[:t.maxFeatures]
}

// splitData splits sample indices by feature threshold.
func (t *regressionTree) splitData(X mat.Matrix, feature int, threshold float64) ([]int, []int) {
	nSamples, _ := X.Dims()
	var leftIndices, rightIndices []int

	for i := 0; i < nSamples; i++ {
		if X.At(i, feature) <= threshold {
			leftIndices = append(leftIndices, i)
		} else {
			rightIndices = append(rightIndices, i)
		}
	}

	return leftIndices, rightIndices
}

// getSubset extracts the rows of X and y selected by indices.
func (t *regressionTree) getSubset(X mat.Matrix, y []float64, indices []int) (mat.Matrix, []float64) {
	_, nFeatures := X.Dims()
	nSubSamples := len(indices)

	subX := mat.NewDense(nSubSamples, nFeatures, nil)
	subY := make([]float64, nSubSamples)
	for i, idx := range indices {
		for j := 0; j < nFeatures; j++ {
			subX.Set(i, j, X.At(idx, j))
		}
		subY[i] = y[idx]
	}

	return subX, subY
}

func (t *regressionTree) normalizeFeatureImportances() {
	sum := 0.0
	for _, imp := range t.featureImportances {
		sum += imp
	}
	if sum > 0 {
		for i := range t.featureImportances {
			t.featureImportances[i] /= sum
		}
	}
}

// predictRow traverses the tree for a single sample.
func (t *regressionTree) predictRow(x []float64) float64 {
	node := t.root
	for !node.IsLeaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func varianceOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}
