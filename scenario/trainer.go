package scenario

import (
	"math/rand/v2"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/fasalmitra/agroadvisor/dataset"
	"github.com/fasalmitra/agroadvisor/ensemble"
	"github.com/fasalmitra/agroadvisor/metrics"
	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/pkg/log"
	"github.com/fasalmitra/agroadvisor/preprocessing"
)

// MinTrainingRows is the smallest dataset the trainer accepts. Below this a
// 80/20 split leaves too few test rows for the holdout score to mean anything.
const MinTrainingRows = 10

const (
	testFraction = 0.2
	splitSeed    = 42
)

// TrainReport summarizes one training run.
type TrainReport struct {
	TrainScore float64
	TestScore  float64
	Samples    int

	// Degenerate is set when the holdout split had zero target variance, in
	// which case TestScore is reported as 0 rather than failing training.
	Degenerate bool
}

// Trainer fits the yield model on the complete rows of a dataset and retains
// the fitted label encoders alongside the forest. The encoders are part of
// the trained artifact: inference must encode with the exact mapping learned
// here.
type Trainer struct {
	mu sync.Mutex

	provider dataset.Provider
	forest   *ensemble.RandomForestRegressor

	cropEncoder   *preprocessing.LabelEncoder
	stateEncoder  *preprocessing.LabelEncoder
	seasonEncoder *preprocessing.LabelEncoder

	report  *TrainReport
	trained bool

	logger log.Logger
}

// NewTrainer creates a Trainer over the given provider. Forest options
// override the published hyperparameters (100 trees, depth 15, split 5,
// seed 42).
func NewTrainer(provider dataset.Provider, opts ...ensemble.RandomForestOption) *Trainer {
	return &Trainer{
		provider:      provider,
		forest:        ensemble.NewRandomForestRegressor(opts...),
		cropEncoder:   preprocessing.NewLabelEncoder(FeatureCrop),
		stateEncoder:  preprocessing.NewLabelEncoder(FeatureState),
		seasonEncoder: preprocessing.NewLabelEncoder(FeatureSeason),
		logger:        log.GetLoggerWithName("scenario").With(log.ComponentKey, "Trainer"),
	}
}

// IsTrained reports whether a model is ready for inference.
func (t *Trainer) IsTrained() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trained
}

// Report returns the report of the last successful training run, or nil.
func (t *Trainer) Report() *TrainReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.report
}

// Forest returns the fitted model. Valid only after a successful Train.
func (t *Trainer) Forest() *ensemble.RandomForestRegressor {
	return t.forest
}

// EnsureTrained trains once and is a no-op on every later call. Concurrent
// callers serialize on the trainer lock, so at most one training run happens.
func (t *Trainer) EnsureTrained() (*TrainReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.trained {
		return t.report, nil
	}
	return t.train()
}

// Train fits the model unconditionally, replacing any earlier fit.
func (t *Trainer) Train() (*TrainReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.train()
}

func (t *Trainer) train() (_ *TrainReport, err error) {
	defer agroErrors.Recover(&err, "Trainer.Train")

	startTime := time.Now()

	records, err := t.provider.Filter(dataset.Query{})
	if err != nil {
		return nil, err
	}

	// Only rows with both joins intact are usable for training.
	complete := records[:0:0]
	for i := range records {
		if records[i].Complete() {
			complete = append(complete, records[i])
		}
	}

	if len(complete) < MinTrainingRows {
		return nil, agroErrors.NewInsufficientDataError("Trainer.Train", MinTrainingRows, len(complete))
	}

	if err := t.fitEncoders(complete); err != nil {
		return nil, err
	}

	X, y, err := t.buildMatrix(complete)
	if err != nil {
		return nil, err
	}

	trainIdx, testIdx := splitIndices(len(complete), testFraction, splitSeed)

	trainX, trainY := subsetRows(X, y, trainIdx)
	testX, testY := subsetRows(X, y, testIdx)

	if err := t.forest.Fit(trainX, trainY); err != nil {
		return nil, err
	}

	report := &TrainReport{Samples: len(complete)}

	var degenerate bool
	report.TrainScore, degenerate, err = t.score(trainX, trainY)
	if err != nil {
		return nil, err
	}
	report.Degenerate = degenerate

	report.TestScore, degenerate, err = t.score(testX, testY)
	if err != nil {
		return nil, err
	}
	report.Degenerate = report.Degenerate || degenerate

	t.report = report
	t.trained = true

	t.logger.Info("model trained",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, report.Samples,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		"train_score", report.TrainScore,
		"test_score", report.TestScore,
	)

	return report, nil
}

// fitEncoders learns the categorical mappings from the training rows. Seasons
// are trimmed before fitting so the encoder never sees whitespace variants.
func (t *Trainer) fitEncoders(records []dataset.Record) error {
	crops := make([]string, len(records))
	states := make([]string, len(records))
	seasons := make([]string, len(records))
	for i := range records {
		crops[i] = records[i].Crop
		states[i] = records[i].State
		seasons[i] = records[i].SeasonTrimmed()
	}

	if err := t.cropEncoder.Fit(crops); err != nil {
		return err
	}
	if err := t.stateEncoder.Fit(states); err != nil {
		return err
	}
	return t.seasonEncoder.Fit(seasons)
}

// buildMatrix encodes records into the fixed-order feature matrix and the
// target vector.
func (t *Trainer) buildMatrix(records []dataset.Record) (*mat.Dense, *mat.VecDense, error) {
	X := mat.NewDense(len(records), NFeatures, nil)
	y := mat.NewVecDense(len(records), nil)

	for i := range records {
		r := &records[i]

		cropID, err := t.cropEncoder.Transform(r.Crop)
		if err != nil {
			return nil, nil, err
		}
		stateID, err := t.stateEncoder.Transform(r.State)
		if err != nil {
			return nil, nil, err
		}
		seasonID, err := t.seasonEncoder.Transform(r.SeasonTrimmed())
		if err != nil {
			return nil, nil, err
		}

		X.SetRow(i, []float64{
			float64(cropID), float64(stateID), float64(seasonID),
			r.Area, r.Fertilizer, r.Pesticide,
			r.AvgTempC, r.TotalRainfallMM, r.AvgHumidityPct,
			r.N, r.P, r.K, r.PH,
		})
		y.SetVec(i, r.Yield)
	}

	return X, y, nil
}

// score computes R² of the model on the given rows. A zero-variance target
// cannot be scored; the score degrades to 0 with the degenerate flag set
// rather than failing training.
func (t *Trainer) score(X *mat.Dense, y *mat.VecDense) (float64, bool, error) {
	pred, err := t.forest.Predict(X)
	if err != nil {
		return 0, false, err
	}

	n, _ := pred.Dims()
	predVec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		predVec.SetVec(i, pred.At(i, 0))
	}

	score, err := metrics.R2Score(y, predVec)
	if err != nil {
		if agroErrors.Is(err, agroErrors.ErrDegenerateData) {
			return 0, true, nil
		}
		return 0, false, err
	}
	return score, false, nil
}

// splitIndices partitions [0,n) into train and test index sets via a seeded
// shuffle. The same seed always produces the same partition.
func splitIndices(n int, testFrac float64, seed int64) (train, test []int) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	rng.Shuffle(n, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	nTest := int(float64(n) * testFrac)
	if nTest < 1 {
		nTest = 1
	}

	return perm[nTest:], perm[:nTest]
}

// subsetRows extracts the rows of X and y at the given indices.
func subsetRows(X *mat.Dense, y *mat.VecDense, idx []int) (*mat.Dense, *mat.VecDense) {
	_, cols := X.Dims()
	subX := mat.NewDense(len(idx), cols, nil)
	subY := mat.NewVecDense(len(idx), nil)
	for i, src := range idx {
		subX.SetRow(i, mat.Row(nil, src, X))
		subY.SetVec(i, y.AtVec(src))
	}
	return subX, subY
}

// CropEncoder returns the fitted crop encoder.
func (t *Trainer) CropEncoder() *preprocessing.LabelEncoder { return t.cropEncoder }

// StateEncoder returns the fitted state encoder.
func (t *Trainer) StateEncoder() *preprocessing.LabelEncoder { return t.stateEncoder }

// SeasonEncoder returns the fitted season encoder.
func (t *Trainer) SeasonEncoder() *preprocessing.LabelEncoder { return t.seasonEncoder }
