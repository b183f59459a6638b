package scenario

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fasalmitra/agroadvisor/config"
	"github.com/fasalmitra/agroadvisor/core/stats"
	"github.com/fasalmitra/agroadvisor/dataset"
	"github.com/fasalmitra/agroadvisor/ensemble"
	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/pkg/log"
	"github.com/fasalmitra/agroadvisor/pkg/telemetry"
)

// zCritical95 is the normal-approximation critical value for a 95% interval.
const zCritical95 = 1.96

// Predictor runs the full multi-scenario pipeline: train on demand, derive
// scenarios, fill missing inputs from history, predict each scenario with an
// uncertainty estimate, and rank the results by predicted yield.
type Predictor struct {
	provider  dataset.Provider
	trainer   *Trainer
	generator *Generator
	economics config.Economics

	logger log.Logger
}

// NewPredictor creates a Predictor over the given provider. Forest options
// are passed through to the trainer.
func NewPredictor(provider dataset.Provider, economics config.Economics, opts ...ensemble.RandomForestOption) *Predictor {
	return &Predictor{
		provider:  provider,
		trainer:   NewTrainer(provider, opts...),
		generator: NewGenerator(provider),
		economics: economics,
		logger:    log.GetLoggerWithName("scenario").With(log.ComponentKey, "Predictor"),
	}
}

// Trainer exposes the underlying trainer, e.g. for training reports.
func (p *Predictor) Trainer() *Trainer {
	return p.trainer
}

// PredictScenarios derives scenarios from base, predicts each one and returns
// the results sorted by predicted yield, highest first. The sort is stable so
// equal-yield scenarios keep their derivation order. Training happens on the
// first call and is reused afterwards.
func (p *Predictor) PredictScenarios(base FeatureVector) (_ []Result, err error) {
	defer agroErrors.Recover(&err, "Predictor.PredictScenarios")

	startTime := time.Now()

	if _, err := p.trainer.EnsureTrained(); err != nil {
		return nil, err
	}

	scenarios, err := p.generator.Generate(base)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := p.predictOne(sc)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PredictedYield > results[j].PredictedYield
	})

	p.logger.Info("scenarios predicted",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.CropKey, base.Crop,
		log.StateKey, base.State,
		log.PredsKey, len(results),
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
	)

	return results, nil
}

// Predict runs a single scenario through the model without generating
// variants. Training happens on demand, as with PredictScenarios.
func (p *Predictor) Predict(sc Scenario) (_ Result, err error) {
	defer agroErrors.Recover(&err, "Predictor.Predict")

	if _, err := p.trainer.EnsureTrained(); err != nil {
		return Result{}, err
	}
	return p.predictOne(sc)
}

func (p *Predictor) predictOne(sc Scenario) (Result, error) {
	filled, err := p.fillMissing(sc.FeatureVector)
	if err != nil {
		return Result{}, err
	}

	row, err := p.encodeRow(&filled)
	if err != nil {
		return Result{}, err
	}

	mean, std, err := p.trainer.Forest().PredictWithStd(row)
	if err != nil {
		return Result{}, err
	}

	yield := round2(mean)
	lower := round2(math.Max(0, mean-zCritical95*std))
	upper := round2(mean + zCritical95*std)

	res := Result{
		Scenario:       sc,
		PredictedYield: yield,
		Confidence:     Interval{Lower: lower, Upper: upper},
		RiskLevel:      AssessRisk(std, mean),
		Profit:         p.estimateProfit(&filled, yield),
	}
	res.Scenario.FeatureVector = filled
	return res, nil
}

// encodeRow converts a fully-filled vector into the model input row, mapping
// unseen categoricals to the fallback id.
func (p *Predictor) encodeRow(fv *FeatureVector) ([]float64, error) {
	cropID, _, err := p.trainer.CropEncoder().TransformOrFallback(fv.Crop)
	if err != nil {
		return nil, err
	}
	stateID, _, err := p.trainer.StateEncoder().TransformOrFallback(fv.State)
	if err != nil {
		return nil, err
	}
	seasonID, _, err := p.trainer.SeasonEncoder().TransformOrFallback(strings.TrimSpace(fv.Season))
	if err != nil {
		return nil, err
	}

	return []float64{
		float64(cropID), float64(stateID), float64(seasonID),
		fv.Area, fv.Fertilizer, fv.Pesticide,
		fv.AvgTempC, fv.TotalRainfallMM, fv.AvgHumidityPct,
		fv.N, fv.P, fv.K, fv.PH,
	}, nil
}

// fillMissing resolves every unset numerical feature: first from the median
// of the crop+state historical slice, then from the global default table.
// Each fill is counted per feature and source.
func (p *Predictor) fillMissing(fv FeatureVector) (FeatureVector, error) {
	if allSet(&fv) {
		return fv, nil
	}

	history, err := p.provider.Filter(dataset.Query{Crop: fv.Crop, State: fv.State})
	if err != nil {
		return fv, err
	}

	for _, name := range NumericalFeatures {
		if fv.IsSet(name) {
			continue
		}

		if v, ok := sliceMedian(history, name); ok {
			setNumeric(&fv, name, v)
			telemetry.MissingFeatureFillTotal.WithLabelValues(name, telemetry.FillSourceSliceMedian).Inc()
			continue
		}

		setNumeric(&fv, name, globalDefaults[name])
		telemetry.MissingFeatureFillTotal.WithLabelValues(name, telemetry.FillSourceGlobalDefault).Inc()
	}

	return fv, nil
}

// sliceMedian computes the median of the named feature over the historical
// slice, skipping records whose join for that feature failed. Returns false
// when no usable values exist.
func sliceMedian(history []dataset.Record, name string) (float64, bool) {
	var values []float64
	for i := range history {
		r := &history[i]
		switch name {
		case FeatureArea:
			values = append(values, r.Area)
		case FeatureFertilizer:
			values = append(values, r.Fertilizer)
		case FeaturePesticide:
			values = append(values, r.Pesticide)
		case FeatureAvgTempC:
			if r.HasWeather {
				values = append(values, r.AvgTempC)
			}
		case FeatureRainfall:
			if r.HasWeather {
				values = append(values, r.TotalRainfallMM)
			}
		case FeatureHumidity:
			if r.HasWeather {
				values = append(values, r.AvgHumidityPct)
			}
		case FeatureN:
			if r.HasSoil {
				values = append(values, r.N)
			}
		case FeatureP:
			if r.HasSoil {
				values = append(values, r.P)
			}
		case FeatureK:
			if r.HasSoil {
				values = append(values, r.K)
			}
		case FeaturePH:
			if r.HasSoil {
				values = append(values, r.PH)
			}
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	return stats.Median(values), true
}

// estimateProfit applies the simplified profit model to a filled vector and
// its predicted yield. Money figures are rounded to whole units; the
// per-hectare figure is zero when area is zero.
func (p *Predictor) estimateProfit(fv *FeatureVector, yield float64) ProfitEstimate {
	revenue := yield * fv.Area * p.economics.PricePerQuintal
	costs := fv.Fertilizer*p.economics.FertilizerCostPerKg +
		fv.Pesticide*p.economics.PesticideCostPerKg +
		fv.Area*p.economics.OverheadPerHectare
	profit := revenue - costs

	perHectare := 0.0
	if fv.Area != 0 {
		perHectare = profit / fv.Area
	}

	return ProfitEstimate{
		Revenue:          math.Round(revenue),
		Costs:            math.Round(costs),
		Profit:           math.Round(profit),
		ProfitPerHectare: math.Round(perHectare),
	}
}

func allSet(fv *FeatureVector) bool {
	for _, name := range NumericalFeatures {
		if !fv.IsSet(name) {
			return false
		}
	}
	return true
}

// setNumeric assigns the named numerical feature.
func setNumeric(fv *FeatureVector, name string, v float64) {
	switch name {
	case FeatureArea:
		fv.Area = v
	case FeatureFertilizer:
		fv.Fertilizer = v
	case FeaturePesticide:
		fv.Pesticide = v
	case FeatureAvgTempC:
		fv.AvgTempC = v
	case FeatureRainfall:
		fv.TotalRainfallMM = v
	case FeatureHumidity:
		fv.AvgHumidityPct = v
	case FeatureN:
		fv.N = v
	case FeatureP:
		fv.P = v
	case FeatureK:
		fv.K = v
	case FeaturePH:
		fv.PH = v
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
