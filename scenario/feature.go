// Package scenario implements the multi-scenario outcome predictor: it trains
// the yield model, derives what-if scenarios from a baseline configuration,
// predicts each scenario with an uncertainty estimate, and compares the
// ranked results.
package scenario

import "math"

// Feature names, in the fixed order consumed by the yield model. This set is
// the contract between training and inference and must not drift.
const (
	FeatureCrop   = "crop"
	FeatureState  = "state"
	FeatureSeason = "season"

	FeatureArea       = "area"
	FeatureFertilizer = "fertilizer"
	FeaturePesticide  = "pesticide"
	FeatureAvgTempC   = "avg_temp_c"
	FeatureRainfall   = "total_rainfall_mm"
	FeatureHumidity   = "avg_humidity_percent"
	FeatureN          = "N"
	FeatureP          = "P"
	FeatureK          = "K"
	FeaturePH         = "pH"
)

// CategoricalFeatures lists the encoded features in model input order.
var CategoricalFeatures = []string{FeatureCrop, FeatureState, FeatureSeason}

// NumericalFeatures lists the numeric features in model input order.
var NumericalFeatures = []string{
	FeatureArea, FeatureFertilizer, FeaturePesticide,
	FeatureAvgTempC, FeatureRainfall, FeatureHumidity,
	FeatureN, FeatureP, FeatureK, FeaturePH,
}

// NFeatures is the width of the model input vector.
var NFeatures = len(CategoricalFeatures) + len(NumericalFeatures)

// globalDefaults is the fixed fallback table for numerical features that are
// absent from a scenario and have no crop+state history to take a median
// from. Values mirror the defaults the advisory service has always shipped.
var globalDefaults = map[string]float64{
	FeatureArea:       1000,
	FeatureFertilizer: 25000,
	FeaturePesticide:  500,
	FeatureAvgTempC:   25.0,
	FeatureRainfall:   1000.0,
	FeatureHumidity:   70.0,
	FeatureN:          75,
	FeatureP:          35,
	FeatureK:          30,
	FeaturePH:         6.5,
}

// FeatureVector is one farming configuration: three categorical and ten
// numerical features. Numerical fields left as NaN are "not provided" and are
// filled by the predictor from historical medians or the global default
// table. Use NewFeatureVector to get a vector with all numerics unset.
type FeatureVector struct {
	Crop   string
	State  string
	Season string

	Area       float64
	Fertilizer float64
	Pesticide  float64

	AvgTempC        float64
	TotalRainfallMM float64
	AvgHumidityPct  float64

	N, P, K float64
	PH      float64
}

// NewFeatureVector returns a vector for the given categoricals with every
// numerical feature unset.
func NewFeatureVector(crop, state, season string) FeatureVector {
	nan := math.NaN()
	return FeatureVector{
		Crop:            crop,
		State:           state,
		Season:          season,
		Area:            nan,
		Fertilizer:      nan,
		Pesticide:       nan,
		AvgTempC:        nan,
		TotalRainfallMM: nan,
		AvgHumidityPct:  nan,
		N:               nan,
		P:               nan,
		K:               nan,
		PH:              nan,
	}
}

// numeric returns the value of the named numerical feature.
func (fv *FeatureVector) numeric(name string) float64 {
	switch name {
	case FeatureArea:
		return fv.Area
	case FeatureFertilizer:
		return fv.Fertilizer
	case FeaturePesticide:
		return fv.Pesticide
	case FeatureAvgTempC:
		return fv.AvgTempC
	case FeatureRainfall:
		return fv.TotalRainfallMM
	case FeatureHumidity:
		return fv.AvgHumidityPct
	case FeatureN:
		return fv.N
	case FeatureP:
		return fv.P
	case FeatureK:
		return fv.K
	case FeaturePH:
		return fv.PH
	}
	return math.NaN()
}

// IsSet reports whether the named numerical feature carries a value.
func (fv *FeatureVector) IsSet(name string) bool {
	return !math.IsNaN(fv.numeric(name))
}
