package scenario

// Type tags a scenario with the strategy that derived it.
type Type string

// Scenario type tags.
const (
	TypeBaseline        Type = "baseline"
	TypeCostSaving      Type = "cost_saving"
	TypeYieldMaximizing Type = "yield_maximizing"
	TypeTimingVariation Type = "timing_variation"
	TypeOptimized       Type = "optimized"
	TypeRiskAverse      Type = "risk_averse"
)

// Scenario is one hypothetical farming configuration derived from a baseline.
// Scenarios are created fresh per prediction request and never persisted.
type Scenario struct {
	FeatureVector

	Name        string
	Type        Type
	Description string
}

// RiskLevel classifies prediction uncertainty relative to the predicted
// yield.
type RiskLevel string

// Risk levels, ordered low < medium < high.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// riskOrdinal ranks risk levels for lowest-risk selection.
func riskOrdinal(r RiskLevel) int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	default:
		return 3
	}
}

// AssessRisk classifies risk from the ensemble spread and the predicted
// yield. It is a pure function of its inputs: the coefficient of variation
// std/yield maps to low (<0.15), medium (<0.30) or high; a zero predicted
// yield is always high risk.
func AssessRisk(std, predictedYield float64) RiskLevel {
	if predictedYield == 0 {
		return RiskHigh
	}

	cv := std / predictedYield

	switch {
	case cv < 0.15:
		return RiskLow
	case cv < 0.30:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Interval is a 95% confidence interval around a predicted yield. Lower is
// floored at zero: a negative yield is not a physical outcome.
type Interval struct {
	Lower float64
	Upper float64
}

// ProfitEstimate is the simplified profit breakdown attached to a result.
// All figures are plain numbers in a single implied currency.
type ProfitEstimate struct {
	Revenue          float64
	Costs            float64
	Profit           float64
	ProfitPerHectare float64
}

// Result is a Scenario enriched with the model's prediction, uncertainty,
// risk classification and profit estimate. Immutable after creation.
type Result struct {
	Scenario

	PredictedYield float64
	Confidence     Interval
	RiskLevel      RiskLevel
	Profit         ProfitEstimate
}
