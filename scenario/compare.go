package scenario

import (
	"fmt"

	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
)

// recommendationThreshold is the minimum yield improvement over the baseline,
// in quintal per hectare, worth calling out to the farmer.
const recommendationThreshold = 2.0

// Pick names one scenario selected as best along a single axis, with its
// improvement over the baseline.
type Pick struct {
	Name        string
	Value       float64
	Improvement float64
}

// Comparison summarizes a ranked result set: the best scenario per axis and a
// set of plain-language recommendations.
type Comparison struct {
	TotalScenarios int

	BestForYield  Pick
	BestForProfit Pick
	LowestRisk    Pick

	Recommendations []string
}

// Compare analyzes ranked results against their baseline. Results must be the
// output of PredictScenarios (sorted by yield descending); when no baseline
// scenario is present the last-ranked entry stands in for it.
//
// Errors:
//   - ErrEmptyData: if results is empty
func Compare(results []Result) (_ *Comparison, err error) {
	defer agroErrors.Recover(&err, "scenario.Compare")

	if len(results) == 0 {
		return nil, agroErrors.NewModelError("scenario.Compare", "no results to compare", agroErrors.ErrEmptyData)
	}

	baseline := &results[len(results)-1]
	for i := range results {
		if results[i].Type == TypeBaseline {
			baseline = &results[i]
			break
		}
	}

	cmp := &Comparison{TotalScenarios: len(results)}

	bestYield := &results[0]
	bestProfit := &results[0]
	lowestRisk := &results[0]
	for i := range results {
		r := &results[i]
		if r.PredictedYield > bestYield.PredictedYield {
			bestYield = r
		}
		if r.Profit.Profit > bestProfit.Profit.Profit {
			bestProfit = r
		}
		if riskOrdinal(r.RiskLevel) < riskOrdinal(lowestRisk.RiskLevel) {
			lowestRisk = r
		}
	}

	cmp.BestForYield = Pick{
		Name:        bestYield.Name,
		Value:       bestYield.PredictedYield,
		Improvement: bestYield.PredictedYield - baseline.PredictedYield,
	}
	cmp.BestForProfit = Pick{
		Name:        bestProfit.Name,
		Value:       bestProfit.Profit.Profit,
		Improvement: bestProfit.Profit.Profit - baseline.Profit.Profit,
	}
	cmp.LowestRisk = Pick{
		Name:        lowestRisk.Name,
		Value:       lowestRisk.PredictedYield,
		Improvement: lowestRisk.PredictedYield - baseline.PredictedYield,
	}

	cmp.Recommendations = buildRecommendations(results, baseline)

	return cmp, nil
}

// buildRecommendations produces plain-text guidance: material yield
// improvements with their profit delta, high-risk warnings, and the safest
// option. The list is empty when nothing stands out.
func buildRecommendations(results []Result, baseline *Result) []string {
	var recs []string

	for i := range results {
		r := &results[i]
		if r.Type == TypeBaseline {
			continue
		}
		improvement := r.PredictedYield - baseline.PredictedYield
		if improvement > recommendationThreshold {
			profitDelta := r.Profit.Profit - baseline.Profit.Profit
			recs = append(recs, fmt.Sprintf(
				"%s could increase yield by %.1f quintal/ha (profit change: %.0f)",
				r.Name, improvement, profitDelta))
		}
	}

	for i := range results {
		r := &results[i]
		if r.RiskLevel == RiskHigh {
			recs = append(recs, fmt.Sprintf(
				"%s carries high risk: predicted outcomes vary widely", r.Name))
		}
	}

	// The safest option: the highest-yield low-risk scenario, baseline
	// included. Results are sorted by yield, so the first match wins.
	for i := range results {
		r := &results[i]
		if r.RiskLevel == RiskLow {
			recs = append(recs, fmt.Sprintf(
				"Safest option: %s (%.1f quintal/ha, low risk)", r.Name, r.PredictedYield))
			break
		}
	}

	return recs
}
