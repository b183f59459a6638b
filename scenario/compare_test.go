package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/scenario"
)

func result(name string, typ scenario.Type, yield, profit float64, risk scenario.RiskLevel) scenario.Result {
	return scenario.Result{
		Scenario: scenario.Scenario{
			FeatureVector: scenario.NewFeatureVector("Wheat", "Gujarat", "Rabi"),
			Name:          name,
			Type:          typ,
		},
		PredictedYield: yield,
		RiskLevel:      risk,
		Profit:         scenario.ProfitEstimate{Profit: profit},
	}
}

func TestCompare(t *testing.T) {
	results := []scenario.Result{
		result("Enhanced Fertilizer", scenario.TypeYieldMaximizing, 35, 60000, scenario.RiskMedium),
		result("Top Performer Strategy", scenario.TypeOptimized, 33, 64000, scenario.RiskLow),
		result("Current Practice", scenario.TypeBaseline, 30, 55000, scenario.RiskLow),
		result("Reduced Fertilizer", scenario.TypeCostSaving, 28, 56000, scenario.RiskHigh),
	}

	cmp, err := scenario.Compare(results)
	require.NoError(t, err)

	assert.Equal(t, 4, cmp.TotalScenarios)

	assert.Equal(t, "Enhanced Fertilizer", cmp.BestForYield.Name)
	assert.Equal(t, 35.0, cmp.BestForYield.Value)
	assert.Equal(t, 5.0, cmp.BestForYield.Improvement)

	assert.Equal(t, "Top Performer Strategy", cmp.BestForProfit.Name)
	assert.Equal(t, 9000.0, cmp.BestForProfit.Improvement)

	// Ties on risk keep the first (highest-yield) entry.
	assert.Equal(t, "Top Performer Strategy", cmp.LowestRisk.Name)
}

func TestCompare_Recommendations(t *testing.T) {
	results := []scenario.Result{
		result("Enhanced Fertilizer", scenario.TypeYieldMaximizing, 35, 60000, scenario.RiskMedium),
		result("Top Performer Strategy", scenario.TypeOptimized, 33, 64000, scenario.RiskLow),
		result("Current Practice", scenario.TypeBaseline, 30, 55000, scenario.RiskLow),
		result("Reduced Fertilizer", scenario.TypeCostSaving, 28, 56000, scenario.RiskHigh),
	}

	cmp, err := scenario.Compare(results)
	require.NoError(t, err)

	joined := ""
	for _, rec := range cmp.Recommendations {
		joined += rec + "\n"
	}
	// Enhanced (+5) and Top Performer (+3) clear the 2 quintal/ha threshold.
	assert.Contains(t, joined, "Enhanced Fertilizer could increase yield by 5.0")
	assert.Contains(t, joined, "Top Performer Strategy could increase yield by 3.0")
	assert.Contains(t, joined, "Reduced Fertilizer carries high risk")
	// The safest option is the highest-yield low-risk entry.
	assert.Contains(t, joined, "Safest option: Top Performer Strategy (33.0 quintal/ha, low risk)")
}

func TestCompare_NoBaselineUsesLastRanked(t *testing.T) {
	results := []scenario.Result{
		result("Enhanced Fertilizer", scenario.TypeYieldMaximizing, 35, 60000, scenario.RiskLow),
		result("Reduced Fertilizer", scenario.TypeCostSaving, 28, 56000, scenario.RiskLow),
	}

	cmp, err := scenario.Compare(results)
	require.NoError(t, err)

	// Improvement measured against the last-ranked entry.
	assert.Equal(t, 7.0, cmp.BestForYield.Improvement)
}

func TestCompare_BaselineIsSafestOption(t *testing.T) {
	results := []scenario.Result{
		result("Current Practice", scenario.TypeBaseline, 30, 55000, scenario.RiskLow),
		result("Enhanced Fertilizer", scenario.TypeYieldMaximizing, 28, 54000, scenario.RiskMedium),
	}

	cmp, err := scenario.Compare(results)
	require.NoError(t, err)
	require.Len(t, cmp.Recommendations, 1)
	assert.Equal(t, "Safest option: Current Practice (30.0 quintal/ha, low risk)",
		cmp.Recommendations[0])
}

func TestCompare_HighRiskBaselineFlagged(t *testing.T) {
	results := []scenario.Result{
		result("Current Practice", scenario.TypeBaseline, 30, 55000, scenario.RiskHigh),
		result("Reduced Fertilizer", scenario.TypeCostSaving, 29, 54000, scenario.RiskMedium),
	}

	cmp, err := scenario.Compare(results)
	require.NoError(t, err)
	require.Len(t, cmp.Recommendations, 1)
	assert.Contains(t, cmp.Recommendations[0], "Current Practice carries high risk")
}

func TestCompare_NoStandouts(t *testing.T) {
	results := []scenario.Result{
		result("Current Practice", scenario.TypeBaseline, 30, 55000, scenario.RiskMedium),
		result("Reduced Fertilizer", scenario.TypeCostSaving, 29, 54000, scenario.RiskMedium),
	}

	cmp, err := scenario.Compare(results)
	require.NoError(t, err)
	assert.Empty(t, cmp.Recommendations)
}

func TestCompare_Empty(t *testing.T) {
	_, err := scenario.Compare(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, agroErrors.ErrEmptyData)
}
