package scenario

import (
	"fmt"
	"math"
	"strings"

	"github.com/fasalmitra/agroadvisor/core/stats"
	"github.com/fasalmitra/agroadvisor/dataset"
	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/pkg/log"
)

// MaxScenarios caps the generated set for presentation clarity. Generation
// order decides what survives truncation; the baseline is generated first and
// therefore always survives.
const MaxScenarios = 6

// Input perturbation factors for the derived scenarios.
const (
	reducedFertilizerFactor  = 0.85
	enhancedFertilizerFactor = 1.20
	conservativeFertFactor   = 0.90
	conservativePestFactor   = 0.80
	optimalCohortPercentile  = 90
	optimalCohortMinimumSize = 3
)

// Generator derives what-if scenarios from a baseline feature vector using
// the historical record of the baseline's crop and state.
type Generator struct {
	provider dataset.Provider
	logger   log.Logger
}

// NewGenerator creates a Generator over the given dataset provider.
func NewGenerator(provider dataset.Provider) *Generator {
	return &Generator{
		provider: provider,
		logger:   log.GetLoggerWithName("scenario").With(log.ComponentKey, "Generator"),
	}
}

// Generate derives up to MaxScenarios scenarios from base, in a fixed
// derivation order: baseline, reduced fertilizer, enhanced fertilizer, one
// per alternative season, top-performer strategy (when enough history
// exists), conservative. Season variants keep the order the dataset yields
// them in; if the total exceeds the cap, later entries are dropped.
func (g *Generator) Generate(base FeatureVector) (_ []Scenario, err error) {
	defer agroErrors.Recover(&err, "Generator.Generate")

	baseFertilizer := base.Fertilizer
	if math.IsNaN(baseFertilizer) {
		baseFertilizer = globalDefaults[FeatureFertilizer]
	}
	basePesticide := base.Pesticide
	if math.IsNaN(basePesticide) {
		basePesticide = globalDefaults[FeaturePesticide]
	}

	scenarios := make([]Scenario, 0, MaxScenarios+2)

	scenarios = append(scenarios, Scenario{
		FeatureVector: base,
		Name:          "Current Practice",
		Type:          TypeBaseline,
		Description:   "Your current farming approach",
	})

	reduced := base
	reduced.Fertilizer = baseFertilizer * reducedFertilizerFactor
	scenarios = append(scenarios, Scenario{
		FeatureVector: reduced,
		Name:          "Reduced Fertilizer",
		Type:          TypeCostSaving,
		Description:   "15% less fertilizer - cost savings vs yield trade-off",
	})

	enhanced := base
	enhanced.Fertilizer = baseFertilizer * enhancedFertilizerFactor
	scenarios = append(scenarios, Scenario{
		FeatureVector: enhanced,
		Name:          "Enhanced Fertilizer",
		Type:          TypeYieldMaximizing,
		Description:   "20% more fertilizer - maximize yield approach",
	})

	if base.Season != "" {
		seasonScenarios, err := g.seasonVariants(base)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, seasonScenarios...)
	}

	optimal, err := g.optimalScenario(base)
	if err != nil {
		return nil, err
	}
	if optimal != nil {
		scenarios = append(scenarios, *optimal)
	}

	conservative := base
	conservative.Fertilizer = baseFertilizer * conservativeFertFactor
	conservative.Pesticide = basePesticide * conservativePestFactor
	scenarios = append(scenarios, Scenario{
		FeatureVector: conservative,
		Name:          "Conservative Approach",
		Type:          TypeRiskAverse,
		Description:   "Lower inputs, more predictable outcomes",
	})

	if len(scenarios) > MaxScenarios {
		scenarios = scenarios[:MaxScenarios]
	}

	g.logger.Debug("scenarios generated",
		log.CropKey, base.Crop,
		log.StateKey, base.State,
		"count", len(scenarios),
	)

	return scenarios, nil
}

// seasonVariants produces one scenario per season observed for the baseline's
// crop and state other than the baseline season, in first-appearance order.
func (g *Generator) seasonVariants(base FeatureVector) ([]Scenario, error) {
	records, err := g.provider.Filter(dataset.Query{Crop: base.Crop, State: base.State})
	if err != nil {
		return nil, err
	}

	baseSeason := strings.TrimSpace(base.Season)
	seen := map[string]bool{}
	var variants []Scenario

	for i := range records {
		season := records[i].SeasonTrimmed()
		if season == baseSeason || seen[season] {
			continue
		}
		seen[season] = true

		variant := base
		variant.Season = season
		variants = append(variants, Scenario{
			FeatureVector: variant,
			Name:          fmt.Sprintf("%s Season", season),
			Type:          TypeTimingVariation,
			Description:   fmt.Sprintf("Plant in %s season instead", season),
		})
	}

	return variants, nil
}

// optimalScenario builds the top-performer strategy: fertilizer and pesticide
// set to the medians of the records at or above the 90th-percentile yield of
// the baseline's crop/state/season slice. Returns nil when the cohort has
// fewer than 3 records, which is too small for a reliable median.
func (g *Generator) optimalScenario(base FeatureVector) (*Scenario, error) {
	records, err := g.provider.Filter(dataset.Query{
		Crop:   base.Crop,
		State:  base.State,
		Season: base.Season,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	yields := make([]float64, len(records))
	for i := range records {
		yields[i] = records[i].Yield
	}
	threshold := stats.Percentile(yields, optimalCohortPercentile)

	var fert, pest []float64
	for i := range records {
		if records[i].Yield >= threshold {
			fert = append(fert, records[i].Fertilizer)
			pest = append(pest, records[i].Pesticide)
		}
	}

	if len(fert) < optimalCohortMinimumSize {
		return nil, nil
	}

	optimal := base
	optimal.Fertilizer = math.Round(stats.Median(fert))
	optimal.Pesticide = math.Round(stats.Median(pest))

	return &Scenario{
		FeatureVector: optimal,
		Name:          "Top Performer Strategy",
		Type:          TypeOptimized,
		Description:   "Based on top 10% performers in your region",
	}, nil
}
