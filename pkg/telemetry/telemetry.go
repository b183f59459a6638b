// Package telemetry exposes Prometheus counters for the data-quality branches
// that must stay observable: the unseen-category encoder fallback, the
// missing-feature median fill, and rows left incomplete by the dataset merge.
// These branches deliberately do not fail the request, so counting them is the
// only signal that they fired.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UnseenCategoryTotal counts categorical values mapped to the fallback id
	// because they were not present at training time.
	UnseenCategoryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agroadvisor",
		Name:      "unseen_category_total",
		Help:      "Categorical values not seen at training time, mapped to the fallback id.",
	}, []string{"feature"})

	// MissingFeatureFillTotal counts numerical features filled from slice
	// medians or global defaults because the scenario did not carry them.
	MissingFeatureFillTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agroadvisor",
		Name:      "missing_feature_fill_total",
		Help:      "Numerical features filled from historical medians or global defaults.",
	}, []string{"feature", "source"})

	// IncompleteJoinRowsTotal counts merged rows left with a null weather or
	// soil field. These rows are excluded from training but kept in the merged
	// table; a non-zero count is a data-quality defect upstream.
	IncompleteJoinRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agroadvisor",
		Name:      "incomplete_join_rows_total",
		Help:      "Rows with null joined weather/soil fields after the dataset merge.",
	})
)

// Fill sources for MissingFeatureFillTotal.
const (
	FillSourceSliceMedian   = "slice_median"
	FillSourceGlobalDefault = "global_default"
)
