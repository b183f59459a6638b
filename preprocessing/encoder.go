// Package preprocessing provides the categorical encoding used to feed crop,
// state and season values into the yield model.
package preprocessing

import (
	"sort"

	"github.com/fasalmitra/agroadvisor/core/model"
	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/pkg/log"
	"github.com/fasalmitra/agroadvisor/pkg/telemetry"
)

// LabelEncoder maps string categories to dense integer ids.
//
// The id assignment is the index of the value in the sorted unique set of the
// training data, so the mapping is deterministic for a given dataset. The
// fitted mapping is retained as part of the trained model and reused at
// inference; an unseen value at inference time maps to the fallback id 0
// rather than failing the request (the fallback is counted and logged so data
// quality issues stay visible).
type LabelEncoder struct {
	model.BaseState

	// Name identifies the feature this encoder covers (crop, state, season).
	Name string

	// Classes is the sorted unique category list learned at fit time.
	Classes []string

	// classToIdx maps category -> dense id.
	classToIdx map[string]int

	logger log.Logger
}

// FallbackID is the id assigned to values unseen at training time.
const FallbackID = 0

// NewLabelEncoder creates a new LabelEncoder for the named feature.
func NewLabelEncoder(name string) *LabelEncoder {
	return &LabelEncoder{
		Name:   name,
		logger: log.GetLoggerWithName("preprocessing").With(log.ComponentKey, "LabelEncoder"),
	}
}

// Fit learns the category set from the training values.
//
// Errors:
//   - ErrEmptyData: if values is empty
func (e *LabelEncoder) Fit(values []string) (err error) {
	defer agroErrors.Recover(&err, "LabelEncoder.Fit")
	if len(values) == 0 {
		return agroErrors.NewModelError("LabelEncoder.Fit", "empty data", agroErrors.ErrEmptyData)
	}

	classSet := make(map[string]bool, len(values))
	for _, v := range values {
		classSet[v] = true
	}

	classes := make([]string, 0, len(classSet))
	for class := range classSet {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	e.Classes = classes
	e.classToIdx = make(map[string]int, len(classes))
	for idx, class := range classes {
		e.classToIdx[class] = idx
	}

	e.SetFitted()
	return nil
}

// Transform maps a known category to its id.
//
// Errors:
//   - ErrNotFitted: if the encoder has not been fitted
//   - ValueError: if value was not seen at fit time
func (e *LabelEncoder) Transform(value string) (int, error) {
	if !e.IsFitted() {
		return 0, agroErrors.NewNotFittedError("LabelEncoder", "Transform")
	}

	idx, ok := e.classToIdx[value]
	if !ok {
		return 0, agroErrors.NewValueError("LabelEncoder.Transform", "unseen category: "+value)
	}
	return idx, nil
}

// TransformOrFallback maps a category to its id, substituting FallbackID for
// values unseen at training time. The second return value reports whether the
// fallback branch was taken; the branch is also logged and counted so it stays
// observable without failing the request.
func (e *LabelEncoder) TransformOrFallback(value string) (int, bool, error) {
	if !e.IsFitted() {
		return 0, false, agroErrors.NewNotFittedError("LabelEncoder", "TransformOrFallback")
	}

	if idx, ok := e.classToIdx[value]; ok {
		return idx, false, nil
	}

	e.logger.Warn("unseen category mapped to fallback id",
		"feature", e.Name,
		"value", value,
	)
	telemetry.UnseenCategoryTotal.WithLabelValues(e.Name).Inc()

	return FallbackID, true, nil
}

// InverseTransform maps an id back to its category.
func (e *LabelEncoder) InverseTransform(id int) (string, error) {
	if !e.IsFitted() {
		return "", agroErrors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}
	if id < 0 || id >= len(e.Classes) {
		return "", agroErrors.NewValueError("LabelEncoder.InverseTransform", "id out of range")
	}
	return e.Classes[id], nil
}

// NClasses returns the number of categories learned at fit time.
func (e *LabelEncoder) NClasses() int {
	return len(e.Classes)
}
