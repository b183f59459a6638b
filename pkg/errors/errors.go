// Package errors defines the error taxonomy shared by every component of the
// advisory core.
//
// Two kinds of errors are provided:
//
//   - Sentinel errors (ErrEmptyData, ErrDataUnavailable, ...) for errors.Is checks
//   - Typed errors (NotFittedError, DimensionError, ...) for errors.As extraction
//
// All constructors attach the operation name so that a wrapped chain reads like
// a call path, e.g. "agroadvisor: Predictor.Predict: model not trained yet".
// Stack traces are captured via cockroachdb/errors for %+v formatting.
//
// None of these errors is process-fatal: every one of them is recovered at the
// component boundary where it occurs and returned to the caller as a value.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for errors.Is comparisons.
var (
	// ErrEmptyData indicates an operation received no rows or no features.
	ErrEmptyData = errors.New("empty data")

	// ErrNotFitted indicates a model was used before training.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrDimensionMismatch indicates incompatible matrix/vector shapes.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrDataUnavailable indicates a source table is missing or a filtered
	// slice is empty. Always recoverable by retrying with different filters.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInsufficientData indicates too few rows remain for a viable
	// train/test split.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateData indicates a statistic could not be computed because
	// the data has no variance (e.g. R² on a constant test split).
	ErrDegenerateData = errors.New("degenerate data")
)

// NotFittedError is returned when a model method requiring training is called
// on an untrained model.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError for the given model and method.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("agroadvisor: %s.%s: model is not fitted, call Fit first", e.ModelName, e.Method)
}

// Is reports whether target is ErrNotFitted.
func (e *NotFittedError) Is(target error) bool {
	return target == ErrNotFitted
}

// DimensionError is returned when input shapes do not match expectations.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError for operation op on the given axis.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("agroadvisor: %s: dimension mismatch on axis %d: expected %d, got %d",
		e.Op, e.Axis, e.Expected, e.Got)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// ValueError is returned when an argument value is invalid for the operation.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError for operation op.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("agroadvisor: %s: %s", e.Op, e.Message)
}

// ModelError wraps a lower-level cause with model operation context.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError wrapping err with operation context.
func NewModelError(op, message string, err error) *ModelError {
	return &ModelError{Op: op, Message: message, Err: err}
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("agroadvisor: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("agroadvisor: %s: %s", e.Op, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *ModelError) Unwrap() error {
	return e.Err
}

// DataUnavailableError is returned when no records exist for a requested
// crop/state/season slice, or when a source table is missing. It carries the
// seasons that do have data for the crop/state so the caller can retry.
type DataUnavailableError struct {
	Crop             string
	State            string
	Season           string
	AvailableSeasons []string
}

// NewDataUnavailableError creates a DataUnavailableError for the given slice.
// availableSeasons may be empty but must not be dropped: an empty list is
// itself an answer.
func NewDataUnavailableError(crop, state, season string, availableSeasons []string) *DataUnavailableError {
	return &DataUnavailableError{
		Crop:             crop,
		State:            state,
		Season:           season,
		AvailableSeasons: availableSeasons,
	}
}

func (e *DataUnavailableError) Error() string {
	msg := fmt.Sprintf("agroadvisor: no data available for %s in %s", e.Crop, e.State)
	if e.Season != "" {
		msg += fmt.Sprintf(" during %s", e.Season)
	}
	return msg
}

// Is reports whether target is ErrDataUnavailable.
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// InsufficientDataError is returned when training cannot proceed because the
// usable dataset is smaller than the minimum viable split size.
type InsufficientDataError struct {
	Op       string
	Required int
	Got      int
}

// NewInsufficientDataError creates an InsufficientDataError for operation op.
func NewInsufficientDataError(op string, required, got int) *InsufficientDataError {
	return &InsufficientDataError{Op: op, Required: required, Got: got}
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("agroadvisor: %s: need at least %d rows to train, got %d", e.Op, e.Required, e.Got)
}

// Is reports whether target is ErrInsufficientData.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// Is reports whether any error in err's chain matches target. Re-exported so
// callers do not need a second errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap adds operation context to err, capturing a stack trace.
// Returns nil if err is nil.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, op)
}

// Recover converts a panic into an error assigned to *errp. Use as a deferred
// call at exported boundaries so that no panic crosses into callers:
//
//	func (p *Predictor) Predict(...) (err error) {
//		defer agroErrors.Recover(&err, "Predictor.Predict")
//		...
//	}
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			*errp = errors.Wrapf(err, "%s: recovered from panic", op)
			return
		}
		*errp = errors.Newf("%s: recovered from panic: %v", op, r)
	}
}
