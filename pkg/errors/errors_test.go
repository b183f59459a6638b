package errors_test

import (
	"errors"
	"fmt"
	"testing"

	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
)

// TestErrorWrappingCompatibility tests Go 1.13+ error wrapping with our custom types
func TestErrorWrappingCompatibility(t *testing.T) {
	originalErr := agroErrors.NewNotFittedError("YieldModel", "Predict")

	wrappedErr := fmt.Errorf("scenario prediction failed: %w", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Errorf("errors.Is failed to identify wrapped error")
	}

	var notFittedErr *agroErrors.NotFittedError
	if !errors.As(wrappedErr, &notFittedErr) {
		t.Errorf("errors.As failed to extract NotFittedError")
	}

	if notFittedErr.ModelName != "YieldModel" {
		t.Errorf("expected ModelName 'YieldModel', got '%s'", notFittedErr.ModelName)
	}

	if !errors.Is(wrappedErr, agroErrors.ErrNotFitted) {
		t.Errorf("errors.Is failed to match ErrNotFitted sentinel through wrapper")
	}
}

// TestSentinelErrors tests sentinel error patterns
func TestSentinelErrors(t *testing.T) {
	err := agroErrors.NewModelError("Trainer.Train", "empty data", agroErrors.ErrEmptyData)

	if !errors.Is(err, agroErrors.ErrEmptyData) {
		t.Errorf("failed to identify ErrEmptyData sentinel")
	}

	wrappedErr := fmt.Errorf("training failed: %w", err)

	if !errors.Is(wrappedErr, agroErrors.ErrEmptyData) {
		t.Errorf("failed to identify ErrEmptyData through wrapper")
	}
}

// TestCombinedErrorTypes tests mixing custom and standard errors
func TestCombinedErrorTypes(t *testing.T) {
	stdErr := fmt.Errorf("csv read failed")

	customErr := agroErrors.NewModelError("Loader.Load", "load failure", stdErr)

	wrappedErr := fmt.Errorf("dataset unavailable: %w", customErr)

	if !errors.Is(wrappedErr, stdErr) {
		t.Errorf("failed to find standard error in chain")
	}

	var modelErr *agroErrors.ModelError
	if !errors.As(wrappedErr, &modelErr) {
		t.Errorf("failed to extract ModelError")
	}

	if modelErr.Unwrap() != stdErr {
		t.Errorf("ModelError.Unwrap() didn't return expected error")
	}
}

func TestDataUnavailableError(t *testing.T) {
	err := agroErrors.NewDataUnavailableError("Wheat", "Gujarat", "Kharif", []string{"Rabi"})

	if !errors.Is(err, agroErrors.ErrDataUnavailable) {
		t.Errorf("failed to match ErrDataUnavailable sentinel")
	}

	var dataErr *agroErrors.DataUnavailableError
	if !errors.As(fmt.Errorf("benchmarks failed: %w", err), &dataErr) {
		t.Fatalf("failed to extract DataUnavailableError")
	}

	if len(dataErr.AvailableSeasons) != 1 || dataErr.AvailableSeasons[0] != "Rabi" {
		t.Errorf("expected available seasons [Rabi], got %v", dataErr.AvailableSeasons)
	}
}

func TestInsufficientDataError(t *testing.T) {
	err := agroErrors.NewInsufficientDataError("Trainer.Train", 10, 4)

	if !errors.Is(err, agroErrors.ErrInsufficientData) {
		t.Errorf("failed to match ErrInsufficientData sentinel")
	}

	var insuffErr *agroErrors.InsufficientDataError
	if !errors.As(err, &insuffErr) {
		t.Fatalf("failed to extract InsufficientDataError")
	}
	if insuffErr.Required != 10 || insuffErr.Got != 4 {
		t.Errorf("unexpected fields: required=%d got=%d", insuffErr.Required, insuffErr.Got)
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer agroErrors.Recover(&err, "test.fn")
		panic("boom")
	}

	err := fn()
	if err == nil {
		t.Fatalf("expected error from recovered panic")
	}
}
