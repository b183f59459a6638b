package preprocessing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/agroadvisor/preprocessing"
	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
)

func TestLabelEncoder_Fit(t *testing.T) {
	values := []string{"Wheat", "Rice", "Wheat", "Maize", "Rice"}

	encoder := preprocessing.NewLabelEncoder("crop")
	err := encoder.Fit(values)
	require.NoError(t, err)

	assert.True(t, encoder.IsFitted(), "encoder should be fitted after Fit()")

	// Classes are sorted unique values, ids follow sorted order
	assert.Equal(t, []string{"Maize", "Rice", "Wheat"}, encoder.Classes)
	assert.Equal(t, 3, encoder.NClasses())
}

func TestLabelEncoder_Fit_EmptyData(t *testing.T) {
	encoder := preprocessing.NewLabelEncoder("crop")
	err := encoder.Fit(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, agroErrors.ErrEmptyData))
}

func TestLabelEncoder_Transform(t *testing.T) {
	encoder := preprocessing.NewLabelEncoder("season")
	require.NoError(t, encoder.Fit([]string{"Kharif", "Rabi", "Summer"}))

	tests := []struct {
		value string
		want  int
	}{
		{"Kharif", 0},
		{"Rabi", 1},
		{"Summer", 2},
	}

	for _, tt := range tests {
		got, err := encoder.Transform(tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Transform(%q)", tt.value)
	}

	_, err := encoder.Transform("Zaid")
	assert.Error(t, err, "unknown category should fail strict Transform")
}

func TestLabelEncoder_TransformOrFallback(t *testing.T) {
	encoder := preprocessing.NewLabelEncoder("crop")
	require.NoError(t, encoder.Fit([]string{"Rice", "Wheat"}))

	id, fallback, err := encoder.TransformOrFallback("Wheat")
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, 1, id)

	// Unseen category maps to the deterministic fallback id, does not fail
	id, fallback, err = encoder.TransformOrFallback("Sugarcane")
	require.NoError(t, err)
	assert.True(t, fallback, "fallback branch must be reported")
	assert.Equal(t, preprocessing.FallbackID, id)
}

func TestLabelEncoder_NotFitted(t *testing.T) {
	encoder := preprocessing.NewLabelEncoder("state")

	_, err := encoder.Transform("Gujarat")
	assert.True(t, errors.Is(err, agroErrors.ErrNotFitted))

	_, _, err = encoder.TransformOrFallback("Gujarat")
	assert.True(t, errors.Is(err, agroErrors.ErrNotFitted))
}

func TestLabelEncoder_InverseTransform(t *testing.T) {
	encoder := preprocessing.NewLabelEncoder("crop")
	require.NoError(t, encoder.Fit([]string{"Wheat", "Rice"}))

	name, err := encoder.InverseTransform(1)
	require.NoError(t, err)
	assert.Equal(t, "Wheat", name)

	_, err = encoder.InverseTransform(5)
	assert.Error(t, err)
}
