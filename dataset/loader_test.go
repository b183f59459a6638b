package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/agroadvisor/dataset"
	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
)

const cropCSV = `crop,state,season,year,area,fertilizer,pesticide,yield
Wheat,Gujarat,Rabi   ,1998,1000,25000,500,30.5
Wheat,Gujarat,Rabi   ,1999,1100,26000,520,32.0
Rice,Gujarat,Kharif  ,1998,900,22000,450,25.0
Wheat,Punjab,Rabi   ,1998,1500,30000,600,40.0
Wheat,Orphanstate,Rabi   ,1998,800,20000,400,20.0
`

const weatherCSV = `state,year,avg_temp_c,total_rainfall_mm,avg_humidity_percent
Gujarat,1998,26.5,850,65
Gujarat,1999,25.8,900,68
Punjab,1998,22.0,600,55
`

const soilCSV = `state,n,p,k,ph
Gujarat,75,35,30,6.8
Punjab,80,40,35,7.1
`

func writeTestData(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	cropPath := filepath.Join(dir, "crop_yield.csv")
	weatherPath := filepath.Join(dir, "state_weather.csv")
	soilPath := filepath.Join(dir, "state_soil.csv")
	require.NoError(t, os.WriteFile(cropPath, []byte(cropCSV), 0o644))
	require.NoError(t, os.WriteFile(weatherPath, []byte(weatherCSV), 0o644))
	require.NoError(t, os.WriteFile(soilPath, []byte(soilCSV), 0o644))
	return cropPath, weatherPath, soilPath
}

func TestLoader_MissingFile(t *testing.T) {
	cropPath, weatherPath, _ := writeTestData(t)

	loader := dataset.NewLoader(cropPath, weatherPath, filepath.Join(t.TempDir(), "nope.csv"))
	err := loader.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, agroErrors.ErrDataUnavailable))
}

func TestLoader_MergeLeftJoin(t *testing.T) {
	loader := dataset.NewLoader(writeTestData(t))

	merged, err := loader.Merge()
	require.NoError(t, err)
	require.Len(t, merged, 5)

	// Gujarat 1998 row picks up its weather and soil
	first := merged[0]
	assert.Equal(t, "Wheat", first.Crop)
	assert.True(t, first.Complete())
	assert.Equal(t, 26.5, first.AvgTempC)
	assert.Equal(t, 6.8, first.PH)

	// Orphanstate has no weather or soil row: flagged, not dropped
	last := merged[4]
	assert.Equal(t, "Orphanstate", last.State)
	assert.False(t, last.Complete())
	assert.Equal(t, 1, loader.IncompleteRows())
}

func TestLoader_Filter(t *testing.T) {
	loader := dataset.NewLoader(writeTestData(t))

	// Season match must trim whitespace on both sides
	recs, err := loader.Filter(dataset.Query{Crop: "Wheat", State: "Gujarat", Season: "Rabi"})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = loader.Filter(dataset.Query{Crop: "Wheat", State: "Gujarat", Season: " Rabi "})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	// Year range
	recs, err = loader.Filter(dataset.Query{Crop: "Wheat", State: "Gujarat", YearFrom: 1999, YearTo: 2000})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 1999, recs[0].Year)

	// Exact year
	recs, err = loader.Filter(dataset.Query{State: "Punjab", Year: 1998})
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	// No matches is an empty result, not an error
	recs, err = loader.Filter(dataset.Query{Crop: "Sugarcane"})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLoader_ListAccessors(t *testing.T) {
	loader := dataset.NewLoader(writeTestData(t))

	crops, err := loader.Crops()
	require.NoError(t, err)
	assert.Equal(t, []string{"Rice", "Wheat"}, crops)

	states, err := loader.States()
	require.NoError(t, err)
	assert.Equal(t, []string{"Gujarat", "Orphanstate", "Punjab"}, states)

	seasons, err := loader.Seasons()
	require.NoError(t, err)
	assert.Equal(t, []string{"Kharif", "Rabi"}, seasons, "seasons must be trimmed")
}

func TestLoader_Summary(t *testing.T) {
	loader := dataset.NewLoader(writeTestData(t))

	sum, err := loader.Summary()
	require.NoError(t, err)
	assert.Equal(t, 5, sum.TotalRecords)
	assert.Equal(t, 2, sum.Crops)
	assert.Equal(t, "1998-1999", sum.YearSpan)
	assert.InDelta(t, (30.5+32.0+25.0+40.0+20.0)/5, sum.AvgYield, 1e-9)
}

func TestMemoryProvider(t *testing.T) {
	records := []dataset.Record{
		{Crop: "Wheat", State: "Gujarat", Season: "Rabi ", Year: 2000, Yield: 30},
		{Crop: "Rice", State: "Gujarat", Season: "Kharif", Year: 2000, Yield: 20},
	}
	p := dataset.NewMemoryProvider(records)

	recs, err := p.Filter(dataset.Query{Season: "Rabi"})
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	seasons, err := p.Seasons()
	require.NoError(t, err)
	assert.Equal(t, []string{"Kharif", "Rabi"}, seasons)
}
