package scenario_test

import (
	"math/rand/v2"

	"github.com/fasalmitra/agroadvisor/dataset"
)

// syntheticRecords builds a deterministic merged dataset with a learnable
// fertilizer-to-yield relationship: Wheat/Gujarat over Rabi and Kharif
// seasons plus a second crop/state pair, all with complete joins.
func syntheticRecords() []dataset.Record {
	rng := rand.New(rand.NewPCG(7, 7))

	var records []dataset.Record
	add := func(crop, state, season string, year int, fert, yield float64) {
		records = append(records, dataset.Record{
			Crop:   crop,
			State:  state,
			Season: season,
			Year:   year,

			Area:       1000 + rng.Float64()*100,
			Fertilizer: fert,
			Pesticide:  450 + rng.Float64()*100,
			Yield:      yield,

			AvgTempC:        24 + rng.Float64()*3,
			TotalRainfallMM: 900 + rng.Float64()*200,
			AvgHumidityPct:  65 + rng.Float64()*10,
			HasWeather:      true,

			N: 70 + rng.Float64()*10, P: 32 + rng.Float64()*6, K: 28 + rng.Float64()*6,
			PH:      6.2 + rng.Float64()*0.6,
			HasSoil: true,
		})
	}

	// Yield climbs with fertilizer so the forest has signal to learn.
	for year := 2000; year < 2020; year++ {
		fert := 20000 + float64(year-2000)*600
		add("Wheat", "Gujarat", "Rabi       ", year, fert, 20+fert/2500)
		add("Wheat", "Gujarat", "Kharif     ", year, fert*0.9, 15+fert/3000)
		add("Rice", "Punjab", "Kharif     ", year, fert*1.1, 30+fert/2000)
	}

	return records
}

func syntheticProvider() dataset.Provider {
	return dataset.NewMemoryProvider(syntheticRecords())
}
