// Package config loads the advisory service configuration from file,
// environment and defaults, in that order of increasing precedence for the
// environment. Backed by spf13/viper; environment variables use the
// AGROADVISOR_ prefix with underscores for nesting, e.g.
// AGROADVISOR_ECONOMICS_PRICE_PER_QUINTAL.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
)

// Config is the full service configuration.
type Config struct {
	Dataset   Dataset   `mapstructure:"dataset" yaml:"dataset"`
	Model     Model     `mapstructure:"model" yaml:"model"`
	Economics Economics `mapstructure:"economics" yaml:"economics"`
	Log       Log       `mapstructure:"log" yaml:"log"`
}

// Dataset holds the paths of the three source tables.
type Dataset struct {
	CropPath    string `mapstructure:"crop_path" yaml:"crop_path"`
	WeatherPath string `mapstructure:"weather_path" yaml:"weather_path"`
	SoilPath    string `mapstructure:"soil_path" yaml:"soil_path"`
}

// Model holds the yield model hyperparameters.
type Model struct {
	NEstimators     int   `mapstructure:"n_estimators" yaml:"n_estimators"`
	MaxDepth        int   `mapstructure:"max_depth" yaml:"max_depth"`
	MinSamplesSplit int   `mapstructure:"min_samples_split" yaml:"min_samples_split"`
	RandomState     int64 `mapstructure:"random_state" yaml:"random_state"`
}

// Economics holds the constants of the simplified profit model. Prices are
// plain numbers in a single implied currency.
type Economics struct {
	PricePerQuintal     float64 `mapstructure:"price_per_quintal" yaml:"price_per_quintal"`
	FertilizerCostPerKg float64 `mapstructure:"fertilizer_cost_per_kg" yaml:"fertilizer_cost_per_kg"`
	PesticideCostPerKg  float64 `mapstructure:"pesticide_cost_per_kg" yaml:"pesticide_cost_per_kg"`
	OverheadPerHectare  float64 `mapstructure:"overhead_per_hectare" yaml:"overhead_per_hectare"`
}

// Log holds logging settings.
type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// DefaultEconomics returns the published profit-model constants.
func DefaultEconomics() Economics {
	return Economics{
		PricePerQuintal:     2000,
		FertilizerCostPerKg: 0.02,
		PesticideCostPerKg:  0.5,
		OverheadPerHectare:  5000,
	}
}

// Default returns a Config with every field at its default value.
func Default() *Config {
	return &Config{
		Dataset: Dataset{
			CropPath:    "data/crop_yield.csv",
			WeatherPath: "data/weather.csv",
			SoilPath:    "data/soil.csv",
		},
		Model: Model{
			NEstimators:     100,
			MaxDepth:        15,
			MinSamplesSplit: 5,
			RandomState:     42,
		},
		Economics: DefaultEconomics(),
		Log:       Log{Level: "info"},
	}
}

// Load reads configuration from the given file (optional), the environment
// and the defaults. An empty path skips the file layer.
func Load(path string) (_ *Config, err error) {
	defer agroErrors.Recover(&err, "config.Load")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AGROADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, agroErrors.Wrap(err, "config.Load")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, agroErrors.Wrap(err, "config.Load")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("dataset.crop_path", def.Dataset.CropPath)
	v.SetDefault("dataset.weather_path", def.Dataset.WeatherPath)
	v.SetDefault("dataset.soil_path", def.Dataset.SoilPath)

	v.SetDefault("model.n_estimators", def.Model.NEstimators)
	v.SetDefault("model.max_depth", def.Model.MaxDepth)
	v.SetDefault("model.min_samples_split", def.Model.MinSamplesSplit)
	v.SetDefault("model.random_state", def.Model.RandomState)

	v.SetDefault("economics.price_per_quintal", def.Economics.PricePerQuintal)
	v.SetDefault("economics.fertilizer_cost_per_kg", def.Economics.FertilizerCostPerKg)
	v.SetDefault("economics.pesticide_cost_per_kg", def.Economics.PesticideCostPerKg)
	v.SetDefault("economics.overhead_per_hectare", def.Economics.OverheadPerHectare)

	v.SetDefault("log.level", def.Log.Level)
}

// Save writes cfg to path as YAML, creating or truncating the file.
func (c *Config) Save(path string) (err error) {
	defer agroErrors.Recover(&err, "Config.Save")

	data, err := yaml.Marshal(c)
	if err != nil {
		return agroErrors.Wrap(err, "Config.Save")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return agroErrors.Wrap(err, "Config.Save")
	}
	return nil
}
