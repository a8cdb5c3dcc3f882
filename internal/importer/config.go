package importer

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// ClassifierConfig holds the square-footage and lot-size bands the type
// heuristics use. The defaults were tuned against Alameda County exports and
// are not derived from any principled model, so they live in config rather
// than code.
type ClassifierConfig struct {
	// Floor area below which a record reads as an attached unit.
	SmallSqFtMax int64 `yaml:"small_sqft_max"`
	// Band treated as ambiguous; lot size breaks the tie.
	MediumSqFtMin int64 `yaml:"medium_sqft_min"`
	MediumSqFtMax int64 `yaml:"medium_sqft_max"`
	// Floor area above which a record reads as commercial.
	CommercialSqFtMin int64 `yaml:"commercial_sqft_min"`
	// Lot sizes at or below this count as "no meaningful lot".
	NearZeroLotSqFt float64 `yaml:"near_zero_lot_sqft"`
	// Bedroom count at or above which a record reads as a detached home.
	SFRBedroomsMin int64 `yaml:"sfr_bedrooms_min"`
}

// DefaultClassifierConfig returns the stock thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		SmallSqFtMax:      900,
		MediumSqFtMin:     1000,
		MediumSqFtMax:     2500,
		CommercialSqFtMin: 10000,
		NearZeroLotSqFt:   500,
		SFRBedroomsMin:    4,
	}
}

// Validate validates the classifier configuration.
func (c ClassifierConfig) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.SmallSqFtMax, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.MediumSqFtMin, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.MediumSqFtMax, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.CommercialSqFtMin, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.NearZeroLotSqFt, validation.Min(float64(0))),
		validation.Field(&c.SFRBedroomsMin, validation.Required, validation.Min(int64(1))),
	); err != nil {
		return err
	}
	if c.MediumSqFtMin < c.SmallSqFtMax {
		return fmt.Errorf("medium_sqft_min (%d) must be >= small_sqft_max (%d)", c.MediumSqFtMin, c.SmallSqFtMax)
	}
	if c.MediumSqFtMax <= c.MediumSqFtMin {
		return fmt.Errorf("medium_sqft_max (%d) must be > medium_sqft_min (%d)", c.MediumSqFtMax, c.MediumSqFtMin)
	}
	if c.CommercialSqFtMin <= c.MediumSqFtMax {
		return fmt.Errorf("commercial_sqft_min (%d) must be > medium_sqft_max (%d)", c.CommercialSqFtMin, c.MediumSqFtMax)
	}
	return nil
}

// LoadClassifierConfig reads thresholds from a YAML file, with environment
// variable expansion. A missing path returns the defaults.
func LoadClassifierConfig(path string) (ClassifierConfig, error) {
	cfg := DefaultClassifierConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read classifier config %s: %w", path, err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse classifier config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("classifier config validation failed: %w", err)
	}

	return cfg, nil
}
