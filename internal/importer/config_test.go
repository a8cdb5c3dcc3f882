package importer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultClassifierConfig_Valid(t *testing.T) {
	if err := DefaultClassifierConfig().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestClassifierConfig_Validate(t *testing.T) {
	cfg := DefaultClassifierConfig()
	cfg.MediumSqFtMax = cfg.MediumSqFtMin - 1
	if err := cfg.Validate(); err == nil {
		t.Error("inverted medium band accepted")
	}

	cfg = DefaultClassifierConfig()
	cfg.CommercialSqFtMin = cfg.MediumSqFtMax
	if err := cfg.Validate(); err == nil {
		t.Error("commercial threshold inside medium band accepted")
	}

	cfg = DefaultClassifierConfig()
	cfg.SmallSqFtMax = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero small threshold accepted")
	}
}

func TestLoadClassifierConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.yaml")
	yaml := `small_sqft_max: 800
medium_sqft_min: 900
medium_sqft_max: 2200
commercial_sqft_min: 12000
near_zero_lot_sqft: 400
sfr_bedrooms_min: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadClassifierConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SmallSqFtMax != 800 || cfg.CommercialSqFtMin != 12000 || cfg.SFRBedroomsMin != 5 {
		t.Errorf("loaded config = %+v", cfg)
	}
}

func TestLoadClassifierConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadClassifierConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != DefaultClassifierConfig() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadClassifierConfig_InvalidRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.yaml")
	if err := os.WriteFile(path, []byte("small_sqft_max: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadClassifierConfig(path); err == nil {
		t.Error("negative threshold accepted")
	}
}
