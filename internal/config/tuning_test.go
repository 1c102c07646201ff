package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmptyTuningConfigDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if cfg.GetBaselinePercentile() != 25.0 {
		t.Errorf("GetBaselinePercentile() = %f, want 25.0", cfg.GetBaselinePercentile())
	}
	if cfg.GetMarginFactor() != 1.5 {
		t.Errorf("GetMarginFactor() = %f, want 1.5", cfg.GetMarginFactor())
	}
	if cfg.GetBaselineWindowFrames() != 60 {
		t.Errorf("GetBaselineWindowFrames() = %d, want 60", cfg.GetBaselineWindowFrames())
	}
	if cfg.GetCalibrationPeakFraction() != 0.8 {
		t.Errorf("GetCalibrationPeakFraction() = %f, want 0.8", cfg.GetCalibrationPeakFraction())
	}
	if cfg.GetPlateauFraction() != 0.90 {
		t.Errorf("GetPlateauFraction() = %f, want 0.90", cfg.GetPlateauFraction())
	}
	if cfg.GetMinPlateauFrames() != 10 {
		t.Errorf("GetMinPlateauFrames() = %d, want 10", cfg.GetMinPlateauFrames())
	}
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "baseline_percentile": 10,
  "margin_factor": 2.0,
  "baseline_window_frames": 120,
  "calibration_peak_fraction": 0.7
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetBaselinePercentile() != 10 {
		t.Errorf("GetBaselinePercentile() = %f, want 10", cfg.GetBaselinePercentile())
	}
	if cfg.GetMarginFactor() != 2.0 {
		t.Errorf("GetMarginFactor() = %f, want 2.0", cfg.GetMarginFactor())
	}
	if cfg.GetBaselineWindowFrames() != 120 {
		t.Errorf("GetBaselineWindowFrames() = %d, want 120", cfg.GetBaselineWindowFrames())
	}
	if cfg.GetCalibrationPeakFraction() != 0.7 {
		t.Errorf("GetCalibrationPeakFraction() = %f, want 0.7", cfg.GetCalibrationPeakFraction())
	}

	// Omitted fields keep their defaults
	if cfg.GetPlateauFraction() != 0.90 {
		t.Errorf("GetPlateauFraction() = %f, want default 0.90", cfg.GetPlateauFraction())
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadTuningConfig("tuning.yaml")
	if err == nil {
		t.Fatal("expected error for non-JSON extension")
	}
	if !strings.Contains(err.Error(), ".json") {
		t.Errorf("error should mention .json extension, got: %v", err)
	}
}

func TestLoadTuningConfigMissingFile(t *testing.T) {
	_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	bad := func(mutate func(c *TuningConfig)) *TuningConfig {
		c := EmptyTuningConfig()
		mutate(c)
		return c
	}

	f := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }

	cases := []struct {
		name string
		cfg  *TuningConfig
	}{
		{"percentile too high", bad(func(c *TuningConfig) { c.BaselinePercentile = f(100) })},
		{"percentile zero", bad(func(c *TuningConfig) { c.BaselinePercentile = f(0) })},
		{"negative margin", bad(func(c *TuningConfig) { c.MarginFactor = f(-1) })},
		{"zero window", bad(func(c *TuningConfig) { c.BaselineWindowFrames = i(0) })},
		{"peak fraction > 1", bad(func(c *TuningConfig) { c.CalibrationPeakFraction = f(1.5) })},
		{"plateau fraction zero", bad(func(c *TuningConfig) { c.PlateauFraction = f(0) })},
		{"zero plateau frames", bad(func(c *TuningConfig) { c.MinPlateauFrames = i(0) })},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := EmptyTuningConfig().Validate(); err != nil {
		t.Errorf("empty config should validate, got: %v", err)
	}
}
