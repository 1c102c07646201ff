package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig represents the root configuration for detection tuning
// parameters. All fields are optional; fields omitted from the JSON file
// fall back to the defaults returned by the Get* methods, so partial
// configs are safe.
type TuningConfig struct {
	// Threshold params
	BaselinePercentile *float64 `json:"baseline_percentile,omitempty"`
	MarginFactor       *float64 `json:"margin_factor,omitempty"`

	// Live calibration params
	BaselineWindowFrames    *int     `json:"baseline_window_frames,omitempty"`
	CalibrationPeakFraction *float64 `json:"calibration_peak_fraction,omitempty"`

	// Plateau peak params
	PlateauFraction  *float64 `json:"plateau_fraction,omitempty"`
	MinPlateauFrames *int     `json:"min_plateau_frames,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from a file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file is
// validated to ensure it has a .json extension and is under the max file
// size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.BaselinePercentile != nil {
		if *c.BaselinePercentile <= 0 || *c.BaselinePercentile >= 100 {
			return fmt.Errorf("baseline_percentile must be between 0 and 100 exclusive, got %f", *c.BaselinePercentile)
		}
	}

	if c.MarginFactor != nil && *c.MarginFactor <= 0 {
		return fmt.Errorf("margin_factor must be positive, got %f", *c.MarginFactor)
	}

	if c.BaselineWindowFrames != nil && *c.BaselineWindowFrames <= 0 {
		return fmt.Errorf("baseline_window_frames must be positive, got %d", *c.BaselineWindowFrames)
	}

	if c.CalibrationPeakFraction != nil {
		if *c.CalibrationPeakFraction <= 0 || *c.CalibrationPeakFraction > 1 {
			return fmt.Errorf("calibration_peak_fraction must be in (0, 1], got %f", *c.CalibrationPeakFraction)
		}
	}

	if c.PlateauFraction != nil {
		if *c.PlateauFraction <= 0 || *c.PlateauFraction > 1 {
			return fmt.Errorf("plateau_fraction must be in (0, 1], got %f", *c.PlateauFraction)
		}
	}

	if c.MinPlateauFrames != nil && *c.MinPlateauFrames <= 0 {
		return fmt.Errorf("min_plateau_frames must be positive, got %d", *c.MinPlateauFrames)
	}

	return nil
}

// GetBaselinePercentile returns the baseline_percentile value or the default.
func (c *TuningConfig) GetBaselinePercentile() float64 {
	if c.BaselinePercentile == nil {
		return 25.0
	}
	return *c.BaselinePercentile
}

// GetMarginFactor returns the margin_factor value or the default.
func (c *TuningConfig) GetMarginFactor() float64 {
	if c.MarginFactor == nil {
		return 1.5
	}
	return *c.MarginFactor
}

// GetBaselineWindowFrames returns the baseline_window_frames value or the default.
func (c *TuningConfig) GetBaselineWindowFrames() int {
	if c.BaselineWindowFrames == nil {
		return 60
	}
	return *c.BaselineWindowFrames
}

// GetCalibrationPeakFraction returns the calibration_peak_fraction value or the default.
func (c *TuningConfig) GetCalibrationPeakFraction() float64 {
	if c.CalibrationPeakFraction == nil {
		return 0.8
	}
	return *c.CalibrationPeakFraction
}

// GetPlateauFraction returns the plateau_fraction value or the default.
func (c *TuningConfig) GetPlateauFraction() float64 {
	if c.PlateauFraction == nil {
		return 0.90
	}
	return *c.PlateauFraction
}

// GetMinPlateauFrames returns the min_plateau_frames value or the default.
func (c *TuningConfig) GetMinPlateauFrames() int {
	if c.MinPlateauFrames == nil {
		return 10
	}
	return *c.MinPlateauFrames
}
