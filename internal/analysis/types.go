package analysis

// Sample is one per-frame brightness observation. Brightness is nominally
// 0-255 (mean pixel value) but is not clamped; FrameIndex and TimestampNanos
// come from the producer and are never modified here.
type Sample struct {
	Brightness     float64
	FrameIndex     int
	TimestampNanos int64
}

// ThresholdModel is the output of one calibration cycle: the closed-shutter
// baseline and the open/closed decision threshold. Peak and StdDev are
// informational and may be zero when the method does not compute them.
//
// Invariant: Threshold > Baseline after the fallback policy in
// ComputeThreshold has been applied.
type ThresholdModel struct {
	Baseline  float64 `json:"baseline"`
	Threshold float64 `json:"threshold"`
	Peak      float64 `json:"peak,omitempty"`
	StdDev    float64 `json:"std_dev,omitempty"`
}

// BrightnessStats summarises the brightness distribution of a full series.
// Computed once per batch analysis and attached to the report output.
type BrightnessStats struct {
	Min         float64         `json:"min"`
	Max         float64         `json:"max"`
	Mean        float64         `json:"mean"`
	Median      float64         `json:"median"`
	Percentiles map[int]float64 `json:"percentiles"`
	Baseline    float64         `json:"baseline"`
	Threshold   float64         `json:"threshold"`
	Peak        float64         `json:"peak,omitempty"`
}
