package analysis

// ShutterEvent is a maximal run of consecutive above-threshold frames: one
// opening and closing of the shutter. Events are immutable after creation;
// review or correction happens in the caller, never here.
type ShutterEvent struct {
	StartFrame       int       `json:"start_frame"`
	EndFrame         int       `json:"end_frame"`
	BrightnessValues []float64 `json:"brightness_values"`
	// BaselineBrightness is the closed-shutter level the event was detected
	// against; it anchors the weighted-duration interpolation.
	BaselineBrightness float64 `json:"baseline_brightness"`
	PeakBrightness     float64 `json:"peak_brightness,omitempty"`
	// Unterminated marks an event still open when the series ended. The
	// event is reported with the samples collected so far; downstream
	// review decides whether to keep it.
	Unterminated bool `json:"unterminated,omitempty"`
	// StartTimestampNanos is set in live mode from the triggering frame's
	// timestamp; zero in batch mode.
	StartTimestampNanos int64 `json:"start_timestamp_nanos,omitempty"`
}

// DurationFrames is the whole-frame event length, endpoints inclusive.
func (e *ShutterEvent) DurationFrames() int {
	return e.EndFrame - e.StartFrame + 1
}

// WeightedDurationFrames is the sub-frame-accurate event length. Binary
// classification of a 2.7-frame event rounds to 2 or 3 frames; instead each
// frame contributes by how "open" it is, interpolated between the baseline
// and the event's own median brightness. The median is the plateau level:
// plateau frames can legitimately vary (80 and 100 in the same event are
// both fully open), so any frame at or above the median clamps to 1.0 and
// only transition frames contribute fractionally.
func (e *ShutterEvent) WeightedDurationFrames() float64 {
	if len(e.BrightnessValues) == 0 {
		return float64(e.DurationFrames())
	}

	eventPeak := Median(e.BrightnessValues)
	if eventPeak <= e.BaselineBrightness {
		// Degenerate event with no usable brightness range.
		return float64(e.DurationFrames())
	}

	brightnessRange := eventPeak - e.BaselineBrightness
	total := 0.0
	for _, b := range e.BrightnessValues {
		w := (b - e.BaselineBrightness) / brightnessRange
		if w < 0 {
			w = 0
		}
		if w > 1 {
			w = 1
		}
		total += w
	}
	return total
}

// MaxBrightness returns the brightest sample in the event, or 0 if the
// event carries no samples.
func (e *ShutterEvent) MaxBrightness() float64 {
	max := 0.0
	for i, b := range e.BrightnessValues {
		if i == 0 || b > max {
			max = b
		}
	}
	return max
}

// AvgBrightness returns the mean brightness across the event, or 0 if the
// event carries no samples.
func (e *ShutterEvent) AvgBrightness() float64 {
	if len(e.BrightnessValues) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range e.BrightnessValues {
		sum += b
	}
	return sum / float64(len(e.BrightnessValues))
}
