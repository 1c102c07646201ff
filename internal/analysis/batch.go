// Package analysis implements the shutter-speed measurement core: brightness
// statistics, threshold selection, event-boundary detection over a recorded
// series, and sub-frame weighted duration estimation.
//
// The package consumes only plain brightness values and frame indices; video
// decoding, persistence and rendering are the caller's responsibility.
package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/lightbox-data/shutter.report/internal/monitoring"
)

// FindEvents scans a complete, ordered brightness series against the model's
// threshold and returns every maximal run of above-threshold frames. A frame
// is open iff its value is strictly greater than the threshold.
//
// A run still open at the final sample is emitted with Unterminated set
// rather than dropped: the recording may simply have stopped mid-event, and
// downstream review decides whether to keep it.
func FindEvents(values []float64, model ThresholdModel) []ShutterEvent {
	var events []ShutterEvent
	startFrame := -1
	var run []float64

	for i, v := range values {
		open := v > model.Threshold

		switch {
		case open && startFrame < 0:
			// Shutter just opened.
			startFrame = i
			run = []float64{v}
		case open:
			run = append(run, v)
		case startFrame >= 0:
			// Shutter just closed.
			events = append(events, ShutterEvent{
				StartFrame:         startFrame,
				EndFrame:           i - 1,
				BrightnessValues:   run,
				BaselineBrightness: model.Baseline,
				PeakBrightness:     model.Peak,
			})
			startFrame = -1
			run = nil
		}
	}

	if startFrame >= 0 {
		events = append(events, ShutterEvent{
			StartFrame:         startFrame,
			EndFrame:           len(values) - 1,
			BrightnessValues:   run,
			BaselineBrightness: model.Baseline,
			PeakBrightness:     model.Peak,
			Unterminated:       true,
		})
	}

	return events
}

// Result is the full outcome of one batch analysis pass.
type Result struct {
	Stats  BrightnessStats
	Model  ThresholdModel
	Events []ShutterEvent
}

// Analyze runs the complete batch pipeline over a recorded brightness
// series: distribution statistics, threshold selection with the named
// method, event detection, and plateau peak estimation. The expected event
// count in opts is required for the zscore and cluster methods only.
func Analyze(values []float64, method string, opts ThresholdOptions) (*Result, error) {
	model, err := ComputeThreshold(values, method, opts)
	if err != nil {
		return nil, err
	}

	events := FindEvents(values, model)

	peak := PlateauPeakBrightness(events, opts.plateauFraction(), opts.minPlateauFrames())
	model.Peak = peak
	for i := range events {
		events[i].PeakBrightness = peak
	}

	stats := BrightnessStats{
		Baseline:  model.Baseline,
		Threshold: model.Threshold,
		Peak:      peak,
	}
	if len(values) > 0 {
		stats.Min = Percentile(values, 0)
		stats.Max = Percentile(values, 100)
		stats.Mean = stat.Mean(values, nil)
		stats.Median = Median(values)
		stats.Percentiles = map[int]float64{
			10: Percentile(values, 10),
			25: Percentile(values, 25),
			75: Percentile(values, 75),
			90: Percentile(values, 90),
		}
	}

	monitoring.Logf("analysis: %d frames, %d events, baseline=%.2f threshold=%.2f",
		len(values), len(events), model.Baseline, model.Threshold)

	return &Result{Stats: stats, Model: model, Events: events}, nil
}
