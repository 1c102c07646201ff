// Package live implements frame-at-a-time shutter event detection for a
// camera feed: a two-phase calibration state machine that bootstraps a
// baseline and threshold without seeing the whole series, followed by
// incremental event-boundary detection once armed.
//
// All state transitions are defined for strictly sequential, single-writer
// frame delivery: one producer calls ProcessFrame. Observers on other
// goroutines read published state through Snapshot, never the detector's
// fields.
package live

import (
	"github.com/google/uuid"

	"github.com/lightbox-data/shutter.report/internal/analysis"
	"github.com/lightbox-data/shutter.report/internal/config"
	"github.com/lightbox-data/shutter.report/internal/monitoring"
)

// prelimStdDevMultiplier scales the baseline stddev when deriving the
// preliminary (pre-calibration) threshold floor.
const prelimStdDevMultiplier = 5.0

// prelimMaxSeenMultiplier scales the maximum brightness seen during baseline
// collection; doubling it rejects shadows and flicker that never approached
// a real shutter event.
const prelimMaxSeenMultiplier = 2.0

// Detector is the live-mode shutter detector for one recording session.
// Each session owns one Detector instance; there is no global state.
type Detector struct {
	sessionID string
	cfg       *config.TuningConfig

	state      State
	frameIndex int

	// Baseline collection
	baselineSamples     []float64
	firstFrameTimestamp int64

	// Calibration outputs
	baseline        float64
	stddev          float64
	maxSeen         float64
	prelimThreshold float64
	calibPeak       float64
	model           analysis.ThresholdModel

	// Armed-phase event detection
	inEvent          bool
	eventStart       int
	eventStartNanos  int64
	eventBrightness  []float64
	events           []analysis.ShutterEvent

	snapshot snapshotHolder
}

// NewDetector creates a detector in the Idle state. cfg may be nil, in
// which case all tuning parameters use their defaults.
func NewDetector(cfg *config.TuningConfig) *Detector {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	d := &Detector{
		sessionID: uuid.NewString(),
		cfg:       cfg,
		state:     StateIdle,
	}
	d.publishSnapshot()
	return d
}

// SessionID identifies this recording session in logs and observer output.
func (d *Detector) SessionID() string {
	return d.sessionID
}

// State returns the current calibration state. Only meaningful on the
// frame-producer goroutine; observers should use Snapshot.
func (d *Detector) State() State {
	return d.state
}

// Start begins a calibration session: Idle -> CollectingBaseline. Starting
// from any other state is a no-op; use Reset to restart a session.
func (d *Detector) Start() {
	if d.state != StateIdle {
		return
	}
	d.state = StateCollectingBaseline
	d.baselineSamples = make([]float64, 0, d.cfg.GetBaselineWindowFrames())
	monitoring.Logf("live[%s]: collecting baseline (%d frames)", d.sessionID, d.cfg.GetBaselineWindowFrames())
	d.publishSnapshot()
}

// Reset aborts the session and returns to Idle, clearing all buffered
// calibration samples, the threshold and the detected-event list. This is
// the only abort mechanism; there is no partial rollback.
func (d *Detector) Reset() {
	d.state = StateIdle
	d.frameIndex = 0
	d.baselineSamples = nil
	d.firstFrameTimestamp = 0
	d.baseline = 0
	d.stddev = 0
	d.maxSeen = 0
	d.prelimThreshold = 0
	d.calibPeak = 0
	d.model = analysis.ThresholdModel{}
	d.inEvent = false
	d.eventBrightness = nil
	d.events = nil
	monitoring.Logf("live[%s]: reset", d.sessionID)
	d.publishSnapshot()
}

// ResetEvents clears only the detected-event bookkeeping, preserving the
// Armed threshold and the session time reference so one calibration can be
// re-used across recordings. Distinct from Reset: clearing calibration
// mid-session would invalidate the frame-index math downstream.
func (d *Detector) ResetEvents() {
	d.events = nil
	d.inEvent = false
	d.eventBrightness = nil
	monitoring.Logf("live[%s]: events cleared, threshold retained", d.sessionID)
	d.publishSnapshot()
}

// Events returns the events detected since arming (or the last ResetEvents),
// in detection order. The returned slice must not be mutated.
func (d *Detector) Events() []analysis.ShutterEvent {
	return d.events
}

// Model returns the threshold model once Armed; the zero model before that.
func (d *Detector) Model() analysis.ThresholdModel {
	return d.model
}

// ProcessFrame feeds one frame's brightness into the state machine and
// returns what, if anything, it produced. Classification is O(1); nothing
// here blocks, so a 240fps producer never sees backpressure.
//
// Frames arriving in the Idle state are ignored.
func (d *Detector) ProcessFrame(brightness float64, timestampNanos int64) Result {
	if d.state == StateIdle {
		return nil
	}

	if d.firstFrameTimestamp == 0 {
		d.firstFrameTimestamp = timestampNanos
	}
	frame := d.frameIndex
	d.frameIndex++

	var res Result
	switch d.state {
	case StateCollectingBaseline:
		res = d.collectBaseline(brightness)
	case StateAwaitingCalibrationShutter:
		if brightness > d.prelimThreshold {
			d.state = StateCapturingCalibrationEvent
			d.calibPeak = brightness
			monitoring.Logf("live[%s]: calibration shutter seen at frame %d (%.2f > %.2f)",
				d.sessionID, frame, brightness, d.prelimThreshold)
		}
	case StateCapturingCalibrationEvent:
		res = d.captureCalibration(brightness)
	case StateArmed:
		res = d.detect(brightness, frame, timestampNanos)
	}

	d.publishSnapshot()
	return res
}

// collectBaseline accumulates the dark-frame window, then derives the
// preliminary threshold as the most conservative (highest) of three floors:
// a stddev band, an absolute margin, and a multiple of the brightest frame
// seen. A real event has not been observed yet, so the floor must reject
// noise and shadows outright.
func (d *Detector) collectBaseline(brightness float64) Result {
	d.baselineSamples = append(d.baselineSamples, brightness)
	window := d.cfg.GetBaselineWindowFrames()

	if len(d.baselineSamples) < window {
		return BaselineProgress{Fraction: float64(len(d.baselineSamples)) / float64(window)}
	}

	d.baseline = analysis.Percentile(d.baselineSamples, d.cfg.GetBaselinePercentile())
	d.stddev = analysis.PopStdDev(d.baselineSamples)
	d.maxSeen = analysis.Percentile(d.baselineSamples, 100)

	d.prelimThreshold = d.baseline + prelimStdDevMultiplier*d.stddev
	if floor := d.baseline + analysis.AbsoluteThresholdFloor; floor > d.prelimThreshold {
		d.prelimThreshold = floor
	}
	if floor := d.maxSeen * prelimMaxSeenMultiplier; floor > d.prelimThreshold {
		d.prelimThreshold = floor
	}

	// The window buffer is no longer needed once the floors are derived.
	d.baselineSamples = nil
	d.state = StateAwaitingCalibrationShutter
	monitoring.Logf("live[%s]: baseline=%.2f stddev=%.2f max=%.2f prelim=%.2f, fire calibration shutter",
		d.sessionID, d.baseline, d.stddev, d.maxSeen, d.prelimThreshold)

	return BaselineProgress{Fraction: 1.0}
}

// captureCalibration tracks the throw-away calibration excursion. When the
// brightness falls back below the preliminary threshold the final detection
// threshold is frozen a configurable fraction of the way from baseline to
// the observed peak, tolerating event-to-event brightness variance while
// still rejecting near-baseline noise. The calibration event itself is
// discarded and never reported.
func (d *Detector) captureCalibration(brightness float64) Result {
	if brightness > d.prelimThreshold {
		if brightness > d.calibPeak {
			d.calibPeak = brightness
		}
		return nil
	}

	threshold := d.baseline + (d.calibPeak-d.baseline)*d.cfg.GetCalibrationPeakFraction()
	d.model = analysis.ThresholdModel{
		Baseline:  d.baseline,
		Threshold: threshold,
		Peak:      d.calibPeak,
		StdDev:    d.stddev,
	}
	d.state = StateArmed
	monitoring.Logf("live[%s]: armed, threshold=%.2f (peak %.2f)", d.sessionID, threshold, d.calibPeak)

	return CalibrationComplete{Model: d.model}
}

// detect is the Armed-phase classifier: WaitingForEvent and EventInProgress
// toggled by strict threshold comparison. An event in progress waits
// indefinitely for the brightness to drop; very slow shutter speeds are
// expected and must not be truncated.
func (d *Detector) detect(brightness float64, frame int, timestampNanos int64) Result {
	open := brightness > d.model.Threshold

	if !d.inEvent {
		if !open {
			return nil
		}
		d.inEvent = true
		d.eventStart = frame
		d.eventStartNanos = timestampNanos
		d.eventBrightness = []float64{brightness}
		return nil
	}

	if open {
		d.eventBrightness = append(d.eventBrightness, brightness)
		return nil
	}

	event := analysis.ShutterEvent{
		StartFrame:          d.eventStart,
		EndFrame:            frame - 1,
		BrightnessValues:    d.eventBrightness,
		BaselineBrightness:  d.model.Baseline,
		PeakBrightness:      d.model.Peak,
		StartTimestampNanos: d.eventStartNanos,
	}
	d.events = append(d.events, event)
	d.inEvent = false
	d.eventBrightness = nil
	monitoring.Logf("live[%s]: event %d frames %d-%d (%.2f weighted)",
		d.sessionID, len(d.events), event.StartFrame, event.EndFrame, event.WeightedDurationFrames())

	return EventDetected{Event: event}
}
