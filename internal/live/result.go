package live

import "github.com/lightbox-data/shutter.report/internal/analysis"

// Result is the per-frame outcome of Detector.ProcessFrame. Exactly one
// concrete type is returned when something noteworthy happened; a nil Result
// means the frame was consumed silently. Callers dispatch with a type
// switch.
type Result interface {
	isResult()
}

// BaselineProgress reports how far baseline collection has advanced, as a
// fraction in [0, 1].
type BaselineProgress struct {
	Fraction float64
}

// CalibrationComplete signals that the throw-away calibration shutter has
// been observed and the final threshold is frozen. The detector is Armed.
type CalibrationComplete struct {
	Model analysis.ThresholdModel
}

// EventDetected carries a completed shutter event: the brightness has
// dropped back to or below the threshold.
type EventDetected struct {
	Event analysis.ShutterEvent
}

func (BaselineProgress) isResult()    {}
func (CalibrationComplete) isResult() {}
func (EventDetected) isResult()       {}
