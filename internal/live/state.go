package live

// State is the calibration phase of a live detector. Exactly one state is
// active at a time; transitions happen only inside ProcessFrame, Start and
// Reset, which are single-writer by contract.
type State int

const (
	// StateIdle is the initial state; frames are ignored until Start.
	StateIdle State = iota
	// StateCollectingBaseline accumulates the dark-frame window.
	StateCollectingBaseline
	// StateAwaitingCalibrationShutter waits for the user's throw-away
	// calibration shutter click to exceed the preliminary threshold.
	StateAwaitingCalibrationShutter
	// StateCapturingCalibrationEvent tracks the calibration excursion until
	// it falls back below the preliminary threshold.
	StateCapturingCalibrationEvent
	// StateArmed means calibration is complete and event detection is
	// active with a frozen threshold.
	StateArmed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollectingBaseline:
		return "collecting_baseline"
	case StateAwaitingCalibrationShutter:
		return "awaiting_calibration_shutter"
	case StateCapturingCalibrationEvent:
		return "capturing_calibration_event"
	case StateArmed:
		return "armed"
	default:
		return "unknown"
	}
}
