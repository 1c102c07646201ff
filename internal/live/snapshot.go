package live

import (
	"sync/atomic"

	"github.com/lightbox-data/shutter.report/internal/analysis"
)

// Snapshot is an immutable view of detector state for observers (UI,
// progress reporting) running on other goroutines. The frame producer
// publishes a fresh snapshot after every mutation; observers always see a
// consistent whole and never read the detector's mutable fields.
//
// Events shares its backing array with the detector's append-only event
// list. Completed events are never mutated, and observers only read up to
// len(Events), so the share is safe.
type Snapshot struct {
	SessionID        string
	State            State
	BaselineProgress float64
	Baseline         float64
	Threshold        float64
	FrameCount       int
	EventInProgress  bool
	Events           []analysis.ShutterEvent
}

type snapshotHolder struct {
	p atomic.Pointer[Snapshot]
}

func (h *snapshotHolder) store(s *Snapshot) {
	h.p.Store(s)
}

func (h *snapshotHolder) load() *Snapshot {
	return h.p.Load()
}

// Snapshot returns the most recently published state. Safe to call from any
// goroutine.
func (d *Detector) Snapshot() Snapshot {
	if s := d.snapshot.load(); s != nil {
		return *s
	}
	return Snapshot{SessionID: d.sessionID, State: StateIdle}
}

// publishSnapshot is called by the frame producer after each state change.
func (d *Detector) publishSnapshot() {
	progress := 0.0
	switch {
	case d.state == StateCollectingBaseline:
		window := d.cfg.GetBaselineWindowFrames()
		if window > 0 {
			progress = float64(len(d.baselineSamples)) / float64(window)
		}
	case d.state > StateCollectingBaseline:
		progress = 1.0
	}

	// Before arming, the preliminary threshold is the best available figure.
	threshold := d.model.Threshold
	if d.state == StateAwaitingCalibrationShutter || d.state == StateCapturingCalibrationEvent {
		threshold = d.prelimThreshold
	}

	d.snapshot.store(&Snapshot{
		SessionID:        d.sessionID,
		State:            d.state,
		BaselineProgress: progress,
		Baseline:         d.baseline,
		Threshold:        threshold,
		FrameCount:       d.frameIndex,
		EventInProgress:  d.inEvent,
		Events:           d.events,
	})
}
