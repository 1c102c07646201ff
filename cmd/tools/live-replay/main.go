// Command live-replay feeds a recorded brightness series through the live
// detector frame by frame, logging calibration progress and detected
// events. Useful for validating the live state machine against recordings
// whose batch results are known.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/lightbox-data/shutter.report/internal/config"
	"github.com/lightbox-data/shutter.report/internal/live"
	"github.com/lightbox-data/shutter.report/internal/seriesio"
	"github.com/lightbox-data/shutter.report/internal/speed"
	"github.com/lightbox-data/shutter.report/internal/timeutil"
)

func main() {
	seriesPath := flag.String("series", "", "path to brightness series CSV (required)")
	recordingFPS := flag.Float64("fps", 240, "recording frame rate")
	configPath := flag.String("config", "", "optional tuning config JSON")
	realtime := flag.Bool("realtime", false, "pace frames at the recording rate instead of replaying flat out")
	flag.Parse()

	if *seriesPath == "" {
		flag.Usage()
		log.Fatal("-series is required")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	values, err := seriesio.ReadSeries(*seriesPath)
	if err != nil {
		log.Fatalf("read series: %v", err)
	}

	frameInterval := time.Duration(float64(time.Second) / *recordingFPS)
	detector := live.NewDetector(cfg)
	detector.Start()
	log.Printf("replaying %d frames through session %s", len(values), detector.SessionID())

	var pacer *timeutil.FramePacer
	if *realtime {
		pacer = timeutil.NewFramePacer(timeutil.RealClock{}, *recordingFPS)
	}

	start := time.Now()
	for i, v := range values {
		ts := start.Add(time.Duration(i) * frameInterval).UnixNano()
		res := detector.ProcessFrame(v, ts)

		switch r := res.(type) {
		case live.BaselineProgress:
			if r.Fraction == 1.0 {
				log.Printf("frame %d: baseline collected, fire calibration shutter", i)
			}
		case live.CalibrationComplete:
			log.Printf("frame %d: armed (baseline=%.2f threshold=%.2f)", i, r.Model.Baseline, r.Model.Threshold)
		case live.EventDetected:
			e := r.Event
			denominator := speed.CalculateShutterSpeed(&e, *recordingFPS, true)
			log.Printf("frame %d: event frames %d-%d, weighted %.2f -> %s",
				i, e.StartFrame, e.EndFrame, e.WeightedDurationFrames(),
				speed.FormatSpeed(1.0/denominator))
		}

		if pacer != nil {
			pacer.WaitNext()
		}
	}

	snap := detector.Snapshot()
	fmt.Printf("\nreplay complete: state=%s frames=%d events=%d\n", snap.State, snap.FrameCount, len(snap.Events))
	if snap.EventInProgress {
		fmt.Println("warning: series ended with an event still in progress")
	}
}
