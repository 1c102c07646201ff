// Command gen-series generates a synthetic brightness series CSV with known
// event placement, for testing the analyzer and the live detector without a
// camera.
package main

import (
	"flag"
	"log"
	"math/rand"
	"strconv"
	"strings"

	"github.com/lightbox-data/shutter.report/internal/seriesio"
)

func main() {
	output := flag.String("o", "sample_series.csv", "output path")
	frames := flag.Int("n", 2000, "total number of frames")
	baseline := flag.Float64("baseline", 6.0, "dark-frame brightness level")
	peak := flag.Float64("peak", 180.0, "open-shutter brightness level")
	noise := flag.Float64("noise", 0.5, "uniform noise amplitude on dark frames")
	durations := flag.String("events", "3,5,8,12", "comma-separated event durations in frames")
	gap := flag.Int("gap", 200, "frames between events")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	var eventDurations []int
	for _, part := range strings.Split(*durations, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d <= 0 {
			log.Fatalf("invalid event duration %q", part)
		}
		eventDurations = append(eventDurations, d)
	}

	rng := rand.New(rand.NewSource(*seed))
	values := make([]float64, *frames)
	for i := range values {
		values[i] = *baseline + rng.Float64()**noise
	}

	// Place events at fixed gaps, leaving the head of the series dark for
	// live-mode baseline collection.
	frame := *gap
	for i, d := range eventDurations {
		if frame+d >= *frames {
			log.Fatalf("series too short for event %d (frame %d + %d frames)", i+1, frame, d)
		}
		for j := 0; j < d; j++ {
			values[frame+j] = *peak + rng.Float64()**noise*4
		}
		// Transition frames on both edges, partially open.
		if frame > 0 {
			values[frame-1] = *baseline + (*peak-*baseline)*0.4
		}
		values[frame+d] = *baseline + (*peak-*baseline)*0.3
		log.Printf("event %d: frames %d-%d (%d frames)", i+1, frame, frame+d-1, d)
		frame += d + *gap
	}

	if err := seriesio.WriteSeries(*output, values); err != nil {
		log.Fatalf("write series: %v", err)
	}
	log.Printf("✓ Created: %s (%d frames, %d events)", *output, *frames, len(eventDurations))
}
