package analysis

// Constants for plateau peak estimation
const (
	// DefaultPlateauFraction is the fraction of an event's max brightness a
	// frame must reach to count as plateau
	DefaultPlateauFraction = 0.90
	// DefaultMinPlateauFrames is the minimum plateau length for an event to
	// contribute to the peak estimate
	DefaultMinPlateauFrames = 10
)

// PlateauPeakBrightness estimates the fully-open brightness from detected
// events. Per event, frames at or above plateauFraction of the event max are
// plateau frames; only events with at least minPlateauFrames of them
// contribute their plateau mean, and the result is the median of those
// means. Short events that never stabilise are excluded so they cannot skew
// the estimate; when no event qualifies the 95th percentile of all event
// brightness is used instead. Returns 0 when there are no events.
func PlateauPeakBrightness(events []ShutterEvent, plateauFraction float64, minPlateauFrames int) float64 {
	if len(events) == 0 {
		return 0
	}

	var plateauMeans []float64
	for i := range events {
		values := events[i].BrightnessValues
		if len(values) == 0 {
			continue
		}
		eventMax := events[i].MaxBrightness()
		cutoff := eventMax * plateauFraction

		count := 0
		sum := 0.0
		for _, b := range values {
			if b >= cutoff {
				count++
				sum += b
			}
		}
		if count >= minPlateauFrames {
			plateauMeans = append(plateauMeans, sum/float64(count))
		}
	}

	if len(plateauMeans) > 0 {
		return Median(plateauMeans)
	}

	// No event held a stable plateau; fall back to a high percentile of
	// everything seen during events.
	var all []float64
	for i := range events {
		all = append(all, events[i].BrightnessValues...)
	}
	if len(all) == 0 {
		return 0
	}
	return Percentile(all, 95)
}
