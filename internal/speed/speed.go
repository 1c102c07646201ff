// Package speed converts detected shutter events into shutter-speed values,
// parses and formats conventional speed notation, and compares measurements
// against expected speeds.
package speed

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lightbox-data/shutter.report/internal/analysis"
)

// Result is one measured speed, optionally compared to an expected value.
// DeviationKnown is false when no expected speed was supplied or it could
// not be parsed; the measurement itself is always valid.
type Result struct {
	MeasuredSeconds          float64 `json:"measured_seconds"`
	MeasuredSpeedDenominator float64 `json:"measured_speed_denominator"`
	ExpectedSpeed            string  `json:"expected_speed,omitempty"`
	DeviationPercent         float64 `json:"deviation_percent,omitempty"`
	DeviationKnown           bool    `json:"deviation_known"`
}

// DurationSeconds converts a (weighted) frame count into seconds at the
// given recording frame rate.
func DurationSeconds(frames float64, recordingFPS float64) float64 {
	return frames / recordingFPS
}

// CalculateShutterSpeed returns the event's effective shutter speed as the
// denominator of the conventional 1/x notation (80 for "1/80"). The
// weighted duration is used when useWeighted is set; otherwise the whole
// frame count.
func CalculateShutterSpeed(event *analysis.ShutterEvent, recordingFPS float64, useWeighted bool) float64 {
	frames := float64(event.DurationFrames())
	if useWeighted {
		frames = event.WeightedDurationFrames()
	}
	return 1.0 / DurationSeconds(frames, recordingFPS)
}

// CompareWithExpected returns the percentage error of a measured exposure
// duration against the expected one. Positive means the measurement ran
// longer than expected.
func CompareWithExpected(measuredSeconds, expectedSeconds float64) float64 {
	return (measuredSeconds - expectedSeconds) / expectedSeconds * 100
}

// ParseSpeed parses one shutter speed notation: "1/500" is a fraction of a
// second, a bare integer or decimal is whole seconds.
func ParseSpeed(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty speed")
	}
	if num, denom, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid speed %q: %w", s, err)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(denom), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid speed %q: %w", s, err)
		}
		if d == 0 {
			return 0, fmt.Errorf("invalid speed %q: zero denominator", s)
		}
		return n / d, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid speed %q: %w", s, err)
	}
	return v, nil
}

// SplitSpeeds splits a comma-separated list of speed notations, e.g.
// "1/500, 1/250, 1". Empty entries are skipped. Entries are not parsed
// here: an unreadable notation only marks its own comparison unknown later,
// it never rejects the whole list.
func SplitSpeeds(input string) []string {
	var speeds []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		speeds = append(speeds, part)
	}
	return speeds
}

// FormatSpeed renders a duration in seconds as conventional shutter
// notation: "1/500" below one second, "2.0s" at or above.
func FormatSpeed(seconds float64) string {
	if seconds >= 1.0 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	return fmt.Sprintf("1/%d", int(math.Round(1.0/seconds)))
}

// Comparison pairs a detected event with its measurement and, when
// available, the expected speed it was fired at.
type Comparison struct {
	Event  *analysis.ShutterEvent
	Result Result
}

// GroupEvents associates detected events with an ordered expected-speed
// notation list positionally: the first detected event is matched with the
// first expected speed, and so on. Detection order reflects the order the
// user actually fired the shutter, so no magnitude sorting is applied — if
// the user fires out of order the association is wrong, which is a known
// accuracy limitation of the protocol, not something to silently fix here.
// The longer list is truncated to the shorter. An unparseable notation
// marks only its own comparison unknown; the rest of the batch proceeds.
func GroupEvents(events []analysis.ShutterEvent, expectedSpeeds []string, recordingFPS float64) []Comparison {
	n := len(events)
	if len(expectedSpeeds) < n {
		n = len(expectedSpeeds)
	}

	comparisons := make([]Comparison, 0, n)
	for i := 0; i < n; i++ {
		e := &events[i]
		comparisons = append(comparisons, Comparison{
			Event:  e,
			Result: MeasureAgainst(e, recordingFPS, expectedSpeeds[i]),
		})
	}
	return comparisons
}

// Measure computes the speed result for one event. expectedSeconds <= 0
// means no expectation; the deviation is then marked unknown.
func Measure(event *analysis.ShutterEvent, recordingFPS float64, expectedSeconds float64) Result {
	denominator := CalculateShutterSpeed(event, recordingFPS, true)
	measuredSeconds := 1.0 / denominator

	r := Result{
		MeasuredSeconds:          measuredSeconds,
		MeasuredSpeedDenominator: denominator,
	}
	if expectedSeconds > 0 {
		r.ExpectedSpeed = FormatSpeed(expectedSeconds)
		r.DeviationPercent = CompareWithExpected(measuredSeconds, expectedSeconds)
		r.DeviationKnown = true
	}
	return r
}

// MeasureAgainst computes the speed result for one event against an
// expected-speed notation string. An unparseable string marks that single
// comparison unknown rather than failing the batch.
func MeasureAgainst(event *analysis.ShutterEvent, recordingFPS float64, expected string) Result {
	expectedSeconds, err := ParseSpeed(expected)
	if err != nil {
		r := Measure(event, recordingFPS, 0)
		r.ExpectedSpeed = expected
		return r
	}
	return Measure(event, recordingFPS, expectedSeconds)
}
