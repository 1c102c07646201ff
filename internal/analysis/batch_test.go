package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildSeries writes a synthetic recording: baseline brightness everywhere,
// peak brightness across each [start, end] span.
func buildSeries(n int, baseline, peak float64, spans [][2]int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = baseline
	}
	for _, s := range spans {
		for i := s[0]; i <= s[1] && i < n; i++ {
			values[i] = peak
		}
	}
	return values
}

func TestFindEventsRecoversKnownSpans(t *testing.T) {
	spans := [][2]int{{40, 44}, {120, 131}, {300, 300}}
	values := buildSeries(400, 8, 180, spans)

	events := FindEvents(values, ThresholdModel{Baseline: 8, Threshold: 90})
	if len(events) != len(spans) {
		t.Fatalf("got %d events, want %d", len(events), len(spans))
	}

	var got [][2]int
	for _, e := range events {
		got = append(got, [2]int{e.StartFrame, e.EndFrame})
		if e.Unterminated {
			t.Errorf("event [%d,%d] flagged unterminated, closed in-series", e.StartFrame, e.EndFrame)
		}
		if e.BaselineBrightness != 8 {
			t.Errorf("event baseline = %v, want 8", e.BaselineBrightness)
		}
	}
	if diff := cmp.Diff(spans, got); diff != "" {
		t.Errorf("event spans mismatch (-want +got):\n%s", diff)
	}
}

func TestFindEventsTrailingOpenRun(t *testing.T) {
	// The recording stops while the shutter is still open.
	values := buildSeries(100, 8, 180, [][2]int{{95, 99}})

	events := FindEvents(values, ThresholdModel{Baseline: 8, Threshold: 90})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if !e.Unterminated {
		t.Error("trailing open run must be flagged unterminated")
	}
	if e.StartFrame != 95 || e.EndFrame != 99 {
		t.Errorf("trailing event spans [%d,%d], want [95,99]", e.StartFrame, e.EndFrame)
	}
}

func TestFindEventsThresholdIsStrict(t *testing.T) {
	// Frames exactly at the threshold stay closed.
	values := []float64{10, 50, 50, 10}
	events := FindEvents(values, ThresholdModel{Threshold: 50})
	if len(events) != 0 {
		t.Fatalf("got %d events for at-threshold frames, want 0", len(events))
	}
}

func TestFindEventsEmptySeries(t *testing.T) {
	if events := FindEvents(nil, ThresholdModel{Threshold: 50}); len(events) != 0 {
		t.Errorf("got %d events for empty series, want 0", len(events))
	}
}

func TestAnalyzePipeline(t *testing.T) {
	spans := [][2]int{{100, 111}, {400, 415}, {700, 719}}
	values := buildSeries(1000, 6, 200, spans)

	res, err := Analyze(values, MethodMargin, ThresholdOptions{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Events) != len(spans) {
		t.Fatalf("got %d events, want %d", len(res.Events), len(spans))
	}
	for i, e := range res.Events {
		if e.StartFrame != spans[i][0] || e.EndFrame != spans[i][1] {
			t.Errorf("event %d spans [%d,%d], want [%d,%d]",
				i, e.StartFrame, e.EndFrame, spans[i][0], spans[i][1])
		}
	}

	if res.Model.Baseline != 6 {
		t.Errorf("baseline = %v, want 6", res.Model.Baseline)
	}
	if res.Model.Threshold <= 6 || res.Model.Threshold >= 200 {
		t.Errorf("threshold %v outside (6, 200)", res.Model.Threshold)
	}
	// Every event plateaus at 200 for 12+ frames.
	if res.Model.Peak != 200 {
		t.Errorf("plateau peak = %v, want 200", res.Model.Peak)
	}
	for _, e := range res.Events {
		if e.PeakBrightness != 200 {
			t.Errorf("event peak = %v, want 200", e.PeakBrightness)
		}
	}

	if res.Stats.Min != 6 || res.Stats.Max != 200 {
		t.Errorf("stats min/max = %v/%v, want 6/200", res.Stats.Min, res.Stats.Max)
	}
	if res.Stats.Median != 6 {
		t.Errorf("stats median = %v, want 6 for a mostly-dark series", res.Stats.Median)
	}
}

func TestAnalyzeHonorsPlateauOptions(t *testing.T) {
	// Three 5-frame events, each a ramp into a 3-frame plateau. Too short
	// for the default 10-frame plateau minimum, so defaults fall back to
	// the P95 of event samples (210, the ramp spike). A lowered minimum
	// lets each plateau contribute its mean (~196.67) instead.
	values := buildSeries(700, 6, 0, nil)
	profile := []float64{120, 190, 210, 190, 120}
	for _, start := range []int{100, 300, 500} {
		copy(values[start:start+len(profile)], profile)
	}

	res, err := Analyze(values, MethodMargin, ThresholdOptions{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Model.Peak != 210 {
		t.Errorf("peak with default plateau options = %v, want P95 fallback 210", res.Model.Peak)
	}

	res, err = Analyze(values, MethodMargin, ThresholdOptions{
		MinPlateauFrames: 3,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	wantMean := (190.0 + 210.0 + 190.0) / 3
	if !almostEqual(res.Model.Peak, wantMean, 1e-9) {
		t.Errorf("peak with 3-frame plateau minimum = %v, want plateau mean %v", res.Model.Peak, wantMean)
	}

	// Dropping the fraction pulls the ramp shoulders into the plateau.
	res, err = Analyze(values, MethodMargin, ThresholdOptions{
		PlateauFraction:  0.5,
		MinPlateauFrames: 3,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	wantMean = (120.0 + 190.0 + 210.0 + 190.0 + 120.0) / 5
	if !almostEqual(res.Model.Peak, wantMean, 1e-9) {
		t.Errorf("peak with 0.5 plateau fraction = %v, want whole-event mean %v", res.Model.Peak, wantMean)
	}
}

func TestAnalyzeZScoreRequiresExpectedCount(t *testing.T) {
	values := buildSeries(200, 6, 200, [][2]int{{50, 60}})
	if _, err := Analyze(values, MethodZScore, ThresholdOptions{}); err == nil {
		t.Fatal("expected error for zscore without expected event count")
	}
}

func TestPlateauPeakMedianOfMeans(t *testing.T) {
	flat := func(n int, v float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = v
		}
		return out
	}
	events := []ShutterEvent{
		{BrightnessValues: flat(12, 180)},
		{BrightnessValues: flat(15, 200)},
		{BrightnessValues: flat(20, 220)},
	}
	if got := PlateauPeakBrightness(events, DefaultPlateauFraction, DefaultMinPlateauFrames); got != 200 {
		t.Errorf("PlateauPeakBrightness = %v, want 200", got)
	}
}

func TestPlateauPeakShortEventsFallBack(t *testing.T) {
	// Three-frame events never reach the minimum plateau length, so the
	// estimate falls back to the 95th percentile of all event brightness.
	events := []ShutterEvent{
		{BrightnessValues: []float64{100, 180, 100}},
		{BrightnessValues: []float64{90, 170, 95}},
	}
	got := PlateauPeakBrightness(events, DefaultPlateauFraction, DefaultMinPlateauFrames)
	all := []float64{100, 180, 100, 90, 170, 95}
	if want := Percentile(all, 95); got != want {
		t.Errorf("PlateauPeakBrightness = %v, want P95 fallback %v", got, want)
	}
}

func TestPlateauPeakNoEvents(t *testing.T) {
	if got := PlateauPeakBrightness(nil, DefaultPlateauFraction, DefaultMinPlateauFrames); got != 0 {
		t.Errorf("PlateauPeakBrightness = %v, want 0 for no events", got)
	}
}

func TestPlateauPeakExcludesTransitionFrames(t *testing.T) {
	// Ramp frames below 90% of max must not dilute the plateau mean.
	e := ShutterEvent{BrightnessValues: []float64{
		50, 120, 198, 200, 202, 200, 198, 202, 200, 198, 200, 202, 120, 50,
	}}
	got := PlateauPeakBrightness([]ShutterEvent{e}, DefaultPlateauFraction, DefaultMinPlateauFrames)
	if got < 198 || got > 202 {
		t.Errorf("plateau mean = %v, want within [198, 202]", got)
	}
}
