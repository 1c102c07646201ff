package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Threshold-selection method names.
const (
	MethodMargin  = "margin"
	MethodZScore  = "zscore"
	MethodCluster = "cluster"
)

// ValidMethods contains all valid threshold method values
var ValidMethods = []string{MethodMargin, MethodZScore, MethodCluster}

// IsValidMethod checks if the given method is in the list of valid methods
func IsValidMethod(method string) bool {
	for _, m := range ValidMethods {
		if method == m {
			return true
		}
	}
	return false
}

// GetValidMethodsString returns a comma-separated string of valid methods for error messages
func GetValidMethodsString() string {
	return "margin, zscore, cluster"
}

// ErrExpectedEventsRequired is returned when the zscore or cluster method is
// invoked without an expected event count. This is a caller contract
// violation, distinct from a valid analysis that finds no events.
var ErrExpectedEventsRequired = errors.New("expected event count required for this method")

// Constants for threshold calculation
const (
	// DefaultBaselinePercentile is the percentile treated as the closed-shutter baseline
	DefaultBaselinePercentile = 25.0
	// DefaultMarginFactor scales the median-baseline gap when deriving the margin threshold
	DefaultMarginFactor = 1.5
	// AbsoluteThresholdFloor is the last-resort margin above baseline when the series is flat
	AbsoluteThresholdFloor = 50.0
	// zScoreMin/zScoreMax bound the z sweep for the zscore method
	zScoreMin   = 1.0
	zScoreMax   = 5.0
	zScoreSteps = 40
	// clusterEpsMinFraction/clusterEpsMaxFraction bound the eps sweep (as a
	// fraction of the data range) for the cluster method
	clusterEpsMinFraction = 0.01
	clusterEpsMaxFraction = 0.2
	clusterEpsSteps       = 20
	clusterMinPts         = 5
)

// ThresholdOptions tunes ComputeThreshold and the Analyze pipeline. The
// zero value selects the defaults; ExpectedEvents is only consulted by the
// zscore and cluster methods and must be positive for those. The plateau
// fields tune peak estimation after event detection.
type ThresholdOptions struct {
	BaselinePercentile float64
	MarginFactor       float64
	ExpectedEvents     int
	PlateauFraction    float64
	MinPlateauFrames   int
}

func (o ThresholdOptions) baselinePercentile() float64 {
	if o.BaselinePercentile <= 0 {
		return DefaultBaselinePercentile
	}
	return o.BaselinePercentile
}

func (o ThresholdOptions) marginFactor() float64 {
	if o.MarginFactor <= 0 {
		return DefaultMarginFactor
	}
	return o.MarginFactor
}

func (o ThresholdOptions) plateauFraction() float64 {
	if o.PlateauFraction <= 0 {
		return DefaultPlateauFraction
	}
	return o.PlateauFraction
}

func (o ThresholdOptions) minPlateauFrames() int {
	if o.MinPlateauFrames <= 0 {
		return DefaultMinPlateauFrames
	}
	return o.MinPlateauFrames
}

// ComputeThreshold derives a ThresholdModel from a brightness sample set
// using the named method. Degenerate input (empty, uniform) never produces
// an error for the margin method; the fallback chain guarantees
// Threshold > Baseline so detection can always make forward progress.
func ComputeThreshold(values []float64, method string, opts ThresholdOptions) (ThresholdModel, error) {
	if !IsValidMethod(method) {
		return ThresholdModel{}, fmt.Errorf("invalid method %q (valid: %s)", method, GetValidMethodsString())
	}
	if (method == MethodZScore || method == MethodCluster) && opts.ExpectedEvents <= 0 {
		return ThresholdModel{}, fmt.Errorf("method %s: %w", method, ErrExpectedEventsRequired)
	}
	if len(values) == 0 {
		// Empty calibration window: baseline 0 plus the absolute floor.
		return ThresholdModel{Baseline: 0, Threshold: AbsoluteThresholdFloor}, nil
	}

	baseline := Percentile(values, opts.baselinePercentile())
	stddev := PopStdDev(values)

	switch method {
	case MethodZScore:
		t := zscoreThreshold(values, opts.ExpectedEvents)
		return ThresholdModel{Baseline: baseline, Threshold: t, StdDev: stddev}, nil
	case MethodCluster:
		t := clusterThreshold(values, opts.ExpectedEvents)
		return ThresholdModel{Baseline: baseline, Threshold: t, StdDev: stddev}, nil
	default:
		t := marginThreshold(values, baseline, opts.marginFactor())
		return ThresholdModel{Baseline: baseline, Threshold: t, StdDev: stddev}, nil
	}
}

// marginThreshold places the threshold a margin above the baseline, scaled
// by the gap between the series median and the baseline. Uniform series
// collapse that gap to zero, so two fallbacks keep the threshold strictly
// above the baseline: a fraction of the max-baseline range, then a fixed
// absolute floor.
func marginThreshold(values []float64, baseline, marginFactor float64) float64 {
	median := Median(values)
	threshold := baseline + (median-baseline)*marginFactor
	if threshold <= baseline {
		threshold = baseline + (floats.Max(values)-baseline)*0.1
	}
	if threshold <= baseline {
		threshold = baseline + AbsoluteThresholdFloor
	}
	return threshold
}

// zscoreThreshold treats the threshold as mean + z*stddev and sweeps z over
// a fixed range, picking the value whose above-threshold frame count best
// matches the expected event count.
func zscoreThreshold(values []float64, expectedEvents int) float64 {
	mean := stat.Mean(values, nil)
	stddev := PopStdDev(values)

	// Too uniform for a z-score to separate anything.
	if stddev < 1e-6 {
		return mean + 0.1
	}

	best := mean
	bestDiff := math.MaxFloat64
	step := (zScoreMax - zScoreMin) / float64(zScoreSteps-1)
	for i := 0; i < zScoreSteps; i++ {
		z := zScoreMin + float64(i)*step
		threshold := mean + z*stddev
		diff := math.Abs(float64(countAbove(values, threshold) - expectedEvents))
		if diff < bestDiff {
			bestDiff = diff
			best = threshold
		}
	}
	return best
}

// clusterThreshold separates dark and bright samples with 1-D density
// clustering and places the threshold midway between adjacent cluster
// means. The neighbourhood radius is swept as a fraction of the data range;
// the candidate whose above-threshold count best matches the expected event
// count wins. Falls back to the 95th percentile when no clustering
// separates the data.
func clusterThreshold(values []float64, expectedEvents int) float64 {
	dataRange := floats.Max(values) - floats.Min(values)
	if dataRange < 1e-6 {
		// Uniform data: place the cut so the expected number of frames land above it.
		return Percentile(values, 100-float64(expectedEvents)/float64(len(values))*100)
	}

	best := Percentile(values, 95)
	bestDiff := math.MaxFloat64

	epsStep := (clusterEpsMaxFraction - clusterEpsMinFraction) / float64(clusterEpsSteps-1)
	for i := 0; i < clusterEpsSteps; i++ {
		eps := dataRange * (clusterEpsMinFraction + float64(i)*epsStep)
		means := clusterMeans1D(values, eps, clusterMinPts)
		for j := 0; j+1 < len(means); j++ {
			threshold := (means[j] + means[j+1]) / 2
			diff := math.Abs(float64(countAbove(values, threshold) - expectedEvents))
			if diff < bestDiff {
				bestDiff = diff
				best = threshold
			}
		}
	}
	return best
}

// clusterMeans1D clusters values on the brightness axis: after sorting,
// a gap larger than eps splits clusters, and runs shorter than minPts are
// discarded as noise. Returns the cluster means in ascending order.
// Output is deterministic so threshold selection is reproducible.
func clusterMeans1D(values []float64, eps float64, minPts int) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var means []float64
	start := 0
	flush := func(end int) {
		if end-start >= minPts {
			means = append(means, stat.Mean(sorted[start:end], nil))
		}
		start = end
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] > eps {
			flush(i)
		}
	}
	flush(len(sorted))
	return means
}

func countAbove(values []float64, threshold float64) int {
	n := 0
	for _, v := range values {
		if v > threshold {
			n++
		}
	}
	return n
}
