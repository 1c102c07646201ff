package analysis

import (
	"math"
	"sort"
)

// Median returns the median of values. For an even number of samples the two
// middle ranks are averaged. Returns 0 for an empty input; short calibration
// windows are legitimate and must not fail.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile returns the p-th percentile of values using the linear-index
// method: the element at floor(p/100 * (n-1)) in the sorted slice. No
// interpolation between adjacent ranks, so Percentile(v, 0) is the minimum
// and Percentile(v, 100) is the maximum. Returns 0 for an empty input.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Floor(p / 100 * float64(n-1)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// PopStdDev returns the population standard deviation of values (divisor n,
// not n-1). Returns 0 for an empty input.
func PopStdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n))
}
