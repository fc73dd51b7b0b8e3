package autoencoder

import (
	"math"
	"sort"
)

// rollingMedian smooths series with a trailing window of the given
// size, matching pandas' `rolling(window, min_periods=1).median()`
// used by the reference implementation: every point, including the
// first window-1, is smoothed over whatever history is available
// rather than emitting NaN. No example repo in the corpus carries a
// rolling-statistics package, so this is hand-rolled; see DESIGN.md.
func rollingMedian(series []float64, window int) []float64 {
	if window <= 1 {
		out := make([]float64, len(series))
		copy(out, series)
		return out
	}
	out := make([]float64, len(series))
	buf := make([]float64, 0, window)
	for i := range series {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		buf = append(buf[:0], series[start:i+1]...)
		out[i] = median(buf)
	}
	return out
}

func median(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentile returns the p-th percentile (0-100) of xs using linear
// interpolation between closest ranks, the same convention as numpy's
// default `percentile` used by the reference implementation: the
// value at fractional rank (n-1)*p/100 of the sorted data.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo < 0 {
		return sorted[0]
	}
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
