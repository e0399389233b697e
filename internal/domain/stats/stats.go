// Package stats provides the pure numeric routines behind the reaction
// analytics engine. Every function is total: empty and single-sample inputs
// degrade to neutral values instead of failing.
package stats

import (
	"math"
	"sort"
)

// trimFraction is the share of slowest samples dropped by TrimmedMedian.
const trimFraction = 0.2

// consensusRangeFraction and consensusQuorum define consensus detection:
// consensus holds when at least consensusQuorum of all samples fall within
// the fastest consensusRangeFraction of the observed latency range.
const (
	consensusRangeFraction = 0.1
	consensusQuorum        = 0.5
)

// Mean returns the arithmetic mean, or 0 for an empty set.
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// Median returns the middle value after an ascending sort; the average of the
// two middle values for even counts, 0 for an empty set.
func Median(samples []float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	sorted := sortedCopy(samples)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// StdDev returns the population standard deviation, 0 for N <= 1.
func StdDev(samples []float64) float64 {
	n := len(samples)
	if n <= 1 {
		return 0
	}
	mean := Mean(samples)
	var sumSq float64
	for _, s := range samples {
		d := s - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n))
}

// CoefficientOfVariation returns stddev/mean. A zero-mean set with more than
// one sample yields 1 rather than dividing by zero; smaller sets yield 0.
func CoefficientOfVariation(samples []float64) float64 {
	if len(samples) <= 1 {
		return 0
	}
	mean := Mean(samples)
	if mean == 0 {
		return 1
	}
	return StdDev(samples) / mean
}

// TrimmedMedian drops the slowest 20% of samples (floor(N*0.2) from the tail
// after an ascending sort) and takes the median of the remainder. A handful
// of ghost reactors showing up hours later must not distort the central
// tendency used for group-reaction scoring. If trimming would empty the set,
// the full-set median is returned.
func TrimmedMedian(samples []float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	sorted := sortedCopy(samples)
	drop := int(math.Floor(float64(n) * trimFraction))
	kept := sorted[:n-drop]
	if len(kept) == 0 {
		return Median(sorted)
	}
	return Median(kept)
}

// Percentile returns the p-th percentile (0-100) using linear interpolation
// between closest ranks; 0 for an empty set.
func Percentile(samples []float64, p float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return samples[0]
	}
	if p <= 0 {
		p = 0
	}
	if p >= 100 {
		p = 100
	}
	sorted := sortedCopy(samples)
	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// HasConsensus reports whether the group reacted as one: at least half of
// the samples sit within the fastest 10% of the observed range. A single
// sample or a zero range is trivially consensus. This deliberately tolerates
// a minority of stragglers.
func HasConsensus(samples []float64) bool {
	n := len(samples)
	if n == 0 {
		return false
	}
	if n == 1 {
		return true
	}
	sorted := sortedCopy(samples)
	min, max := sorted[0], sorted[n-1]
	rng := max - min
	if rng == 0 {
		return true
	}
	cutoff := min + consensusRangeFraction*rng
	count := 0
	for _, s := range sorted {
		if s <= cutoff {
			count++
		} else {
			break
		}
	}
	return float64(count) >= consensusQuorum*float64(n)
}

func sortedCopy(samples []float64) []float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return sorted
}
