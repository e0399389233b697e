package window

import "time"

// Arc span projection bounds, in degrees. A member's normalized variance
// score is projected onto this range before habit classification.
const (
	ArcSpanMin = 20.0
	ArcSpanMax = 330.0
)

// Base thresholds for medium-length windows.
const (
	baseClusterGap      = 10 * time.Minute
	baseRitualistCutoff = 120.0
	baseErraticCutoff   = 240.0
	baseVarianceNorm    = 1.5
)

// Thresholds parameterize the habit classifiers for a given window length.
// Short observation windows are judged more strictly than long ones: a small
// sample over a day says less about habit than the same spread over a month.
type Thresholds struct {
	// RitualistCutoff is the arc span (degrees) below which a member's
	// reaction timing counts as ritualist.
	RitualistCutoff float64

	// ErraticCutoff is the arc span (degrees) above which the timing counts
	// as erratic.
	ErraticCutoff float64

	// ClusterGap is the maximum gap between three chronologically adjacent
	// reactions that still counts as a single burst.
	ClusterGap time.Duration

	// VarianceNorm divides the coefficient of variation to produce the 0-1
	// variance score. Smaller values judge the same spread more harshly.
	VarianceNorm float64
}

// ThresholdsFor returns the threshold set for w. Total over the enum; the
// unbounded All window is treated as a long window.
func ThresholdsFor(w Window) Thresholds {
	t := Thresholds{
		RitualistCutoff: baseRitualistCutoff,
		ErraticCutoff:   baseErraticCutoff,
		ClusterGap:      baseClusterGap,
		VarianceNorm:    baseVarianceNorm,
	}

	d := w.Duration()
	long := d == 0 || d > 7*24*time.Hour
	switch {
	case long:
		t.RitualistCutoff = 150
		t.ErraticCutoff = 270
		t.ClusterGap = baseClusterGap * 2
		t.VarianceNorm = 2.0
	case d < 48*time.Hour:
		t.RitualistCutoff = 100
		t.ErraticCutoff = 220
		t.VarianceNorm = 1.0
		if d <= 24*time.Hour {
			t.ClusterGap = baseClusterGap / 2
		}
	}
	return t
}

// ArcSpan projects a 0-1 variance score onto the arc span range.
func ArcSpan(varianceScore float64) float64 {
	if varianceScore < 0 {
		varianceScore = 0
	}
	if varianceScore > 1 {
		varianceScore = 1
	}
	return ArcSpanMin + varianceScore*(ArcSpanMax-ArcSpanMin)
}
