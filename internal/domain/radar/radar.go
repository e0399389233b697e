// Package radar converts raw per-member reaction metrics into 0-100 axis
// scores normalized against the cohort, for visual comparison.
package radar

import (
	"sort"
	"time"

	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/internal/domain/stats"
	"github.com/auxcord/auxcord/internal/domain/window"
)

// defaultMinSamples is the minimum reaction count below which a profile is
// flagged low-data. Flagged profiles keep their computed scores; consumers
// render them with reduced visual weight but never hide them.
const defaultMinSamples = 3

const axisMax = 100.0

// Axes holds the five cohort-normalized scores, each in [0, 100].
type Axes struct {
	Speed       float64 `json:"speed"`
	Consistency float64 `json:"consistency"`
	Recency     float64 `json:"recency"`
	Volume      float64 `json:"volume"`
	Burstiness  float64 `json:"burstiness"`
}

// Raw carries the unnormalized figures behind the axes.
type Raw struct {
	ReactionCount        int     `json:"reactionCount"`
	MedianLatencySeconds float64 `json:"medianLatencySeconds"`
	IQRSeconds           float64 `json:"iqrSeconds"`
}

// Profile is one member's radar view.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Axes        Axes   `json:"axes"`
	Raw         Raw    `json:"raw"`
	LowData     bool   `json:"lowData"`
}

// Option applies a configuration option to the builder.
type Option func(*builder)

// WithMinSamples sets the low-data floor.
func WithMinSamples(n int) Option {
	return func(b *builder) {
		if n > 0 {
			b.minSamples = n
		}
	}
}

type builder struct {
	minSamples int
}

type rawMetrics struct {
	speed       float64
	consistency float64
	recency     float64
	volume      float64
	burstiness  float64
}

// Build computes the cohort-normalized radar profiles for every member.
// Each raw metric is scaled linearly against the cohort's observed maximum;
// a cohort max of 0 clamps that axis to 0 for everyone instead of dividing
// by zero.
func Build(members []model.Member, shares []model.Share, reactions []model.ReactionEvent, w window.Window, opts ...Option) []Profile {
	b := &builder{minSamples: defaultMinSamples}
	for _, opt := range opts {
		opt(b)
	}

	th := window.ThresholdsFor(w)
	recencyRank := shareRecencyRanks(shares)

	raws := make([]rawMetrics, len(members))
	profiles := make([]Profile, len(members))
	var maxes rawMetrics

	for i, m := range members {
		var latencies []float64
		var times []time.Time
		var recencySum float64
		for _, r := range reactions {
			if r.MemberID != m.ID {
				continue
			}
			latencies = append(latencies, float64(r.LatencyMs))
			times = append(times, r.ReactedAt)
			recencySum += recencyRank[r.ShareID]
		}

		count := len(latencies)
		medianSec := stats.Median(latencies) / 1000
		iqrSec := (stats.Percentile(latencies, 75) - stats.Percentile(latencies, 25)) / 1000

		raw := rawMetrics{volume: float64(count)}
		if count > 0 {
			raw.speed = 1 / (1 + medianSec)
			raw.consistency = 1 / (1 + iqrSec)
			raw.recency = recencySum / float64(count)
			raw.burstiness = burstFraction(times, th.ClusterGap)
		}
		raws[i] = raw

		maxes.speed = max(maxes.speed, raw.speed)
		maxes.consistency = max(maxes.consistency, raw.consistency)
		maxes.recency = max(maxes.recency, raw.recency)
		maxes.volume = max(maxes.volume, raw.volume)
		maxes.burstiness = max(maxes.burstiness, raw.burstiness)

		profiles[i] = Profile{
			UserID:      m.ID,
			DisplayName: m.DisplayName,
			Raw: Raw{
				ReactionCount:        count,
				MedianLatencySeconds: medianSec,
				IQRSeconds:           iqrSec,
			},
			LowData: count < b.minSamples,
		}
	}

	for i := range profiles {
		profiles[i].Axes = Axes{
			Speed:       normalize(raws[i].speed, maxes.speed),
			Consistency: normalize(raws[i].consistency, maxes.consistency),
			Recency:     normalize(raws[i].recency, maxes.recency),
			Volume:      normalize(raws[i].volume, maxes.volume),
			Burstiness:  normalize(raws[i].burstiness, maxes.burstiness),
		}
	}

	return profiles
}

// normalize scales value against the cohort max into [0, 100].
func normalize(value, cohortMax float64) float64 {
	if cohortMax <= 0 {
		return 0
	}
	score := value / cohortMax * axisMax
	if score < 0 {
		return 0
	}
	if score > axisMax {
		return axisMax
	}
	return score
}

// shareRecencyRanks ranks shares by creation time into [0, 1], newest = 1.
// A single share ranks 1.
func shareRecencyRanks(shares []model.Share) map[string]float64 {
	ranks := make(map[string]float64, len(shares))
	if len(shares) == 0 {
		return ranks
	}
	if len(shares) == 1 {
		ranks[shares[0].ID] = 1
		return ranks
	}

	ordered := make([]model.Share, len(shares))
	copy(ordered, shares)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].CreatedAt.Before(ordered[j].CreatedAt) })

	for i, s := range ordered {
		ranks[s.ID] = float64(i) / float64(len(ordered)-1)
	}
	return ranks
}

// burstFraction returns the fraction of reactions that sit inside a burst:
// a run of three reactions whose successive gaps all fit within gap.
func burstFraction(reactedAts []time.Time, gap time.Duration) float64 {
	n := len(reactedAts)
	if n < 3 {
		return 0
	}
	times := make([]time.Time, n)
	copy(times, reactedAts)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	inBurst := make([]bool, n)
	for i := 0; i+2 < n; i++ {
		if times[i+1].Sub(times[i]) <= gap && times[i+2].Sub(times[i+1]) <= gap {
			inBurst[i] = true
			inBurst[i+1] = true
			inBurst[i+2] = true
		}
	}

	count := 0
	for _, b := range inBurst {
		if b {
			count++
		}
	}
	return float64(count) / float64(n)
}
