// Package archetype maps reaction behavior onto two closed, ordered
// taxonomies: how a member reacts to shares (listening style) and how the
// group reacts to a member's shares (influence).
package archetype

import (
	"sort"
	"time"

	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/internal/domain/stats"
	"github.com/auxcord/auxcord/internal/domain/window"
)

// SpeedCategory grades a member's median reaction latency.
type SpeedCategory string

const (
	SpeedInstant SpeedCategory = "instant"
	SpeedFast    SpeedCategory = "fast"
	SpeedSteady  SpeedCategory = "steady"
	SpeedDelayed SpeedCategory = "delayed"
)

// HabitCategory grades the regularity of a member's reaction timing.
type HabitCategory string

const (
	HabitRitualist HabitCategory = "ritualist"
	HabitBatcher   HabitCategory = "batcher"
	HabitErratic   HabitCategory = "erratic"
)

// VolumeCategory grades a member's reaction volume against the group mean.
type VolumeCategory string

const (
	VolumeHighFreq  VolumeCategory = "high_freq"
	VolumeCasual    VolumeCategory = "casual"
	VolumeSelective VolumeCategory = "selective"
)

// Level is a coarse three-step grade used by the influence taxonomy.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Speed cutoffs in milliseconds. Instant is strict; fast and steady are
// inclusive at the upper bound, so a median of exactly one hour is fast.
const (
	speedInstantCutoffMs = 60_000
	speedFastCutoffMs    = 3_600_000
	speedSteadyCutoffMs  = 43_200_000
)

// Volume multipliers against the group mean.
const (
	volumeHighMultiplier = 1.2
	volumeLowMultiplier  = 0.5
)

// Influence grading cutoffs.
const (
	gravityHighCutoffMs   = 300_000   // 5 minutes, trimmed median
	gravityMediumCutoffMs = 7_200_000 // 2 hours
	urgencyHighCutoffMs   = 60_000    // 1 minute, p25
	urgencyMediumCutoffMs = 1_800_000 // 30 minutes
	magnetismHighFraction = 0.75
	magnetismMedFraction  = 0.4
)

// ListeningFeatures is the feature vector for the listening-style taxonomy.
type ListeningFeatures struct {
	Speed  SpeedCategory  `json:"speedCategory"`
	Habit  HabitCategory  `json:"habitCategory"`
	Volume VolumeCategory `json:"volumeCategory"`
}

// InfluenceFeatures is the feature vector for the influence taxonomy.
type InfluenceFeatures struct {
	Gravity      Level `json:"gravityLevel"`
	Urgency      Level `json:"urgencyLevel"`
	Magnetism    Level `json:"magnetismLevel"`
	Volume       Level `json:"volumeLevel"`
	HasConsensus bool  `json:"hasConsensus"`
}

// SpeedFor grades a median latency in milliseconds.
func SpeedFor(medianMs float64) SpeedCategory {
	switch {
	case medianMs < speedInstantCutoffMs:
		return SpeedInstant
	case medianMs <= speedFastCutoffMs:
		return SpeedFast
	case medianMs <= speedSteadyCutoffMs:
		return SpeedSteady
	default:
		return SpeedDelayed
	}
}

// VolumeFor grades a member's reaction count against the group mean count.
func VolumeFor(count int, groupMean float64) VolumeCategory {
	if groupMean <= 0 {
		return VolumeCasual
	}
	ratio := float64(count) / groupMean
	switch {
	case ratio > volumeHighMultiplier:
		return VolumeHighFreq
	case ratio < volumeLowMultiplier:
		return VolumeSelective
	default:
		return VolumeCasual
	}
}

// HabitFor grades timing regularity using the dynamic arc span. The member's
// coefficient of variation is normalized by the window's variance factor,
// projected onto the 20-330 degree range and compared against the window's
// cutoffs. Burst detection uses the window's cluster gap: three successive
// reactions whose adjacent gaps both fit inside the gap form a burst. In the
// mid zone between the cutoffs, a loose pair inside the gap still reads as
// batching; otherwise the timing counts as habitual.
func HabitFor(latenciesMs []float64, reactedAts []time.Time, th window.Thresholds) HabitCategory {
	cv := stats.CoefficientOfVariation(latenciesMs)
	score := cv / th.VarianceNorm
	arc := window.ArcSpan(score)

	if arc < th.RitualistCutoff {
		return HabitRitualist
	}
	if hasBurst(reactedAts, th.ClusterGap, 3) {
		return HabitBatcher
	}
	if arc > th.ErraticCutoff {
		return HabitErratic
	}
	if hasBurst(reactedAts, th.ClusterGap, 2) {
		return HabitBatcher
	}
	return HabitRitualist
}

// hasBurst reports whether any run of length consecutive reactions has every
// adjacent gap within gap.
func hasBurst(reactedAts []time.Time, gap time.Duration, length int) bool {
	if length < 2 || len(reactedAts) < length {
		return false
	}
	times := make([]time.Time, len(reactedAts))
	copy(times, reactedAts)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	run := 1
	for i := 1; i < len(times); i++ {
		if times[i].Sub(times[i-1]) <= gap {
			run++
			if run >= length {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

// ListeningFeaturesFor derives the listening feature vector for one member.
// groupMeanReactions is the mean reaction count across all directory members.
func ListeningFeaturesFor(memberID string, reactions []model.ReactionEvent, groupMeanReactions float64, th window.Thresholds) ListeningFeatures {
	var latencies []float64
	var times []time.Time
	for _, r := range reactions {
		if r.MemberID != memberID {
			continue
		}
		latencies = append(latencies, float64(r.LatencyMs))
		times = append(times, r.ReactedAt)
	}

	return ListeningFeatures{
		Speed:  SpeedFor(stats.Median(latencies)),
		Habit:  HabitFor(latencies, times, th),
		Volume: VolumeFor(len(latencies), groupMeanReactions),
	}
}

// InfluenceFeaturesFor derives the influence feature vector for one member
// from other members' reactions to that member's shares. Gravity uses the
// trimmed median so a single slow outlier cannot downgrade an otherwise
// instant group response, and consensus forces gravity high regardless of
// the trimmed-median threshold.
func InfluenceFeaturesFor(memberID string, shares []model.Share, reactions []model.ReactionEvent, memberCount int, groupMeanShares float64) InfluenceFeatures {
	ownShares := make(map[string]bool)
	ownCount := 0
	for _, s := range shares {
		if s.MemberID == memberID {
			ownShares[s.ID] = true
			ownCount++
		}
	}

	var latencies []float64
	reactorsByShare := make(map[string]map[string]bool)
	for _, r := range reactions {
		if !ownShares[r.ShareID] || r.MemberID == memberID {
			continue
		}
		latencies = append(latencies, float64(r.LatencyMs))
		if reactorsByShare[r.ShareID] == nil {
			reactorsByShare[r.ShareID] = make(map[string]bool)
		}
		reactorsByShare[r.ShareID][r.MemberID] = true
	}

	f := InfluenceFeatures{
		Gravity:   LevelLow,
		Urgency:   LevelLow,
		Magnetism: LevelLow,
		Volume:    volumeLevel(ownCount, groupMeanShares),
	}
	if len(latencies) == 0 {
		return f
	}

	f.HasConsensus = stats.HasConsensus(latencies)

	trimmed := stats.TrimmedMedian(latencies)
	switch {
	case f.HasConsensus || trimmed <= gravityHighCutoffMs:
		f.Gravity = LevelHigh
	case trimmed <= gravityMediumCutoffMs:
		f.Gravity = LevelMedium
	}

	p25 := stats.Percentile(latencies, 25)
	switch {
	case p25 <= urgencyHighCutoffMs:
		f.Urgency = LevelHigh
	case p25 <= urgencyMediumCutoffMs:
		f.Urgency = LevelMedium
	}

	if others := memberCount - 1; others > 0 && len(ownShares) > 0 {
		var total float64
		for shareID := range ownShares {
			total += float64(len(reactorsByShare[shareID])) / float64(others)
		}
		fraction := total / float64(len(ownShares))
		switch {
		case fraction >= magnetismHighFraction:
			f.Magnetism = LevelHigh
		case fraction >= magnetismMedFraction:
			f.Magnetism = LevelMedium
		}
	}

	return f
}

func volumeLevel(count int, groupMean float64) Level {
	if groupMean <= 0 {
		return LevelMedium
	}
	ratio := float64(count) / groupMean
	switch {
	case ratio > volumeHighMultiplier:
		return LevelHigh
	case ratio < volumeLowMultiplier:
		return LevelLow
	default:
		return LevelMedium
	}
}
