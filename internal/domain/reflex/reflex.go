// Package reflex classifies each member's aggregate reaction latency into a
// fixed reaction-speed bucket and computes the group-wide summary figures.
package reflex

import (
	"sort"

	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/internal/domain/stats"
)

// Category is a fixed reaction-speed bucket. The buckets use absolute,
// window-independent cutoffs so that a member's bucket is comparable across
// windows.
type Category string

const (
	CategoryInstant  Category = "instant"
	CategoryQuick    Category = "quick"
	CategorySlow     Category = "slow"
	CategoryLongTail Category = "long_tail"
	// CategoryNone marks members with no reactions in the window. They are
	// reported but excluded from bucket counts.
	CategoryNone Category = "no_data"
)

// Absolute bucket cutoffs in milliseconds. The lower bound of instant is
// strict and every other upper bound is inclusive, so a median of exactly
// one hour lands in quick.
const (
	instantCutoffMs = 60_000
	quickCutoffMs   = 3_600_000
	slowCutoffMs    = 43_200_000
)

// Categorize maps an aggregate latency (ms) onto its bucket.
func Categorize(medianMs float64) Category {
	switch {
	case medianMs < instantCutoffMs:
		return CategoryInstant
	case medianMs <= quickCutoffMs:
		return CategoryQuick
	case medianMs <= slowCutoffMs:
		return CategorySlow
	default:
		return CategoryLongTail
	}
}

// UserLatencyProfile is the derived per-member latency view, recomputed on
// every query and never persisted. JSON field names are the frontend contract.
type UserLatencyProfile struct {
	UserID                 string   `json:"userId"`
	DisplayName            string   `json:"displayName"`
	ReactionCount          int      `json:"reactionCount"`
	MedianMs               float64  `json:"medianMs"`
	P25Ms                  float64  `json:"p25Ms"`
	P75Ms                  float64  `json:"p75Ms"`
	StdDevMs               float64  `json:"stdDevMs"`
	CoefficientOfVariation float64  `json:"coefficientOfVariation"`
	TrimmedMedianMs        float64  `json:"trimmedMedianMs"`
	Category               Category `json:"category"`
}

// GroupReport bundles the per-member profiles with group-wide summary figures.
type GroupReport struct {
	Profiles        []UserLatencyProfile `json:"profiles"`
	GroupMedianMs   float64              `json:"groupMedianMs"`
	InstantReactors int                  `json:"instantReactors"`
	BucketCounts    map[Category]int     `json:"bucketCounts"`
}

// BuildProfile computes a member's latency profile from their reaction
// latencies within the window. Total over empty inputs.
func BuildProfile(member model.Member, latenciesMs []float64) UserLatencyProfile {
	p := UserLatencyProfile{
		UserID:        member.ID,
		DisplayName:   member.DisplayName,
		ReactionCount: len(latenciesMs),
		Category:      CategoryNone,
	}
	if len(latenciesMs) == 0 {
		return p
	}
	p.MedianMs = stats.Median(latenciesMs)
	p.P25Ms = stats.Percentile(latenciesMs, 25)
	p.P75Ms = stats.Percentile(latenciesMs, 75)
	p.StdDevMs = stats.StdDev(latenciesMs)
	p.CoefficientOfVariation = stats.CoefficientOfVariation(latenciesMs)
	p.TrimmedMedianMs = stats.TrimmedMedian(latenciesMs)
	p.Category = Categorize(p.MedianMs)
	return p
}

// LatenciesByMember groups reaction latencies by the reacting member.
func LatenciesByMember(reactions []model.ReactionEvent) map[string][]float64 {
	byMember := make(map[string][]float64)
	for _, r := range reactions {
		byMember[r.MemberID] = append(byMember[r.MemberID], float64(r.LatencyMs))
	}
	return byMember
}

// Report builds the full group report. Every directory member appears in the
// profile list, including those with zero reactions in the window; only
// members with reactions contribute to bucket counts and the group median.
func Report(members []model.Member, reactions []model.ReactionEvent) GroupReport {
	byMember := LatenciesByMember(reactions)

	report := GroupReport{
		Profiles:     make([]UserLatencyProfile, 0, len(members)),
		BucketCounts: make(map[Category]int),
	}

	var all []float64
	for _, r := range reactions {
		all = append(all, float64(r.LatencyMs))
	}
	report.GroupMedianMs = stats.Median(all)

	for _, m := range members {
		profile := BuildProfile(m, byMember[m.ID])
		report.Profiles = append(report.Profiles, profile)
		if profile.ReactionCount == 0 {
			continue
		}
		report.BucketCounts[profile.Category]++
		if profile.Category == CategoryInstant {
			report.InstantReactors++
		}
	}

	// Fastest members first; zero-reaction members sort last by member id.
	sort.SliceStable(report.Profiles, func(i, j int) bool {
		a, b := report.Profiles[i], report.Profiles[j]
		if (a.ReactionCount == 0) != (b.ReactionCount == 0) {
			return b.ReactionCount == 0
		}
		if a.ReactionCount == 0 && b.ReactionCount == 0 {
			return a.UserID < b.UserID
		}
		if a.MedianMs != b.MedianMs {
			return a.MedianMs < b.MedianMs
		}
		return a.UserID < b.UserID
	})

	return report
}
