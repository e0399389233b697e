package archetype

import (
	"time"

	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/internal/domain/stats"
	"github.com/auxcord/auxcord/internal/domain/window"
)

// descriptionVariants is the number of phrasing variants per archetype.
const descriptionVariants = 3

// variantIndex selects a description variant deterministically from the
// member id. Not random: the same member must always read the same phrasing
// for a stable profile.
func variantIndex(userID string) int {
	if userID == "" {
		return 0
	}
	return int(userID[0]) % descriptionVariants
}

// ClassifyListening scans the listening rules in order and returns the first
// match. The fallback rule guarantees exactly one result for every feature
// vector.
func ClassifyListening(f ListeningFeatures, userID string) Result {
	for _, rule := range listeningRules {
		if rule.predicate == nil || rule.predicate(f) {
			return Result{
				Key:         rule.key,
				Title:       rule.title,
				Description: rule.descriptions[variantIndex(userID)],
				Badge:       rule.badge,
			}
		}
	}
	// Unreachable: the fallback rule has a nil predicate.
	last := listeningRules[len(listeningRules)-1]
	return Result{Key: last.key, Title: last.title, Description: last.descriptions[0], Badge: last.badge}
}

// ClassifyInfluence is the influence-taxonomy counterpart of
// ClassifyListening.
func ClassifyInfluence(f InfluenceFeatures, userID string) Result {
	for _, rule := range influenceRules {
		if rule.predicate == nil || rule.predicate(f) {
			return Result{
				Key:         rule.key,
				Title:       rule.title,
				Description: rule.descriptions[variantIndex(userID)],
				Badge:       rule.badge,
			}
		}
	}
	last := influenceRules[len(influenceRules)-1]
	return Result{Key: last.key, Title: last.title, Description: last.descriptions[0], Badge: last.badge}
}

// MemberArchetypes bundles both taxonomy results for one member.
type MemberArchetypes struct {
	UserID      string            `json:"userId"`
	DisplayName string            `json:"displayName"`
	Listening   Result            `json:"listening"`
	Influence   Result            `json:"influence"`
	Features    ListeningFeatures `json:"features"`
}

// Classify computes both archetypes for every directory member from a
// snapshot of the group's shares and reactions within the window.
func Classify(members []model.Member, shares []model.Share, reactions []model.ReactionEvent, w window.Window) []MemberArchetypes {
	th := window.ThresholdsFor(w)

	var meanReactions, meanShares float64
	if len(members) > 0 {
		meanReactions = float64(len(reactions)) / float64(len(members))
		meanShares = float64(len(shares)) / float64(len(members))
	}

	out := make([]MemberArchetypes, 0, len(members))
	for _, m := range members {
		lf := ListeningFeaturesFor(m.ID, reactions, meanReactions, th)
		inf := InfluenceFeaturesFor(m.ID, shares, reactions, len(members), meanShares)

		listening := ClassifyListening(lf, m.ID)
		listening.Title = RefineTitle(listening.Title, reactionTimesFor(m.ID, reactions), w)

		out = append(out, MemberArchetypes{
			UserID:      m.ID,
			DisplayName: m.DisplayName,
			Listening:   listening,
			Influence:   ClassifyInfluence(inf, m.ID),
			Features:    lf,
		})
	}
	return out
}

func reactionTimesFor(memberID string, reactions []model.ReactionEvent) []time.Time {
	var times []time.Time
	for _, r := range reactions {
		if r.MemberID == memberID {
			times = append(times, r.ReactedAt)
		}
	}
	return times
}

// GroupMedianLatency is a convenience for callers that report the group-wide
// median next to archetypes.
func GroupMedianLatency(reactions []model.ReactionEvent) float64 {
	latencies := make([]float64, 0, len(reactions))
	for _, r := range reactions {
		latencies = append(latencies, float64(r.LatencyMs))
	}
	return stats.Median(latencies)
}
