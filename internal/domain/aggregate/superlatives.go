package aggregate

import (
	"sort"

	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/internal/domain/stats"
)

// SuperlativeResult is one best-in-category winner.
type SuperlativeResult struct {
	Key           string  `json:"key"`
	WinningUserID string  `json:"winningUserId"`
	Value         float64 `json:"value"`
	Label         string  `json:"label"`
	Description   string  `json:"description"`
}

// superlativeRule ranks members on a single metric. Rules are evaluated
// independently; a rule with no qualifying data produces no entry rather
// than a zero-value winner.
type superlativeRule struct {
	key         string
	label       string
	description string
	// values returns the metric per member id; members absent from the map
	// do not qualify.
	values func(members []model.Member, shares []model.Share, reactions []model.ReactionEvent) map[string]float64
	// lowerIsBetter inverts the ranking for latency-style metrics.
	lowerIsBetter bool
}

var superlativeRules = []superlativeRule{
	{
		key:         "dj",
		label:       "The DJ",
		description: "Most tracks shared into the feed.",
		values: func(_ []model.Member, shares []model.Share, _ []model.ReactionEvent) map[string]float64 {
			v := make(map[string]float64)
			for _, s := range shares {
				v[s.MemberID]++
			}
			return v
		},
	},
	{
		key:         "trendsetter",
		label:       "Trendsetter",
		description: "Most likes received on their shares.",
		values: func(_ []model.Member, shares []model.Share, reactions []model.ReactionEvent) map[string]float64 {
			sharerOf := make(map[string]string, len(shares))
			for _, s := range shares {
				sharerOf[s.ID] = s.MemberID
			}
			v := make(map[string]float64)
			for _, r := range reactions {
				if r.Kind != model.KindLike {
					continue
				}
				if sharer, ok := sharerOf[r.ShareID]; ok {
					v[sharer]++
				}
			}
			return v
		},
	},
	{
		key:         "hype_machine",
		label:       "Hype Machine",
		description: "Most likes given to the group's shares.",
		values: func(_ []model.Member, _ []model.Share, reactions []model.ReactionEvent) map[string]float64 {
			v := make(map[string]float64)
			for _, r := range reactions {
				if r.Kind == model.KindLike {
					v[r.MemberID]++
				}
			}
			return v
		},
	},
	{
		key:         "deep_listener",
		label:       "Deep Listener",
		description: "Most listens given across the feed.",
		values: func(_ []model.Member, _ []model.Share, reactions []model.ReactionEvent) map[string]float64 {
			v := make(map[string]float64)
			for _, r := range reactions {
				if r.Kind == model.KindListen {
					v[r.MemberID]++
				}
			}
			return v
		},
	},
	{
		key:           "quick_draw",
		label:         "Quick Draw",
		description:   "Fastest trimmed-median reaction to new shares.",
		lowerIsBetter: true,
		values: func(_ []model.Member, _ []model.Share, reactions []model.ReactionEvent) map[string]float64 {
			latencies := make(map[string][]float64)
			for _, r := range reactions {
				latencies[r.MemberID] = append(latencies[r.MemberID], float64(r.LatencyMs))
			}
			v := make(map[string]float64)
			for id, ls := range latencies {
				v[id] = stats.TrimmedMedian(ls)
			}
			return v
		},
	},
}

// Superlatives evaluates every ranking rule over the snapshot. Ties are
// broken by ascending member id so results are deterministic regardless of
// the underlying query order.
func Superlatives(members []model.Member, shares []model.Share, reactions []model.ReactionEvent) []SuperlativeResult {
	out := make([]SuperlativeResult, 0, len(superlativeRules))
	for _, rule := range superlativeRules {
		values := rule.values(members, shares, reactions)
		if len(values) == 0 {
			continue
		}

		ids := make([]string, 0, len(values))
		for id := range values {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := values[ids[i]], values[ids[j]]
			if a != b {
				if rule.lowerIsBetter {
					return a < b
				}
				return a > b
			}
			return ids[i] < ids[j]
		})

		winner := ids[0]
		out = append(out, SuperlativeResult{
			Key:           rule.key,
			WinningUserID: winner,
			Value:         values[winner],
			Label:         rule.label,
			Description:   rule.description,
		})
	}
	return out
}
