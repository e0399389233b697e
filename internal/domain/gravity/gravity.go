// Package gravity derives the taste-gravity graph: an affinity view of the
// group built from artist overlap between members' shares. The graph is
// recomputed per query and never persisted; the frontend renders it as a
// force layout, so links only need to be stable and deterministic, not
// structurally constrained.
package gravity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/auxcord/auxcord/internal/domain/model"
)

const topArtistLimit = 3

// Node is one member in the affinity graph. Mass grows with shares posted
// and reactions received, so heavy contributors pull harder in the layout.
type Node struct {
	UserID     string   `json:"userId"`
	Mass       float64  `json:"mass"`
	TopArtists []string `json:"topArtists"`
}

// Link connects two members whose shared artists overlap. Source is always
// the lower member id so each pair appears exactly once.
type Link struct {
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Gravity float64  `json:"gravity"`
	Reasons []string `json:"reasons"`
}

// Graph is the full taste-gravity structure for one group.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Build computes the graph from a snapshot. Every directory member appears
// as a node even with zero activity; links exist only where two members
// shared at least one artist in common.
func Build(members []model.Member, shares []model.Share, reactions []model.ReactionEvent) Graph {
	sharerOf := make(map[string]string, len(shares))
	artistCounts := make(map[string]map[string]int, len(members))
	shareCount := make(map[string]int, len(members))
	for _, s := range shares {
		sharerOf[s.ID] = s.MemberID
		shareCount[s.MemberID]++
		artist := strings.TrimSpace(s.Artist)
		if artist == "" {
			continue
		}
		if artistCounts[s.MemberID] == nil {
			artistCounts[s.MemberID] = make(map[string]int)
		}
		artistCounts[s.MemberID][artist]++
	}

	received := make(map[string]int, len(members))
	for _, r := range reactions {
		if sharer, ok := sharerOf[r.ShareID]; ok && sharer != r.MemberID {
			received[sharer]++
		}
	}

	nodes := make([]Node, 0, len(members))
	for _, m := range members {
		nodes = append(nodes, Node{
			UserID:     m.ID,
			Mass:       float64(shareCount[m.ID] + received[m.ID]),
			TopArtists: topArtists(artistCounts[m.ID]),
		})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].UserID < nodes[j].UserID })

	links := buildLinks(nodes, artistCounts)
	return Graph{Nodes: nodes, Links: links}
}

func buildLinks(nodes []Node, artistCounts map[string]map[string]int) []Link {
	links := make([]Link, 0)
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i].UserID, nodes[j].UserID
			shared := sharedArtists(artistCounts[a], artistCounts[b])
			if len(shared) == 0 {
				continue
			}
			links = append(links, Link{
				Source:  a,
				Target:  b,
				Gravity: jaccard(artistCounts[a], artistCounts[b]),
				Reasons: reasonsFor(shared),
			})
		}
	}
	return links
}

// sharedArtists returns the artists both members shared, ordered by combined
// share count descending then name ascending.
func sharedArtists(a, b map[string]int) []string {
	shared := make([]string, 0)
	for artist := range a {
		if _, ok := b[artist]; ok {
			shared = append(shared, artist)
		}
	}
	sort.Slice(shared, func(i, j int) bool {
		ci := a[shared[i]] + b[shared[i]]
		cj := a[shared[j]] + b[shared[j]]
		if ci != cj {
			return ci > cj
		}
		return shared[i] < shared[j]
	})
	return shared
}

// jaccard measures artist-set overlap in [0, 1].
func jaccard(a, b map[string]int) float64 {
	union := len(a)
	intersection := 0
	for artist := range b {
		if _, ok := a[artist]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func reasonsFor(shared []string) []string {
	reasons := make([]string, 0, 2)
	if len(shared) == 1 {
		reasons = append(reasons, fmt.Sprintf("Both share %s", shared[0]))
		return reasons
	}
	reasons = append(reasons, fmt.Sprintf("Both share %s and %s", shared[0], shared[1]))
	if extra := len(shared) - 2; extra > 0 {
		reasons = append(reasons, fmt.Sprintf("%d more artists in common", extra))
	}
	return reasons
}

func topArtists(counts map[string]int) []string {
	if len(counts) == 0 {
		return []string{}
	}
	artists := make([]string, 0, len(counts))
	for a := range counts {
		artists = append(artists, a)
	}
	sort.Slice(artists, func(i, j int) bool {
		if counts[artists[i]] != counts[artists[j]] {
			return counts[artists[i]] > counts[artists[j]]
		}
		return artists[i] < artists[j]
	})
	if len(artists) > topArtistLimit {
		artists = artists[:topArtistLimit]
	}
	return artists
}
