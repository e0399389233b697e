package simulate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// persona shapes how a synthetic member reacts to shares.
type persona struct {
	name          string
	reactChance   float64       // probability of reacting to any given share
	likeChance    float64       // probability a reaction is a like, not a listen
	latencyBase   time.Duration // typical reaction latency
	latencySpread time.Duration
}

// The persona mix is tuned so a seeded group exercises every archetype
// branch: instant reactors, ritualists, batchers and ghosts.
var personas = []persona{
	{name: "instant", reactChance: 0.95, likeChance: 0.6, latencyBase: 20 * time.Second, latencySpread: 30 * time.Second},
	{name: "ritualist", reactChance: 0.8, likeChance: 0.4, latencyBase: 40 * time.Minute, latencySpread: 10 * time.Minute},
	{name: "batcher", reactChance: 0.7, likeChance: 0.3, latencyBase: 5 * time.Hour, latencySpread: 4 * time.Hour},
	{name: "ghost", reactChance: 0.15, likeChance: 0.1, latencyBase: 20 * time.Hour, latencySpread: 10 * time.Hour},
}

var artistPool = []string{
	"Radiohead", "Bjork", "Aphex Twin", "Burial", "Four Tet",
	"Khruangbin", "Little Simz", "Floating Points", "Caribou", "Bonobo",
}

type member struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	persona     persona
}

type share struct {
	ShareID  string `json:"shareId"`
	UserID   string `json:"userId"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	SharedAt string `json:"sharedAt"`

	sharedAt time.Time
}

// generateMembers produces the synthetic directory, cycling through the
// persona mix.
func generateMembers(count int) []member {
	members := make([]member, count)
	for i := range members {
		p := personas[i%len(personas)]
		members[i] = member{
			UserID:      uuid.New().String(),
			DisplayName: fmt.Sprintf("%s-%d", p.name, i),
			persona:     p,
		}
	}
	return members
}

// generateShares spreads shares across the span, attributed round-robin so
// every member has some share history.
func generateShares(rng *rand.Rand, members []member, count int, span time.Duration, now time.Time) []share {
	shares := make([]share, count)
	for i := range shares {
		sharer := members[i%len(members)]
		sharedAt := now.Add(-span + time.Duration(rng.Int63n(int64(span))))
		shares[i] = share{
			ShareID:  uuid.New().String(),
			UserID:   sharer.UserID,
			Title:    fmt.Sprintf("track-%d", i),
			Artist:   artistPool[rng.Intn(len(artistPool))],
			SharedAt: sharedAt.Format(time.RFC3339),
			sharedAt: sharedAt,
		}
	}
	return shares
}

// generateEvents rolls each member's persona against each share. Members
// never react to their own shares.
func generateEvents(rng *rand.Rand, groupID string, members []member, shares []share, now time.Time) []eventPayload {
	var events []eventPayload
	for _, sh := range shares {
		for _, m := range members {
			if m.UserID == sh.UserID {
				continue
			}
			if rng.Float64() > m.persona.reactChance {
				continue
			}

			latency := m.persona.latencyBase
			if m.persona.latencySpread > 0 {
				latency += time.Duration(rng.Int63n(int64(m.persona.latencySpread)))
			}
			reactedAt := sh.sharedAt.Add(latency)
			if reactedAt.After(now) {
				continue
			}

			kind := "listen"
			if rng.Float64() < m.persona.likeChance {
				kind = "like"
			}
			events = append(events, eventPayload{
				EventID:   uuid.New().String(),
				GroupID:   groupID,
				ShareID:   sh.ShareID,
				UserID:    m.UserID,
				Kind:      kind,
				ReactedAt: reactedAt.Format(time.RFC3339),
			})
		}
	}
	return events
}
