// Package aggregate computes group activity timelines, per-member engagement
// totals and superlative winners directly from the share and reaction
// records.
package aggregate

import (
	"sort"
	"time"

	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/internal/domain/window"
)

// TimelineBucket is one fixed interval of group activity.
type TimelineBucket struct {
	Start    time.Time `json:"start"`
	Shares   int       `json:"shares"`
	Likes    int       `json:"likes"`
	Listens  int       `json:"listens"`
	Activity int       `json:"activity"`
}

// Timeline buckets shares and reactions into fixed intervals: hourly for the
// 24h window, daily otherwise. Buckets are returned in ascending order and
// only non-empty buckets are emitted.
func Timeline(shares []model.Share, reactions []model.ReactionEvent, w window.Window) []TimelineBucket {
	interval := 24 * time.Hour
	if w == window.Day {
		interval = time.Hour
	}

	buckets := make(map[time.Time]*TimelineBucket)
	get := func(t time.Time) *TimelineBucket {
		key := t.UTC().Truncate(interval)
		b, ok := buckets[key]
		if !ok {
			b = &TimelineBucket{Start: key}
			buckets[key] = b
		}
		return b
	}

	for _, s := range shares {
		get(s.CreatedAt).Shares++
	}
	for _, r := range reactions {
		switch r.Kind {
		case model.KindLike:
			get(r.ReactedAt).Likes++
		case model.KindListen:
			get(r.ReactedAt).Listens++
		}
	}

	out := make([]TimelineBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Activity = b.Shares + b.Likes + b.Listens
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
