package aggregate

import (
	"sort"
	"time"

	"github.com/auxcord/auxcord/internal/domain/model"
)

// MemberEngagement summarizes one member's contribution to the group feed.
// Members with no shares still appear, sourced from the directory.
type MemberEngagement struct {
	UserID        string     `json:"userId"`
	DisplayName   string     `json:"displayName"`
	TotalShares   int        `json:"totalShares"`
	LikesReceived int        `json:"likesReceived"`
	LikesGiven    int        `json:"likesGiven"`
	ListensGiven  int        `json:"listensGiven"`
	LastSharedAt  *time.Time `json:"lastSharedAt,omitempty"`
}

// Engagement computes per-member engagement totals over the snapshot.
func Engagement(members []model.Member, shares []model.Share, reactions []model.ReactionEvent) []MemberEngagement {
	byMember := make(map[string]*MemberEngagement, len(members))
	out := make([]MemberEngagement, 0, len(members))
	for _, m := range members {
		byMember[m.ID] = &MemberEngagement{UserID: m.ID, DisplayName: m.DisplayName}
	}

	sharerOf := make(map[string]string, len(shares))
	for _, s := range shares {
		sharerOf[s.ID] = s.MemberID
		e, ok := byMember[s.MemberID]
		if !ok {
			continue
		}
		e.TotalShares++
		if e.LastSharedAt == nil || s.CreatedAt.After(*e.LastSharedAt) {
			t := s.CreatedAt
			e.LastSharedAt = &t
		}
	}

	for _, r := range reactions {
		if giver, ok := byMember[r.MemberID]; ok {
			switch r.Kind {
			case model.KindLike:
				giver.LikesGiven++
			case model.KindListen:
				giver.ListensGiven++
			}
		}
		if r.Kind == model.KindLike {
			if receiver, ok := byMember[sharerOf[r.ShareID]]; ok {
				receiver.LikesReceived++
			}
		}
	}

	for _, m := range members {
		out = append(out, *byMember[m.ID])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalShares != out[j].TotalShares {
			return out[i].TotalShares > out[j].TotalShares
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
