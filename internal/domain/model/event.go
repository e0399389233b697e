// Package model contains domain models passed between layers.
package model

import "time"

// ReactionKind distinguishes the two reaction types a member can produce.
type ReactionKind string

const (
	// KindListen marks a listen reaction reported by the provider poller.
	KindListen ReactionKind = "listen"
	// KindLike marks an explicit like on a share.
	KindLike ReactionKind = "like"
)

// Valid reports whether k is a known reaction kind.
func (k ReactionKind) Valid() bool {
	return k == KindListen || k == KindLike
}

// Group is a listening group tracked by the service.
type Group struct {
	ID        string    `json:"groupId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Member is a group member from the directory, independent of share history.
type Member struct {
	ID          string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Share is a track pushed into a group feed.
type Share struct {
	ID          string    `json:"shareId"`
	GroupID     string    `json:"groupId"`
	MemberID    string    `json:"userId"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Genre       string    `json:"genre,omitempty"`
	CreatedAt   time.Time `json:"sharedAt"`
	LikeCount   int       `json:"likeCount"`
	ListenCount int       `json:"listenCount"`
}

// ReactionEvent is a listen or like tied to a share, with the latency from
// the share's creation to the reaction. LatencyMs is never negative; events
// that would violate that are excluded at ingest.
type ReactionEvent struct {
	EventID   string       `json:"eventId"`
	GroupID   string       `json:"groupId"`
	ShareID   string       `json:"shareId"`
	MemberID  string       `json:"userId"`
	Kind      ReactionKind `json:"kind"`
	SharedAt  time.Time    `json:"sharedAt"`
	ReactedAt time.Time    `json:"reactedAt"`
	LatencyMs int64        `json:"latencyMs"`
}

// LikeEvent is the narrow view of a like used by the aggregation engine.
type LikeEvent struct {
	MemberID string    `json:"userId"`
	ShareID  string    `json:"shareId"`
	LikedAt  time.Time `json:"likedAt"`
}

// Submission is a raw reaction as delivered by the poller, before the share
// has been resolved and the latency computed.
type Submission struct {
	EventID   string
	GroupID   string
	ShareID   string
	MemberID  string
	Kind      ReactionKind
	ReactedAt time.Time
}
