// Package repository defines the event store interface and its SQLite
// implementation.
package repository

import (
	"context"
	"time"

	"github.com/auxcord/auxcord/internal/domain/model"
)

// Counts summarizes the stored state, used by the stats endpoint.
type Counts struct {
	Groups    int64 `json:"groups"`
	Members   int64 `json:"members"`
	Shares    int64 `json:"shares"`
	Reactions int64 `json:"reactions"`
}

// Store provides read/write access to groups, shares and reaction events.
// Read queries take a since time; the zero time means no lower bound.
type Store interface {
	// CreateGroup registers a group. Creating an existing group is a no-op.
	CreateGroup(ctx context.Context, g model.Group) error

	// GroupExists reports whether a group is known.
	GroupExists(ctx context.Context, groupID string) (bool, error)

	// Group returns a group's record. Returns ErrGroupNotFound if unknown.
	Group(ctx context.Context, groupID string) (model.Group, error)

	// AddMember upserts a member into a group's directory.
	AddMember(ctx context.Context, groupID string, m model.Member) error

	// Members returns the group's current directory, ordered by member id.
	Members(ctx context.Context, groupID string) ([]model.Member, error)

	// AddShare upserts a share.
	AddShare(ctx context.Context, s model.Share) error

	// ShareByID returns one share. Returns ErrShareNotFound if unknown.
	ShareByID(ctx context.Context, shareID string) (model.Share, error)

	// Shares returns the group's shares created at or after since.
	Shares(ctx context.Context, groupID string, since time.Time) ([]model.Share, error)

	// RecordReaction persists a reaction event keyed by its event id.
	// Returns false without error when the id was already stored.
	RecordReaction(ctx context.Context, e model.ReactionEvent) (bool, error)

	// Reactions returns the group's reaction events reacted at or after
	// since. Rows with unusable timestamps are excluded rather than failing
	// the query.
	Reactions(ctx context.Context, groupID string, since time.Time) ([]model.ReactionEvent, error)

	// Counts returns storage totals.
	Counts(ctx context.Context) (Counts, error)

	Close() error
}
