package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/pkg/logger"
	"github.com/auxcord/auxcord/pkg/metrics"
)

// SQLiteStore implements Store on a local SQLite database. The pure-Go
// driver keeps the binary cgo-free.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewSQLiteStore opens (or creates) the database at path and applies the
// schema. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// The driver serializes writes; a single connection avoids SQLITE_BUSY
	// under concurrent workers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:     db,
		logger: logger.Get().Named("store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	s.logger.Info(context.Background(), "database initialized", logger.String("path", path))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS members (
		group_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		avatar_url TEXT,
		PRIMARY KEY (group_id, user_id),
		FOREIGN KEY (group_id) REFERENCES groups(id)
	);

	CREATE TABLE IF NOT EXISTS shares (
		id TEXT PRIMARY KEY,
		group_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		genre TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (group_id) REFERENCES groups(id)
	);

	CREATE INDEX IF NOT EXISTS idx_shares_group_created ON shares(group_id, created_at);

	CREATE TABLE IF NOT EXISTS reactions (
		event_id TEXT PRIMARY KEY,
		group_id TEXT NOT NULL,
		share_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		shared_at DATETIME NOT NULL,
		reacted_at DATETIME NOT NULL,
		latency_ms INTEGER NOT NULL,
		FOREIGN KEY (share_id) REFERENCES shares(id)
	);

	CREATE INDEX IF NOT EXISTS idx_reactions_group_reacted ON reactions(group_id, reacted_at);
	CREATE INDEX IF NOT EXISTS idx_reactions_share ON reactions(share_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateGroup registers a group if it does not already exist.
func (s *SQLiteStore) CreateGroup(ctx context.Context, g model.Group) error {
	start := time.Now()
	defer func() { metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds())) }()

	createdAt := g.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		g.ID, g.Name, createdAt)
	if err != nil {
		return fmt.Errorf("create group %s: %w", g.ID, err)
	}
	return nil
}

// GroupExists reports whether a group is known.
func (s *SQLiteStore) GroupExists(ctx context.Context, groupID string) (bool, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM groups WHERE id = ?`, groupID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check group %s: %w", groupID, err)
	}
	return true, nil
}

// Group returns a group's record.
func (s *SQLiteStore) Group(ctx context.Context, groupID string) (model.Group, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	var g model.Group
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM groups WHERE id = ?`, groupID).
		Scan(&g.ID, &g.Name, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Group{}, ErrGroupNotFound
	}
	if err != nil {
		return model.Group{}, fmt.Errorf("load group %s: %w", groupID, err)
	}
	return g, nil
}

// AddMember upserts a member into a group's directory.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID string, m model.Member) error {
	start := time.Now()
	defer func() { metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds())) }()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (group_id, user_id, display_name, avatar_url)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(group_id, user_id) DO UPDATE SET
			display_name = excluded.display_name,
			avatar_url = excluded.avatar_url`,
		groupID, m.ID, m.DisplayName, m.AvatarURL)
	if err != nil {
		return fmt.Errorf("add member %s to %s: %w", m.ID, groupID, err)
	}
	return nil
}

// Members returns the group's directory ordered by member id.
func (s *SQLiteStore) Members(ctx context.Context, groupID string) ([]model.Member, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, display_name, COALESCE(avatar_url, '')
		 FROM members WHERE group_id = ? ORDER BY user_id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("load members of %s: %w", groupID, err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddShare upserts a share.
func (s *SQLiteStore) AddShare(ctx context.Context, sh model.Share) error {
	start := time.Now()
	defer func() { metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds())) }()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shares (id, group_id, user_id, title, artist, genre, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			genre = excluded.genre`,
		sh.ID, sh.GroupID, sh.MemberID, sh.Title, sh.Artist, sh.Genre, sh.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("add share %s: %w", sh.ID, err)
	}
	return nil
}

// ShareByID returns one share.
func (s *SQLiteStore) ShareByID(ctx context.Context, shareID string) (model.Share, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	var sh model.Share
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, user_id, title, artist, COALESCE(genre, ''), created_at
		 FROM shares WHERE id = ?`, shareID).
		Scan(&sh.ID, &sh.GroupID, &sh.MemberID, &sh.Title, &sh.Artist, &sh.Genre, &sh.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Share{}, ErrShareNotFound
	}
	if err != nil {
		return model.Share{}, fmt.Errorf("load share %s: %w", shareID, err)
	}
	sh.CreatedAt = sh.CreatedAt.UTC()
	return sh, nil
}

// Shares returns the group's shares created at or after since, with like and
// listen counts folded in from the reaction log.
func (s *SQLiteStore) Shares(ctx context.Context, groupID string, since time.Time) ([]model.Share, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.group_id, s.user_id, s.title, s.artist, COALESCE(s.genre, ''), s.created_at,
			COALESCE(SUM(CASE WHEN r.kind = 'like' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN r.kind = 'listen' THEN 1 ELSE 0 END), 0)
		 FROM shares s
		 LEFT JOIN reactions r ON r.share_id = s.id
		 WHERE s.group_id = ? AND s.created_at >= ?
		 GROUP BY s.id
		 ORDER BY s.created_at`, groupID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("load shares of %s: %w", groupID, err)
	}
	defer rows.Close()

	var shares []model.Share
	for rows.Next() {
		var sh model.Share
		if err := rows.Scan(&sh.ID, &sh.GroupID, &sh.MemberID, &sh.Title, &sh.Artist,
			&sh.Genre, &sh.CreatedAt, &sh.LikeCount, &sh.ListenCount); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		sh.CreatedAt = sh.CreatedAt.UTC()
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}

// RecordReaction persists a reaction event, absorbing redeliveries.
func (s *SQLiteStore) RecordReaction(ctx context.Context, e model.ReactionEvent) (bool, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds())) }()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reactions (event_id, group_id, share_id, user_id, kind, shared_at, reacted_at, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(event_id) DO NOTHING`,
		e.EventID, e.GroupID, e.ShareID, e.MemberID, string(e.Kind),
		e.SharedAt.UTC(), e.ReactedAt.UTC(), e.LatencyMs)
	if err != nil {
		return false, fmt.Errorf("record reaction %s: %w", e.EventID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record reaction %s: %w", e.EventID, err)
	}
	return n > 0, nil
}

// Reactions returns the group's reaction events reacted at or after since.
// Rows whose latency went negative (clock skew in old data) are excluded.
func (s *SQLiteStore) Reactions(ctx context.Context, groupID string, since time.Time) ([]model.ReactionEvent, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, group_id, share_id, user_id, kind, shared_at, reacted_at, latency_ms
		 FROM reactions
		 WHERE group_id = ? AND reacted_at >= ? AND latency_ms >= 0
		 ORDER BY reacted_at`, groupID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("load reactions of %s: %w", groupID, err)
	}
	defer rows.Close()

	var events []model.ReactionEvent
	for rows.Next() {
		var e model.ReactionEvent
		var kind string
		if err := rows.Scan(&e.EventID, &e.GroupID, &e.ShareID, &e.MemberID, &kind,
			&e.SharedAt, &e.ReactedAt, &e.LatencyMs); err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		e.Kind = model.ReactionKind(kind)
		if e.SharedAt.IsZero() || e.ReactedAt.IsZero() {
			continue
		}
		e.SharedAt = e.SharedAt.UTC()
		e.ReactedAt = e.ReactedAt.UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

// Counts returns storage totals and refreshes the tracked-state gauges.
func (s *SQLiteStore) Counts(ctx context.Context) (Counts, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	var c Counts
	err := s.db.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM groups),
			(SELECT COUNT(*) FROM members),
			(SELECT COUNT(*) FROM shares),
			(SELECT COUNT(*) FROM reactions)`).
		Scan(&c.Groups, &c.Members, &c.Shares, &c.Reactions)
	if err != nil {
		return Counts{}, fmt.Errorf("count rows: %w", err)
	}
	metrics.UpdateTrackedGroups(int(c.Groups))
	metrics.UpdateTrackedReactions(int(c.Reactions))
	return c, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
