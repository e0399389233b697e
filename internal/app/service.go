// Package service wires the store, ingestion pipeline and analytics engines
// behind the interface the HTTP API depends on.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	eventqueue "github.com/auxcord/auxcord/internal/adapters/mq/queue"
	workerpool "github.com/auxcord/auxcord/internal/adapters/mq/worker"
	"github.com/auxcord/auxcord/internal/adapters/repository"
	"github.com/auxcord/auxcord/internal/domain/aggregate"
	"github.com/auxcord/auxcord/internal/domain/archetype"
	"github.com/auxcord/auxcord/internal/domain/dedupe"
	"github.com/auxcord/auxcord/internal/domain/gravity"
	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/internal/domain/radar"
	"github.com/auxcord/auxcord/internal/domain/reflex"
	"github.com/auxcord/auxcord/internal/domain/window"
	"github.com/auxcord/auxcord/pkg/logger"
	"github.com/auxcord/auxcord/pkg/metrics"
)

// IngestStatus describes the outcome of submitting a reaction event.
type IngestStatus int

const (
	// IngestAccepted means the submission was queued for processing.
	IngestAccepted IngestStatus = iota
	// IngestDuplicate means the event id was already seen.
	IngestDuplicate
	// IngestRejected means the queue refused the submission (backpressure).
	IngestRejected
)

// Overview bundles every analytics view for one group and window. The views
// are computed concurrently from independent snapshots and are best-effort
// consistent, not transactional.
type Overview struct {
	Window       string                        `json:"window"`
	Profiles     reflex.GroupReport            `json:"profiles"`
	Radar        []radar.Profile               `json:"radar"`
	Archetypes   []archetype.MemberArchetypes  `json:"archetypes"`
	Superlatives []aggregate.SuperlativeResult `json:"superlatives"`
	Timeline     []aggregate.TimelineBucket    `json:"timeline"`
	Engagement   []aggregate.MemberEngagement  `json:"engagement"`
	Gravity      gravity.Graph                 `json:"gravity"`
}

// snapshot is one point-in-time read of a group's state.
type snapshot struct {
	members   []model.Member
	shares    []model.Share
	reactions []model.ReactionEvent
}

// Service implements the API dependencies for the analytics system.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool

	workerCount     int
	queueSize       int
	dedupeSize      int
	dbPath          string
	minRadarSamples int

	started bool

	logger logger.Logger
	now    func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDBPath sets the SQLite database path. ":memory:" keeps everything
// in process.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithStore injects a pre-built store, bypassing WithDBPath.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithMinRadarSamples sets the low-data floor for radar profiles.
func WithMinRadarSamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minRadarSamples = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source, used by tests to pin windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       100000,
		dedupeSize:      50000,
		dbPath:          ":memory:",
		minRadarSamples: 3,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting analytics service...")

	if s.store == nil {
		store, err := repository.NewSQLiteStore(s.dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.store, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping analytics service...")

	if s.eventQueue != nil {
		_ = s.eventQueue.Close()
	}
	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
}

// Ingest accepts a raw reaction submission from the poller. Redelivered
// event ids are absorbed; queue backpressure unrecords the id so the poller
// can retry.
func (s *Service) Ingest(ctx context.Context, sub model.Submission) IngestStatus {
	if s.deduper.SeenAndRecord(ctx, sub.EventID) {
		metrics.RecordEventDuplicate()
		return IngestDuplicate
	}

	if !s.eventQueue.Enqueue(ctx, sub) {
		s.deduper.Unrecord(ctx, sub.EventID)
		s.logger.Warn(ctx, "submission rejected, queue full",
			logger.String("eventID", sub.EventID),
		)
		return IngestRejected
	}

	metrics.RecordEventIngested()
	return IngestAccepted
}

// SeedGroup registers a group with its directory and initial shares. Used by
// the seed endpoint and the simulator.
func (s *Service) SeedGroup(ctx context.Context, g model.Group, members []model.Member, shares []model.Share) error {
	if err := s.store.CreateGroup(ctx, g); err != nil {
		return err
	}
	for _, m := range members {
		if err := s.store.AddMember(ctx, g.ID, m); err != nil {
			return err
		}
	}
	for _, sh := range shares {
		if sh.GroupID == "" {
			sh.GroupID = g.ID
		}
		if err := s.store.AddShare(ctx, sh); err != nil {
			return err
		}
	}
	return nil
}

// AddShare records a new share into an existing group.
func (s *Service) AddShare(ctx context.Context, sh model.Share) error {
	exists, err := s.store.GroupExists(ctx, sh.GroupID)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrGroupNotFound
	}
	return s.store.AddShare(ctx, sh)
}

// loadSnapshot reads a group's members, shares and reactions for a window.
func (s *Service) loadSnapshot(ctx context.Context, groupID string, w window.Window) (snapshot, error) {
	exists, err := s.store.GroupExists(ctx, groupID)
	if err != nil {
		return snapshot{}, err
	}
	if !exists {
		return snapshot{}, repository.ErrGroupNotFound
	}

	since := w.Since(s.now())
	members, err := s.store.Members(ctx, groupID)
	if err != nil {
		return snapshot{}, err
	}
	shares, err := s.store.Shares(ctx, groupID, since)
	if err != nil {
		return snapshot{}, err
	}
	reactions, err := s.store.Reactions(ctx, groupID, since)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{members: members, shares: shares, reactions: reactions}, nil
}

// Profiles returns per-member latency profiles and group reflex buckets.
func (s *Service) Profiles(ctx context.Context, groupID string, w window.Window) (reflex.GroupReport, error) {
	snap, err := s.loadSnapshot(ctx, groupID, w)
	if err != nil {
		return reflex.GroupReport{}, err
	}
	return reflex.Report(snap.members, snap.reactions), nil
}

// Radar returns normalized radar profiles for every member.
func (s *Service) Radar(ctx context.Context, groupID string, w window.Window) ([]radar.Profile, error) {
	snap, err := s.loadSnapshot(ctx, groupID, w)
	if err != nil {
		return nil, err
	}
	return radar.Build(snap.members, snap.shares, snap.reactions, w,
		radar.WithMinSamples(s.minRadarSamples)), nil
}

// Archetypes returns listening and influence archetypes for every member.
func (s *Service) Archetypes(ctx context.Context, groupID string, w window.Window) ([]archetype.MemberArchetypes, error) {
	snap, err := s.loadSnapshot(ctx, groupID, w)
	if err != nil {
		return nil, err
	}
	return archetype.Classify(snap.members, snap.shares, snap.reactions, w), nil
}

// Superlatives returns the per-rule winners for a group.
func (s *Service) Superlatives(ctx context.Context, groupID string, w window.Window) ([]aggregate.SuperlativeResult, error) {
	snap, err := s.loadSnapshot(ctx, groupID, w)
	if err != nil {
		return nil, err
	}
	return aggregate.Superlatives(snap.members, snap.shares, snap.reactions), nil
}

// Timeline returns bucketed group activity.
func (s *Service) Timeline(ctx context.Context, groupID string, w window.Window) ([]aggregate.TimelineBucket, error) {
	snap, err := s.loadSnapshot(ctx, groupID, w)
	if err != nil {
		return nil, err
	}
	return aggregate.Timeline(snap.shares, snap.reactions, w), nil
}

// Engagement returns per-member engagement totals.
func (s *Service) Engagement(ctx context.Context, groupID string, w window.Window) ([]aggregate.MemberEngagement, error) {
	snap, err := s.loadSnapshot(ctx, groupID, w)
	if err != nil {
		return nil, err
	}
	return aggregate.Engagement(snap.members, snap.shares, snap.reactions), nil
}

// Gravity returns the taste-gravity graph.
func (s *Service) Gravity(ctx context.Context, groupID string, w window.Window) (gravity.Graph, error) {
	snap, err := s.loadSnapshot(ctx, groupID, w)
	if err != nil {
		return gravity.Graph{}, err
	}
	return gravity.Build(snap.members, snap.shares, snap.reactions), nil
}

// GroupOverview fans out every analytics view concurrently and joins the
// results. Each view reads its own snapshot; cross-view consistency is
// best-effort by design.
func (s *Service) GroupOverview(ctx context.Context, groupID string, w window.Window) (Overview, error) {
	var out Overview
	out.Window = w.String()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.Profiles(gctx, groupID, w)
		out.Profiles = v
		return err
	})
	g.Go(func() error {
		v, err := s.Radar(gctx, groupID, w)
		out.Radar = v
		return err
	})
	g.Go(func() error {
		v, err := s.Archetypes(gctx, groupID, w)
		out.Archetypes = v
		return err
	})
	g.Go(func() error {
		v, err := s.Superlatives(gctx, groupID, w)
		out.Superlatives = v
		return err
	})
	g.Go(func() error {
		v, err := s.Timeline(gctx, groupID, w)
		out.Timeline = v
		return err
	})
	g.Go(func() error {
		v, err := s.Engagement(gctx, groupID, w)
		out.Engagement = v
		return err
	})
	g.Go(func() error {
		v, err := s.Gravity(gctx, groupID, w)
		out.Gravity = v
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		stats["queueLength"] = s.eventQueue.Len(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		if counts, err := s.store.Counts(ctx); err == nil {
			stats["groups"] = counts.Groups
			stats["members"] = counts.Members
			stats["shares"] = counts.Shares
			stats["reactions"] = counts.Reactions
		}
	}
	return stats
}
