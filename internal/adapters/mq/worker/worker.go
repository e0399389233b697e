// Package worker drains the submission queue and persists resolved reaction
// events.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/pkg/logger"
	"github.com/auxcord/auxcord/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 4
	poolShutdownTimeout     = 30 * time.Second
)

// Submission abstracts what workers read off the queue.
type Submission = model.Submission

// Resolver looks up the share a submission reacted to.
type Resolver interface {
	ShareByID(ctx context.Context, shareID string) (model.Share, error)
}

// Recorder persists a resolved reaction event. It returns false when the
// event id was already stored, so redelivered events are absorbed silently.
type Recorder interface {
	RecordReaction(ctx context.Context, e model.ReactionEvent) (bool, error)
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Submission
}

// Worker processes submissions until stopped.
type Worker interface {
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker over an in-process queue.
type InMemoryWorker struct {
	queue    Queue
	resolver Resolver
	recorder Recorder
	name     string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(queue Queue, resolver Resolver, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		resolver: resolver,
		recorder: recorder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	submissions := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-submissions:
			if !ok {
				return
			}
			if err := w.process(ctx, s); err != nil {
				w.logger.Error(ctx, "failed to process submission",
					logger.String("eventID", s.EventID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight submission.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process resolves the share, computes the latency and persists the event.
// Submissions that cannot yield a non-negative latency are dropped, keeping
// the invariant that stored events always carry latencyMs >= 0.
func (w *InMemoryWorker) process(ctx context.Context, s Submission) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	share, err := w.resolver.ShareByID(ctx, s.ShareID)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "share_lookup")
		return fmt.Errorf("resolve share %s: %w", s.ShareID, err)
	}

	if s.ReactedAt.IsZero() || share.CreatedAt.IsZero() || s.ReactedAt.Before(share.CreatedAt) {
		metrics.RecordEventInvalid()
		w.logger.Debug(ctx, "dropping submission with unusable timestamps",
			logger.String("eventID", s.EventID),
			logger.String("shareID", s.ShareID),
		)
		return nil
	}

	event := model.ReactionEvent{
		EventID:   s.EventID,
		GroupID:   share.GroupID,
		ShareID:   share.ID,
		MemberID:  s.MemberID,
		Kind:      s.Kind,
		SharedAt:  share.CreatedAt,
		ReactedAt: s.ReactedAt,
		LatencyMs: s.ReactedAt.Sub(share.CreatedAt).Milliseconds(),
	}

	stored, err := w.recorder.RecordReaction(ctx, event)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_write")
		return fmt.Errorf("record reaction %s: %w", s.EventID, err)
	}
	if !stored {
		metrics.RecordEventDuplicate()
	}
	return nil
}

// Pool manages a fixed set of workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below 1 defaults to
// a multiple of the CPU count.
func NewPool(workerCount int, queue Queue, resolver Resolver, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(
			queue,
			resolver,
			recorder,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown stops all workers, waiting up to the pool timeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return nil
}
