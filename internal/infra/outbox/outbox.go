// Package outbox queues activity completions that could not be written to
// the primary store and replays them later, at least once.
package outbox

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindscape-city/mindscape/internal/domain"
	"github.com/mindscape-city/mindscape/internal/infra/metrics"
)

// Store is the durable queue underneath the outbox.
type Store interface {
	EnqueuePendingCompletion(domain.PendingCompletion) error
	ListPendingCompletions() ([]domain.PendingCompletion, error)
	DeletePendingCompletion(id string) error
}

// Sink applies a replayed completion to the primary store. Replays are
// at-least-once, so the sink must tolerate duplicates.
type Sink func(activityID string, reward domain.Reward, at time.Time) error

// Queue captures completions while the sink is failing and drains them when
// it recovers.
type Queue struct {
	mu    sync.Mutex
	store Store
	log   *slog.Logger
}

// New returns a queue over the given store.
func New(store Store, log *slog.Logger) *Queue {
	return &Queue{store: store, log: log.With("component", "outbox")}
}

// Enqueue captures one completion for later replay.
func (q *Queue) Enqueue(activityID string, reward domain.Reward, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	p := domain.PendingCompletion{
		ID:         uuid.NewString(),
		ActivityID: activityID,
		Reward:     reward,
		QueuedAt:   at,
	}
	if err := q.store.EnqueuePendingCompletion(p); err != nil {
		return fmt.Errorf("enqueue completion: %w", err)
	}
	metrics.OutboxDepth.Inc()
	q.log.Info("completion queued for replay", "activity_id", activityID)
	return nil
}

// Flush replays queued completions oldest first, stopping at the first sink
// failure. Returns the number of completions replayed.
func (q *Queue) Flush(sink Sink) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.store.ListPendingCompletions()
	if err != nil {
		return 0, fmt.Errorf("list pending completions: %w", err)
	}

	replayed := 0
	for _, p := range pending {
		if err := sink(p.ActivityID, p.Reward, p.QueuedAt); err != nil {
			return replayed, fmt.Errorf("replay completion %s: %w", p.ID, err)
		}
		if err := q.store.DeletePendingCompletion(p.ID); err != nil {
			return replayed, fmt.Errorf("dequeue completion %s: %w", p.ID, err)
		}
		replayed++
		metrics.OutboxDepth.Dec()
		metrics.OutboxReplayed.Inc()
	}
	if replayed > 0 {
		q.log.Info("outbox drained", "replayed", replayed)
	}
	return replayed, nil
}

// Depth returns the number of completions awaiting replay.
func (q *Queue) Depth() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.store.ListPendingCompletions()
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}
