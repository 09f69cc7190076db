// Package session enforces the daily activity limit and persists completions.
package session

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindscape-city/mindscape/internal/app/minigame"
	"github.com/mindscape-city/mindscape/internal/app/reward"
	"github.com/mindscape-city/mindscape/internal/domain"
	"github.com/mindscape-city/mindscape/internal/infra/metrics"
	"github.com/mindscape-city/mindscape/internal/infra/outbox"
)

// MaxDailyActivities caps how many breaks count per local calendar day.
const MaxDailyActivities = 5

// LimitMessage is shown instead of a session when the cap is reached.
const LimitMessage = "You've taken wonderful care of yourself today! Come back tomorrow for more mindful moments."

// Store is the persistence surface the controller writes through.
type Store interface {
	InsertCompletion(domain.ActivityCompletion) error
	CompletionCountOn(time.Time) (int, error)
	InsertCityItem(domain.CityItem) error
	GetStats() (domain.Stats, error)
	SaveStats(domain.Stats) error
}

// Controller runs at most one activity session at a time and records the
// outcome. Completions survive store failures via the outbox.
type Controller struct {
	mu     sync.Mutex
	store  Store
	queue  *outbox.Queue
	streak *reward.StreakTracker
	clock  minigame.Clock
	rng    *rand.Rand
	log    *slog.Logger

	maxDaily int
	active   *minigame.Session
}

// New wires a controller. The outbox queue may be nil, in which case a failed
// completion write is surfaced as an error instead of queued.
func New(store Store, queue *outbox.Queue, streak *reward.StreakTracker, clock minigame.Clock, rng *rand.Rand, log *slog.Logger) *Controller {
	return &Controller{
		store:    store,
		queue:    queue,
		streak:   streak,
		clock:    clock,
		rng:      rng,
		log:      log.With("component", "session"),
		maxDaily: MaxDailyActivities,
	}
}

// SetDailyLimit overrides the per-day break cap. Call during wiring, before
// the controller serves requests. Values below one are ignored.
func (c *Controller) SetDailyLimit(n int) {
	if n >= 1 {
		c.maxDaily = n
	}
}

// Snapshot recomputes the player's progress from the store.
func (c *Controller) Snapshot() (domain.ProgressSnapshot, error) {
	stats, err := c.store.GetStats()
	if err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("load stats: %w", err)
	}
	today, err := c.store.CompletionCountOn(c.clock.Now())
	if err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("count completions: %w", err)
	}
	return domain.ProgressSnapshot{
		Level:              domain.LevelForBreaks(stats.TotalBreaks),
		TotalBreaks:        stats.TotalBreaks,
		DailyActivityCount: today,
		MaxDailyActivities: c.maxDaily,
	}, nil
}

// Start begins a session for the given activity. It refuses when another
// session is running or the daily limit is reached.
func (c *Controller) Start(activity domain.DailyActivity, season domain.Season) (*minigame.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil && !c.active.Done() {
		return nil, domain.ErrSessionActive
	}

	snap, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	if !snap.CanPlay() {
		metrics.SessionsRefused.Inc()
		c.log.Info("session refused at daily limit", "count", snap.DailyActivityCount)
		return nil, domain.ErrDailyLimitReached
	}
	if activity.UnlockLevel > snap.Level {
		return nil, domain.ErrActivityLocked
	}

	s := minigame.NewSession(c.clock, c.rng, activity, season, func(res domain.CompletionResult) {
		c.onComplete(activity, res)
	})
	c.active = s
	s.Start()
	metrics.SessionsStarted.WithLabelValues(activity.Type).Inc()
	c.log.Info("session started", "activity", activity.Type, "difficulty", string(activity.EffectiveDifficulty))
	return s, nil
}

// Active returns the running session, or ErrNoActiveSession.
func (c *Controller) Active() (*minigame.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || c.active.Done() {
		return nil, domain.ErrNoActiveSession
	}
	return c.active, nil
}

// Cancel abandons the running session. Nothing is persisted.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	s := c.active
	c.mu.Unlock()

	if s == nil || s.Done() {
		return domain.ErrNoActiveSession
	}
	if err := s.Cancel(); err != nil {
		return err
	}
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
	c.log.Info("session cancelled", "activity", s.Activity().Type)
	return nil
}

// onComplete receives the single completion emitted by the session.
// Timed-out sessions are counted but write nothing.
func (c *Controller) onComplete(activity domain.DailyActivity, res domain.CompletionResult) {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()

	if res.Timeout {
		metrics.SessionsTimedOut.WithLabelValues(activity.Type).Inc()
		c.log.Info("session timed out", "activity", activity.Type)
		return
	}

	metrics.SessionsCompleted.WithLabelValues(activity.Type).Inc()
	now := c.clock.Now()
	if err := c.ApplyCompletion(res.ActivityID, res.Reward, now); err != nil {
		if c.queue == nil {
			c.log.Error("completion write failed", "activity", activity.Type, "error", err)
			return
		}
		c.log.Warn("completion write failed, queueing for replay", "error", err)
		if qerr := c.queue.Enqueue(res.ActivityID, res.Reward, now); qerr != nil {
			c.log.Error("outbox enqueue failed", "error", qerr)
		}
		return
	}
	c.log.Info("session completed", "activity", activity.Type, "reward", res.Reward.ItemName)
}

// ApplyCompletion performs the three completion writes: the completion log,
// the city inventory, and the aggregate stats. The writes are not atomic; a
// failure partway leaves earlier writes in place and replay may duplicate
// the completion row, so callers treat the log as append-mostly.
func (c *Controller) ApplyCompletion(activityID string, rw domain.Reward, at time.Time) error {
	if err := c.store.InsertCompletion(domain.ActivityCompletion{
		ID:           uuid.NewString(),
		ActivityID:   activityID,
		RewardEarned: rw.ItemName,
		CompletedAt:  at,
	}); err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}

	if err := c.store.InsertCityItem(domain.CityItem{
		ID:        uuid.NewString(),
		ItemName:  rw.ItemName,
		ItemType:  rw.ItemType,
		Rarity:    rw.Rarity,
		CreatedAt: at,
	}); err != nil {
		return fmt.Errorf("insert city item: %w", err)
	}

	stats, err := c.store.GetStats()
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	stats.TotalBreaks++
	switch rw.Rarity {
	case domain.Rare:
		stats.RareItemsCount++
	case domain.Legendary:
		stats.LegendaryItemsCount++
	}
	stats = c.streak.RecordBreakDay(stats, at)
	if err := c.store.SaveStats(stats); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	metrics.StreakLength.Set(float64(stats.StreakCount))
	return nil
}

// ReplaySink adapts ApplyCompletion for the outbox.
func (c *Controller) ReplaySink() outbox.Sink {
	return c.ApplyCompletion
}
