package session

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/mindscape-city/mindscape/internal/app/minigame"
	"github.com/mindscape-city/mindscape/internal/app/reward"
	"github.com/mindscape-city/mindscape/internal/domain"
	"github.com/mindscape-city/mindscape/internal/infra/outbox"
)

// manualClock lets tests fire armed timers explicitly.
type manualClock struct {
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 4, 1, 10, 0, 0, 0, time.Local)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) AfterFunc(d time.Duration, f func()) minigame.Timer {
	t := &manualTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every armed, unstopped timer once.
func (c *manualClock) fire() {
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			t.fired = true
			t.f()
		}
	}
}

// fakeStore records writes in memory. Failures are injectable.
type fakeStore struct {
	completions     []domain.ActivityCompletion
	items           []domain.CityItem
	stats           domain.Stats
	todayCount      int
	failCompletions bool
}

func (f *fakeStore) InsertCompletion(c domain.ActivityCompletion) error {
	if f.failCompletions {
		return errors.New("store unavailable")
	}
	f.completions = append(f.completions, c)
	return nil
}

func (f *fakeStore) CompletionCountOn(time.Time) (int, error) { return f.todayCount, nil }

func (f *fakeStore) InsertCityItem(item domain.CityItem) error {
	f.items = append(f.items, item)
	return nil
}

func (f *fakeStore) GetStats() (domain.Stats, error) { return f.stats, nil }

func (f *fakeStore) SaveStats(s domain.Stats) error {
	f.stats = s
	return nil
}

// fakeOutboxStore is an in-memory pending-completion queue.
type fakeOutboxStore struct {
	pending []domain.PendingCompletion
}

func (f *fakeOutboxStore) EnqueuePendingCompletion(p domain.PendingCompletion) error {
	f.pending = append(f.pending, p)
	return nil
}

func (f *fakeOutboxStore) ListPendingCompletions() ([]domain.PendingCompletion, error) {
	return append([]domain.PendingCompletion(nil), f.pending...), nil
}

func (f *fakeOutboxStore) DeletePendingCompletion(id string) error {
	for i, p := range f.pending {
		if p.ID == id {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return nil
		}
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testActivity() domain.DailyActivity {
	return domain.DailyActivity{
		ID: "daily_1",
		ActivityTemplate: domain.ActivityTemplate{
			Type:            "cozy_sketch",
			Name:            "Cozy Sketch",
			DurationMinutes: 5,
			Reward:          domain.Reward{ItemName: "Art Gallery", Rarity: domain.Rare, ItemType: "building"},
		},
		EffectiveDifficulty: domain.Easy,
	}
}

func newTestController(store *fakeStore, obStore *fakeOutboxStore) (*Controller, *manualClock) {
	clock := newManualClock()
	var queue *outbox.Queue
	if obStore != nil {
		queue = outbox.New(obStore, quietLogger())
	}
	c := New(store, queue, reward.NewStreakTracker(), clock,
		rand.New(rand.NewSource(1)), quietLogger())
	return c, clock
}

// ─── Daily Limit ────────────────────────────────────────────────────────────

func TestStart_RefusedAtDailyLimit(t *testing.T) {
	store := &fakeStore{todayCount: MaxDailyActivities}
	c, _ := newTestController(store, nil)

	_, err := c.Start(testActivity(), domain.Spring)
	if !errors.Is(err, domain.ErrDailyLimitReached) {
		t.Fatalf("Start() at the limit = %v, want ErrDailyLimitReached", err)
	}
	if len(store.completions) != 0 || len(store.items) != 0 {
		t.Error("refused start must write nothing")
	}
}

func TestSetDailyLimit_OverridesCap(t *testing.T) {
	store := &fakeStore{todayCount: 2}
	c, _ := newTestController(store, nil)

	c.SetDailyLimit(2)
	if _, err := c.Start(testActivity(), domain.Spring); !errors.Is(err, domain.ErrDailyLimitReached) {
		t.Fatalf("Start() over lowered limit = %v, want ErrDailyLimitReached", err)
	}

	c.SetDailyLimit(0) // ignored
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if snap.MaxDailyActivities != 2 {
		t.Errorf("MaxDailyActivities = %d, want 2", snap.MaxDailyActivities)
	}
}

func TestStart_RefusedForLockedActivity(t *testing.T) {
	store := &fakeStore{}
	c, _ := newTestController(store, nil)

	locked := testActivity()
	locked.UnlockLevel = 3
	if _, err := c.Start(locked, domain.Spring); !errors.Is(err, domain.ErrActivityLocked) {
		t.Fatalf("Start() of a locked activity = %v, want ErrActivityLocked", err)
	}
}

func TestStart_SecondConcurrentSessionRefused(t *testing.T) {
	store := &fakeStore{}
	c, _ := newTestController(store, nil)

	if _, err := c.Start(testActivity(), domain.Spring); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if _, err := c.Start(testActivity(), domain.Spring); !errors.Is(err, domain.ErrSessionActive) {
		t.Errorf("second Start() = %v, want ErrSessionActive", err)
	}
}

func TestSnapshot_DerivesLevelFromBreaks(t *testing.T) {
	store := &fakeStore{stats: domain.Stats{TotalBreaks: 25}, todayCount: 2}
	c, _ := newTestController(store, nil)

	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if snap.Level != 3 {
		t.Errorf("level = %d for 25 breaks, want 3", snap.Level)
	}
	if !snap.CanPlay() {
		t.Error("2 of 5 breaks used, CanPlay() should be true")
	}
}

// ─── Completion Writes ──────────────────────────────────────────────────────

func TestCompletion_WritesLogItemAndStats(t *testing.T) {
	store := &fakeStore{stats: domain.Stats{TotalBreaks: 9, RareItemsCount: 1}}
	c, _ := newTestController(store, nil)

	sess, err := c.Start(testActivity(), domain.Spring)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := sess.CompleteManually(); err != nil {
		t.Fatalf("CompleteManually() error: %v", err)
	}

	if len(store.completions) != 1 {
		t.Fatalf("completion log has %d rows, want 1", len(store.completions))
	}
	if store.completions[0].RewardEarned != "Art Gallery" {
		t.Errorf("RewardEarned = %q", store.completions[0].RewardEarned)
	}
	if len(store.items) != 1 || store.items[0].ItemName != "Art Gallery" {
		t.Fatalf("city items = %+v, want the earned reward", store.items)
	}
	if store.stats.TotalBreaks != 10 {
		t.Errorf("TotalBreaks = %d, want 10", store.stats.TotalBreaks)
	}
	if store.stats.RareItemsCount != 2 {
		t.Errorf("RareItemsCount = %d, want 2", store.stats.RareItemsCount)
	}
	if store.stats.StreakCount != 1 {
		t.Errorf("StreakCount = %d, want 1", store.stats.StreakCount)
	}
}

func TestCompletion_ControllerFreesSlotAfterFinish(t *testing.T) {
	store := &fakeStore{}
	c, _ := newTestController(store, nil)

	sess, err := c.Start(testActivity(), domain.Spring)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := sess.CompleteManually(); err != nil {
		t.Fatalf("CompleteManually() error: %v", err)
	}
	if _, err := c.Active(); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Errorf("Active() after completion = %v, want ErrNoActiveSession", err)
	}
	if _, err := c.Start(testActivity(), domain.Spring); err != nil {
		t.Errorf("Start() after completion = %v, want nil", err)
	}
}

// ─── Timeout & Cancel ───────────────────────────────────────────────────────

func TestTimeout_PersistsNothing(t *testing.T) {
	store := &fakeStore{}
	c, clock := newTestController(store, nil)

	if _, err := c.Start(testActivity(), domain.Spring); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	clock.fire() // session timer lapses

	if len(store.completions) != 0 || len(store.items) != 0 {
		t.Error("timed-out session must write nothing")
	}
	if store.stats.TotalBreaks != 0 {
		t.Errorf("TotalBreaks = %d after timeout, want 0", store.stats.TotalBreaks)
	}
}

func TestCancel_PersistsNothingAndFreesSlot(t *testing.T) {
	store := &fakeStore{}
	c, _ := newTestController(store, nil)

	if _, err := c.Start(testActivity(), domain.Spring); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := c.Cancel(); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if len(store.completions) != 0 {
		t.Error("cancelled session must write nothing")
	}
	if err := c.Cancel(); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Errorf("second Cancel() = %v, want ErrNoActiveSession", err)
	}
}

// ─── Outbox ─────────────────────────────────────────────────────────────────

func TestCompletion_StoreFailureQueuesForReplay(t *testing.T) {
	store := &fakeStore{failCompletions: true}
	obStore := &fakeOutboxStore{}
	c, _ := newTestController(store, obStore)

	sess, err := c.Start(testActivity(), domain.Spring)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := sess.CompleteManually(); err != nil {
		t.Fatalf("CompleteManually() error: %v", err)
	}

	if len(obStore.pending) != 1 {
		t.Fatalf("outbox has %d rows, want 1", len(obStore.pending))
	}
	if obStore.pending[0].Reward.ItemName != "Art Gallery" {
		t.Errorf("queued reward = %+v", obStore.pending[0].Reward)
	}

	// Store recovers; flush replays the completion.
	store.failCompletions = false
	queue := outbox.New(obStore, quietLogger())
	replayed, err := queue.Flush(c.ReplaySink())
	if err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if replayed != 1 {
		t.Errorf("replayed = %d, want 1", replayed)
	}
	if len(store.completions) != 1 || len(obStore.pending) != 0 {
		t.Errorf("after flush: %d completions, %d pending; want 1 and 0",
			len(store.completions), len(obStore.pending))
	}
}
