package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mindscape-city/mindscape/internal/app/reward"
	"github.com/mindscape-city/mindscape/internal/domain"
	"github.com/mindscape-city/mindscape/internal/infra/metrics"
)

// checkInterval is how often the scheduler wakes to match break times.
// Break times are minute-granular, so once a minute is enough.
const checkInterval = time.Minute

// dailyReminderTime is when the claim-your-reward nudge fires.
const dailyReminderTime = "09:00"

// SnoozeDelay is how long a snoozed reminder waits before re-firing.
const SnoozeDelay = 5 * time.Minute

// breakMessages are rotated at random for break reminders.
var breakMessages = []string{
	"Time for a mindful break. Your city awaits!",
	"Pause for a moment. A few mindful minutes go a long way.",
	"Your breathing garden misses you. Take a short break?",
	"Step away from the screen and catch some clouds.",
	"A small break now keeps the streak alive.",
}

// streakTagPrefix tags celebration notifications with their milestone, so
// the notification log doubles as the restart-safe dedupe record.
const streakTagPrefix = "streak:"

// ScheduleStore is the read surface the scheduler polls.
type ScheduleStore interface {
	GetSchedule(id string) (domain.BreakSchedule, error)
	ListSchedules(activeOnly bool) ([]domain.BreakSchedule, error)
	GetUserSettings() (domain.UserSettings, error)
	GetStats() (domain.Stats, error)
	LatestNotificationByTag(tagPrefix string) (domain.Notification, error)
}

// Scheduler fires break reminders at their scheduled minute, the daily
// reward nudge at nine, and streak celebrations on weekly milestones.
type Scheduler struct {
	mu       sync.Mutex
	store    ScheduleStore
	notifier Notifier
	rewards  *reward.Service
	rng      *rand.Rand
	now      func() time.Time
	log      *slog.Logger

	lastFired       map[string]string // schedule id -> "2006-01-02 15:04" last fired
	reminderDate    string            // last date the daily reward nudge fired
	celebratedFor   int               // last streak length celebrated
	celebratedReady bool              // celebratedFor recovered from the log
}

// NewScheduler wires a scheduler. now is injectable for tests.
func NewScheduler(store ScheduleStore, notifier Notifier, rewards *reward.Service, rng *rand.Rand, now func() time.Time, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:     store,
		notifier:  notifier,
		rewards:   rewards,
		rng:       rng,
		now:       now,
		log:       log.With("component", "scheduler"),
		lastFired: make(map[string]string),
	}
}

// Run checks immediately, then once per minute until the context ends.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("notification scheduler started")
	s.Check(s.now())

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("notification scheduler stopped")
			return
		case <-ticker.C:
			s.Check(s.now())
		}
	}
}

// Check runs one scheduler pass for the given time.
func (s *Scheduler) Check(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.GetUserSettings()
	if err != nil {
		s.log.Error("load settings", "error", err)
		return
	}
	if !settings.NotificationsEnabled {
		return
	}

	s.checkBreaks(now)
	s.checkDailyReminder(now)
	s.checkStreakCelebration(now)
}

func (s *Scheduler) checkBreaks(now time.Time) {
	schedules, err := s.store.ListSchedules(true)
	if err != nil {
		s.log.Error("list schedules", "error", err)
		return
	}

	hhmm := now.Format("15:04")
	stamp := now.Format("2006-01-02 15:04")
	for _, sched := range schedules {
		if sched.BreakTime != hhmm {
			continue
		}
		if s.lastFired[sched.ID] == stamp {
			continue
		}
		s.lastFired[sched.ID] = stamp

		if sched.InDoNotDisturb(now) {
			metrics.NotificationsSuppressed.Inc()
			s.log.Info("reminder suppressed by do-not-disturb", "schedule", sched.ID)
			continue
		}
		s.sendBreakReminder(sched)
	}
}

func (s *Scheduler) sendBreakReminder(sched domain.BreakSchedule) {
	title := "Mindful Break"
	if sched.Label != "" {
		title = sched.Label
	}
	n := domain.Notification{
		Title: title,
		Body:  breakMessages[s.rng.Intn(len(breakMessages))],
		Tag:   "break:" + sched.ID,
		Actions: []domain.NotificationAction{
			{Action: "play", Title: "Take a break"},
			{Action: "snooze", Title: "In 5 minutes"},
		},
	}
	if err := s.notifier.Send(n); err != nil {
		s.log.Error("send reminder", "schedule", sched.ID, "error", err)
		return
	}
	metrics.NotificationsSent.WithLabelValues("break").Inc()
	s.log.Info("break reminder sent", "schedule", sched.ID, "time", sched.BreakTime)
}

// FireSnoozed re-sends the reminder for a snoozed schedule. The do-not-
// disturb window is re-checked at fire time.
func (s *Scheduler) FireSnoozed(scheduleID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, err := s.store.GetSchedule(scheduleID)
	if err != nil {
		s.log.Error("load snoozed schedule", "schedule", scheduleID, "error", err)
		return
	}
	if sched.InDoNotDisturb(now) {
		metrics.NotificationsSuppressed.Inc()
		return
	}
	s.sendBreakReminder(sched)
}

// checkDailyReminder nudges once per day at nine if today's reward is
// unclaimed.
func (s *Scheduler) checkDailyReminder(now time.Time) {
	if now.Format("15:04") != dailyReminderTime {
		return
	}
	date := now.Format("2006-01-02")
	if s.reminderDate == date {
		return
	}
	s.reminderDate = date

	claimed, err := s.rewards.ClaimedToday(now)
	if err != nil {
		s.log.Error("check daily reward", "error", err)
		return
	}
	if claimed {
		return
	}

	n := domain.Notification{
		Title:   "Daily Reward",
		Body:    "Your daily reward is waiting in the city.",
		Tag:     "daily-reward",
		Actions: []domain.NotificationAction{{Action: "claim", Title: "Claim"}},
	}
	if err := s.notifier.Send(n); err != nil {
		s.log.Error("send daily reminder", "error", err)
		return
	}
	metrics.NotificationsSent.WithLabelValues("daily-reward").Inc()
}

// checkStreakCelebration congratulates on each weekly streak milestone,
// once per milestone. The last celebrated milestone is recovered from the
// notification log so a daemon restart does not repeat it.
func (s *Scheduler) checkStreakCelebration(now time.Time) {
	stats, err := s.store.GetStats()
	if err != nil {
		s.log.Error("load stats", "error", err)
		return
	}
	if !s.recoverCelebrated() {
		return
	}
	if !reward.CelebrationDue(stats.StreakCount) || s.celebratedFor == stats.StreakCount {
		return
	}
	s.celebratedFor = stats.StreakCount

	n := domain.Notification{
		Title: "Streak Milestone",
		Body:  fmt.Sprintf("%d days of mindful breaks. Your city is thriving!", stats.StreakCount),
		Tag:   streakTagPrefix + strconv.Itoa(stats.StreakCount),
	}
	if err := s.notifier.Send(n); err != nil {
		s.log.Error("send celebration", "error", err)
		return
	}
	metrics.NotificationsSent.WithLabelValues("streak").Inc()
	s.log.Info("streak celebration sent", "streak", stats.StreakCount)
}

// recoverCelebrated loads the last celebrated milestone from the
// notification log on the first pass. Returns false while the log is
// unreadable, so a transient store error never re-fires a celebration.
func (s *Scheduler) recoverCelebrated() bool {
	if s.celebratedReady {
		return true
	}
	last, err := s.store.LatestNotificationByTag(streakTagPrefix)
	switch {
	case errors.Is(err, domain.ErrNotificationNotFound):
		// Nothing celebrated yet.
	case err != nil:
		s.log.Error("recover celebrated milestone", "error", err)
		return false
	default:
		if n, convErr := strconv.Atoi(strings.TrimPrefix(last.Tag, streakTagPrefix)); convErr == nil {
			s.celebratedFor = n
		}
	}
	s.celebratedReady = true
	return true
}
