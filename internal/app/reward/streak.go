package reward

import (
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// StreakTracker maintains the consecutive-day break streak.
type StreakTracker struct{}

// NewStreakTracker returns a tracker.
func NewStreakTracker() *StreakTracker { return &StreakTracker{} }

// RecordBreakDay updates the streak for a break completed at the given time.
// Same-day completions leave the streak unchanged, the next calendar day
// extends it, and any larger gap resets it to one.
func (t *StreakTracker) RecordBreakDay(stats domain.Stats, at time.Time) domain.Stats {
	today := localMidnight(at)
	switch {
	case stats.LastActivityDate.IsZero():
		stats.StreakCount = 1
	case sameDay(stats.LastActivityDate, today):
		// Already counted today.
		return stats
	case sameDay(stats.LastActivityDate.AddDate(0, 0, 1), today):
		stats.StreakCount++
	default:
		stats.StreakCount = 1
	}
	stats.LastActivityDate = today
	return stats
}

// CelebrationDue reports whether the streak just hit a weekly multiple.
func CelebrationDue(streak int) bool {
	return streak > 0 && streak%7 == 0
}

func localMidnight(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
