package minigame

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// machine is the inner state machine contract. Stop must make any pending
// timer callbacks inert.
type machine interface {
	Start()
	Stop()
}

// Session wraps one running mini-activity with the outer session timer
// (durationMinutes × 60 seconds). The outer timer and the inner machine race
// independently; whichever completes first wins and the loser's callbacks
// are inert. The completion callback fires exactly once per session.
type Session struct {
	mu         sync.Mutex
	clock      Clock
	activity   domain.DailyActivity
	season     domain.Season
	onComplete func(domain.CompletionResult)

	inner machine
	outer Timer
	done  bool

	cloud   *CloudCatcher
	lantern *LanternRelease
	garden  *GardenBloom
}

// NewSession builds a session for the activity's type. Unknown activity
// types get a bare session: outer timer only, finished via CompleteManually.
func NewSession(clock Clock, rng *rand.Rand, activity domain.DailyActivity, season domain.Season, onComplete func(domain.CompletionResult)) *Session {
	s := &Session{
		clock:      clock,
		activity:   activity,
		season:     season,
		onComplete: onComplete,
	}

	switch activity.Type {
	case "cloud_catcher":
		s.cloud = NewCloudCatcher(clock, rng, activity.EffectiveDifficulty, s.finish)
		s.inner = s.cloud
	case "lantern_release":
		s.lantern = NewLanternRelease(clock, s.finish)
		s.inner = s.lantern
	case "garden_bloom":
		s.garden = NewGardenBloom(clock, activity.EffectiveDifficulty, s.finish)
		s.inner = s.garden
	}
	return s
}

// Start arms the outer timer and starts the inner machine.
func (s *Session) Start() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	duration := time.Duration(s.activity.DurationMinutes) * time.Minute
	s.outer = s.clock.AfterFunc(duration, s.onTimeout)
	inner := s.inner
	s.mu.Unlock()

	if inner != nil {
		inner.Start()
	}
}

// Activity returns the activity this session runs.
func (s *Session) Activity() domain.DailyActivity { return s.activity }

// CloudCatcher returns the inner cloud-catcher machine, or nil.
func (s *Session) CloudCatcher() *CloudCatcher { return s.cloud }

// LanternRelease returns the inner lantern machine, or nil.
func (s *Session) LanternRelease() *LanternRelease { return s.lantern }

// GardenBloom returns the inner garden machine, or nil.
func (s *Session) GardenBloom() *GardenBloom { return s.garden }

// Done reports whether the session has finished or been cancelled.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// CompleteManually finishes a session whose activity type has no inner
// machine.
func (s *Session) CompleteManually() error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return domain.ErrSessionFinished
	}
	if s.inner != nil {
		s.mu.Unlock()
		return domain.ErrUnknownActivity
	}
	s.mu.Unlock()

	s.finish(domain.CompletionResult{Completed: true})
	return nil
}

// Cancel stops the session with no completion callback. A lantern past its
// release cannot be cancelled: that is the one point of no return.
func (s *Session) Cancel() error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return domain.ErrSessionFinished
	}
	if s.lantern != nil && s.lantern.Released() {
		s.mu.Unlock()
		return domain.ErrReleaseInFlight
	}
	s.done = true
	if s.outer != nil {
		s.outer.Stop()
	}
	inner := s.inner
	s.mu.Unlock()

	if inner != nil {
		inner.Stop()
	}
	return nil
}

// onTimeout is the outer timer firing. Outer timeout always wins over inner
// completion races: the inner machine's state is discarded.
func (s *Session) onTimeout() {
	s.finish(domain.CompletionResult{Completed: false, Timeout: true})
}

// finish resolves the completion race first-wins and stamps the activity
// fields onto the result before invoking the callback.
func (s *Session) finish(res domain.CompletionResult) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	if s.outer != nil {
		s.outer.Stop()
	}
	inner := s.inner
	s.mu.Unlock()

	if inner != nil {
		inner.Stop()
	}

	res.ActivityID = s.activity.ID
	res.Reward = s.activity.Reward
	res.SeasonBonus = s.season != domain.Summer
	s.onComplete(res)
}
