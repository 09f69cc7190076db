package minigame

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mindscape-city/mindscape/internal/domain"
)

// MaxIntentionLen caps the intention text written on a lantern, in runes.
const MaxIntentionLen = 100

// LanternRelease runs the lantern loop: the user writes an intention, and
// releasing the lantern plays a three-phase ascent (phase 1 immediately,
// phase 2 after 1s, phase 3 after 2s) before completing at 3s total.
//
// Release is a point of no return: once the lantern is in the air the
// session cannot be cancelled, only the outer session timeout can still
// preempt it.
type LanternRelease struct {
	mu       sync.Mutex
	clock    Clock
	complete func(domain.CompletionResult)

	intention string
	phase     int // 0 = writing, 1..3 = ascent phases
	timer     Timer
	stopped   bool
}

// NewLanternRelease creates the machine in the writing state.
func NewLanternRelease(clock Clock, complete func(domain.CompletionResult)) *LanternRelease {
	return &LanternRelease{clock: clock, complete: complete}
}

// Start is a no-op: the lantern waits for the user to write and release.
func (l *LanternRelease) Start() {}

// Stop makes all future timer callbacks inert. Idempotent.
func (l *LanternRelease) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	if l.timer != nil {
		l.timer.Stop()
	}
}

// Release validates the intention and begins the ascent. Whitespace-only
// text is a no-op returning ErrEmptyIntention; a second release returns
// ErrReleaseInFlight.
func (l *LanternRelease) Release(intention string) error {
	intention = strings.TrimSpace(intention)
	if intention == "" {
		return domain.ErrEmptyIntention
	}
	if utf8.RuneCountInString(intention) > MaxIntentionLen {
		return domain.ErrIntentionTooLong
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return domain.ErrSessionFinished
	}
	if l.phase > 0 {
		return domain.ErrReleaseInFlight
	}

	l.intention = intention
	l.phase = 1
	l.timer = l.clock.AfterFunc(time.Second, l.advance)
	return nil
}

// Released reports whether the lantern is past the point of no return.
func (l *LanternRelease) Released() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase > 0
}

// Phase returns the current ascent phase (0 while writing).
func (l *LanternRelease) Phase() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

func (l *LanternRelease) advance() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.phase++
	if l.phase < 3 {
		l.timer = l.clock.AfterFunc(time.Second, l.advance)
		l.mu.Unlock()
		return
	}
	// Phase 3 reached at t=2s; completion fires one second later.
	l.timer = l.clock.AfterFunc(time.Second, l.finish)
	l.mu.Unlock()
}

func (l *LanternRelease) finish() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	intention := l.intention
	done := l.complete
	l.mu.Unlock()

	done(domain.CompletionResult{Intention: intention, Completed: true})
}
